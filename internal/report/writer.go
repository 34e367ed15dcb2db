package report

import (
	"fmt"
	"io"

	"github.com/nao1215/trackscrape/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs one report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.TrackReport) (int, error)

	// WriteBatch outputs the reports of a multi-query run as one document.
	WriteBatch(reports []*model.TrackReport) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// nonNil drops nil entries so writers never have to check.
func nonNil(reports []*model.TrackReport) []*model.TrackReport {
	out := make([]*model.TrackReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// coverage formats "n of total".
func coverage(n, total int) string {
	return fmt.Sprintf("%d of %d", n, total)
}
