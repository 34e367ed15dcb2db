package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/trackscrape/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because the report types carry plain struct tags and gin
// already renders the API body with the same tags.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// trackOnly writes just the track record, the same body the API returns.
	trackOnly bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithTrackOnly writes the bare track record instead of the full report.
func WithTrackOnly() JSONWriterOption {
	return func(w *JSONWriter) {
		w.trackOnly = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.TrackReport) (int, error) {
	return w.writeJSON(w.payload(report))
}

// WriteBatch outputs the reports as one JSON array.
func (w *JSONWriter) WriteBatch(reports []*model.TrackReport) (int, error) {
	reports = nonNil(reports)
	payloads := make([]any, len(reports))
	for i, r := range reports {
		payloads[i] = w.payload(r)
	}
	return w.writeJSON(payloads)
}

// payload selects what is serialized for one report.
func (w *JSONWriter) payload(report *model.TrackReport) any {
	if w.trackOnly {
		return report.Track
	}
	return report
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport is a wrapper for a report with additional metadata.
//
// Design decision: We wrap the report rather than modifying TrackReport
// because this allows us to add output-specific fields without polluting
// the core data structure.
type JSONReport struct {
	// Version is the trackscrape version that generated this report.
	Version string `json:"version"`

	// Report is the full extraction report.
	Report *model.TrackReport `json:"report"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.TrackReport, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Report:  report,
	}
}

// FullJSONWriter outputs complete reports with metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the trackscrape version string.
	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.TrackReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}

// WriteBatch outputs the reports as an array of wrapped reports.
func (w *FullJSONWriter) WriteBatch(reports []*model.TrackReport) (int, error) {
	reports = nonNil(reports)
	wrapped := make([]*JSONReport, len(reports))
	for i, r := range reports {
		wrapped[i] = NewJSONReport(r, w.version)
	}
	return w.writeJSON(wrapped)
}
