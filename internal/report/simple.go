package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/trackscrape/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so output can be piped to files or other tools unchanged.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with nothing to show are printed.
	showEmpty bool

	// verbose adds course URLs, performed steps and timing.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.TrackReport) (int, error) {
	var sb strings.Builder
	w.writeReport(&sb, report)
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs the reports one after another.
func (w *SimpleWriter) WriteBatch(reports []*model.TrackReport) (int, error) {
	var sb strings.Builder
	for _, r := range nonNil(reports) {
		w.writeReport(&sb, r)
	}
	return io.WriteString(w.output, sb.String())
}

// writeReport writes every section of one report.
func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.TrackReport) {
	w.writeHeader(sb, report)

	if report.Track != nil {
		w.writeDetails(sb, report.Track)
		w.writeSkills(sb, report.Track)
		w.writeCourses(sb, report.Track)
	}

	w.writeWarnings(sb, report)
	w.writeFooter(sb, report)
}

// writeHeader writes the report header with lookup information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.TrackReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          TRACK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if report.Query != "" {
		fmt.Fprintf(sb, "Query:     %s\n", report.Query)
	}
	if report.Track != nil {
		fmt.Fprintf(sb, "Track:     %s\n", report.Track.Name)
	}
	if report.URL != "" {
		fmt.Fprintf(sb, "URL:       %s\n", report.URL)
	}
	if !report.ExtractedAt.IsZero() {
		fmt.Fprintf(sb, "Extracted: %s\n", report.ExtractedAt.Format("2006-01-02 15:04:05 MST"))
	}

	switch {
	case report.Failed():
		fmt.Fprintf(sb, "Status:    ERROR - %s\n", report.ErrorMessage)
	case report.HasWarnings():
		fmt.Fprintf(sb, "Status:    Partial (%d warnings)\n", len(report.Warnings))
	default:
		sb.WriteString("Status:    Complete\n")
	}

	sb.WriteString("\n")
}

// writeSection writes a section title between rules.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeDetails writes the description paragraphs.
func (w *SimpleWriter) writeDetails(sb *strings.Builder, track *model.Track) {
	if len(track.Details) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "DETAILS")
	if len(track.Details) == 0 {
		sb.WriteString("  No description found\n")
	}
	for _, d := range track.Details {
		fmt.Fprintf(sb, "  %s\n", d)
	}
	sb.WriteString("\n")
}

// writeSkills writes the track skills.
func (w *SimpleWriter) writeSkills(sb *strings.Builder, track *model.Track) {
	if len(track.Skills) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "SKILLS")
	if len(track.Skills) == 0 {
		sb.WriteString("  No skills listed\n")
	}
	for _, s := range track.Skills {
		fmt.Fprintf(sb, "  [+] %s\n", s)
	}
	sb.WriteString("\n")
}

// writeCourses writes the course list.
func (w *SimpleWriter) writeCourses(sb *strings.Builder, track *model.Track) {
	if len(track.Courses) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, fmt.Sprintf("COURSES (%d)", len(track.Courses)))
	if len(track.Courses) == 0 {
		sb.WriteString("  No courses found\n")
	} else {
		fmt.Fprintf(sb, "  With duration: %s, with skills: %s\n\n",
			coverage(track.CoursesWithDuration(), len(track.Courses)),
			coverage(track.CoursesWithSkills(), len(track.Courses)),
		)
	}

	for i, c := range track.Courses {
		fmt.Fprintf(sb, "  %d. %s\n", i+1, c.Name)
		if c.Duration != "" {
			fmt.Fprintf(sb, "     Duration: %s\n", c.Duration)
		}
		if len(c.Skills) > 0 {
			fmt.Fprintf(sb, "     Skills:   %s\n", strings.Join(c.Skills, ", "))
		}
		if w.verbose {
			fmt.Fprintf(sb, "     URL:      %s\n", c.URL)
		}
	}
	sb.WriteString("\n")
}

// writeWarnings writes the degraded steps.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, report *model.TrackReport) {
	if !report.HasWarnings() {
		return
	}

	writeSection(sb, "WARNINGS")
	for _, warn := range report.Warnings {
		fmt.Fprintf(sb, "  [!] %s: %s\n", warn.Step, warn.Message)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.TrackReport) {
	if w.verbose {
		if len(report.PerformedSteps) > 0 {
			fmt.Fprintf(sb, "Steps:   %s\n", strings.Join(report.PerformedSteps, " -> "))
		}
		if report.Elapsed > 0 {
			fmt.Fprintf(sb, "Elapsed: %s\n", report.Elapsed.Round(time.Millisecond))
		}
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
