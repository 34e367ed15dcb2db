package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/trackscrape/internal/model"
)

// maxChartSkills caps the number of slices in the skill chart.
const maxChartSkills = 8

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides type-safe tables, lists, alerts and mermaid
// charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one report in Markdown format.
func (w *MarkdownWriter) Write(report *model.TrackReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Track Report")
	md.PlainText("")
	w.writeReport(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs every report under its own heading.
func (w *MarkdownWriter) WriteBatch(reports []*model.TrackReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Track Reports")
	md.PlainText("")

	for _, r := range nonNil(reports) {
		md.H2(reportTitle(r))
		md.PlainText("")
		w.writeReport(md, r)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeReport writes all sections of one report.
func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.TrackReport) {
	w.writeHeader(md, report)
	w.writeAlert(md, report)

	if report.Track == nil {
		return
	}

	w.writeDetails(md, report.Track)
	w.writeSkills(md, report.Track)
	w.writeCourses(md, report.Track)
	w.writeWarnings(md, report)
}

// writeHeader writes the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.TrackReport) {
	rows := make([][]string, 0, 8)
	if report.Query != "" {
		rows = append(rows, []string{"Query", "`" + report.Query + "`"})
	}
	if report.Track != nil {
		rows = append(rows, []string{"Track", report.Track.Name})
	}
	if report.URL != "" {
		rows = append(rows, []string{"URL", report.URL})
	}
	rows = append(rows,
		[]string{"Extracted", report.ExtractedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Status", statusText(report)},
	)
	if t := report.Track; t != nil {
		rows = append(rows,
			[]string{"Courses", strconv.Itoa(len(t.Courses))},
			[]string{"With duration", coverage(t.CoursesWithDuration(), len(t.Courses))},
			[]string{"With skills", coverage(t.CoursesWithSkills(), len(t.Courses))},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert summarizing the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.TrackReport) {
	switch {
	case report.Failed():
		md.Cautionf("Extraction failed: %s", report.ErrorMessage)
	case report.HasWarnings():
		md.Warningf(
			"Some fields could not be read. %d warning(s) in step(s): %s.",
			len(report.Warnings), strings.Join(report.DegradedSteps(), ", "),
		)
	default:
		md.Tip("Every field was extracted.")
	}
	md.PlainText("")
}

// writeDetails writes the description paragraphs.
func (w *MarkdownWriter) writeDetails(md *markdown.Markdown, track *model.Track) {
	md.H2("Details")
	md.PlainText("")

	if len(track.Details) == 0 {
		md.PlainText("No description found.")
		md.PlainText("")
		return
	}

	for _, d := range track.Details {
		md.PlainText(d)
		md.PlainText("")
	}
}

// writeSkills writes the track skills and a chart of how many courses
// teach each skill.
func (w *MarkdownWriter) writeSkills(md *markdown.Markdown, track *model.Track) {
	md.H2("Skills")
	md.PlainText("")

	if len(track.Skills) == 0 {
		md.PlainText("No skills listed.")
		md.PlainText("")
		return
	}

	md.BulletList(track.Skills...)
	md.PlainText("")

	counts := skillCourseCounts(track)
	if len(counts) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Courses per Skill"),
		piechart.WithShowData(true),
	)
	for _, c := range counts {
		chart.LabelAndIntValue(c.skill, uint64(c.courses)) //nolint:gosec // counts are positive
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeCourses writes the course table and per-course skills.
func (w *MarkdownWriter) writeCourses(md *markdown.Markdown, track *model.Track) {
	md.H2("Courses")
	md.PlainText("")

	if len(track.Courses) == 0 {
		md.PlainText("No courses found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(track.Courses))
	for i, c := range track.Courses {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			c.Name,
			orDash(c.Duration),
			truncateString(orDash(strings.Join(c.Skills, ", ")), 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Course", "Duration", "Skills"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, c := range track.Courses {
		md.Details(c.Name, c.URL)
	}
	md.PlainText("")
}

// writeWarnings writes the degraded steps.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, report *model.TrackReport) {
	if !report.HasWarnings() {
		return
	}

	md.H2("Warnings")
	md.PlainText("")

	rows := make([][]string, len(report.Warnings))
	for i, warn := range report.Warnings {
		rows[i] = []string{warn.Step, truncateString(warn.Message, 80)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Step", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [trackscrape](https://github.com/nao1215/trackscrape)*")
}

// skillCount is the number of courses that list a skill.
type skillCount struct {
	skill   string
	courses int
}

// skillCourseCounts counts, for each track skill, the distinct courses
// whose own skill list contains it. Skills no course lists are omitted.
func skillCourseCounts(track *model.Track) []skillCount {
	perSkill := make(map[string]map[string]bool)
	for _, c := range track.Courses {
		for _, s := range c.Skills {
			if perSkill[s] == nil {
				perSkill[s] = make(map[string]bool)
			}
			perSkill[s][c.URL] = true
		}
	}

	counts := make([]skillCount, 0, len(track.Skills))
	for _, s := range track.Skills {
		if n := len(perSkill[s]); n > 0 {
			counts = append(counts, skillCount{skill: s, courses: n})
		}
		if len(counts) == maxChartSkills {
			break
		}
	}
	return counts
}

// reportTitle names a report in batch output.
func reportTitle(report *model.TrackReport) string {
	switch {
	case report.Track != nil:
		return report.Track.Name
	case report.Query != "":
		return report.Query
	default:
		return report.URL
	}
}

// statusText returns the status text based on report state.
func statusText(report *model.TrackReport) string {
	if report.Failed() {
		return "Error - " + report.ErrorMessage
	}
	if report.HasWarnings() {
		return fmt.Sprintf("Partial (%d warnings)", len(report.Warnings))
	}
	return "Complete"
}

// orDash returns s, or "-" when it is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
