package model

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// TrackReport is the result of one lookup: the query, the resolved track URL,
// the extracted Track, and everything that degraded along the way.
//
// Design decision: We keep warnings next to the record rather than failing
// the lookup because upstream markup changes are expected. A missing
// duration container should cost one field, not the whole response.
type TrackReport struct {
	// Query is the free-text search query that produced this report.
	// Empty when the extraction was started from a known track URL.
	Query string `json:"query,omitempty"`

	// URL is the resolved track page URL.
	URL string `json:"url"`

	// Track is the extracted record. Nil if the track page could not be fetched.
	Track *Track `json:"track,omitempty"`

	// Warnings lists fields that degraded during extraction.
	Warnings []Warning `json:"warnings,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the error that aborted the extraction, if any.
	Error error `json:"-"`

	// ErrorMessage is the serializable form of Error.
	ErrorMessage string `json:"error,omitempty"`

	// ExtractedAt is when the extraction started.
	ExtractedAt time.Time `json:"extracted_at"`

	// Elapsed is how long the extraction took.
	Elapsed time.Duration `json:"elapsed"`

	// Page is the parsed track page shared between pipeline steps.
	Page *goquery.Document `json:"-"`
}

// Warning describes one degraded field.
type Warning struct {
	// Step is the pipeline step that degraded.
	Step string `json:"step"`

	// Message explains what was missing.
	Message string `json:"message"`
}

// NewTrackReport creates a report for the given track URL.
func NewTrackReport(url string) *TrackReport {
	return &TrackReport{
		URL:            url,
		Warnings:       make([]Warning, 0),
		PerformedSteps: make([]string, 0),
		ExtractedAt:    time.Now(),
	}
}

// AddWarning records a degraded field.
func (r *TrackReport) AddWarning(step, message string) {
	r.Warnings = append(r.Warnings, Warning{Step: step, Message: message})
}

// HasWarnings reports whether any field degraded.
func (r *TrackReport) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// DegradedSteps returns the unique step names that recorded warnings,
// in the order they were first recorded.
func (r *TrackReport) DegradedSteps() []string {
	seen := make(map[string]bool)
	steps := make([]string, 0)
	for _, w := range r.Warnings {
		if seen[w.Step] {
			continue
		}
		seen[w.Step] = true
		steps = append(steps, w.Step)
	}
	return steps
}

// Failed reports whether the extraction was aborted.
func (r *TrackReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}
