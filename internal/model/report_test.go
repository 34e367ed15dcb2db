package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// TestTrackReportWarnings tests warning bookkeeping.
func TestTrackReportWarnings(t *testing.T) {
	t.Parallel()

	t.Run("new report has no warnings", func(t *testing.T) {
		t.Parallel()

		r := NewTrackReport("https://x/specializations/ml")
		if r.HasWarnings() {
			t.Error("expected no warnings")
		}
		if r.ExtractedAt.IsZero() {
			t.Error("expected ExtractedAt to be set")
		}
	})

	t.Run("degraded steps are unique and ordered", func(t *testing.T) {
		t.Parallel()

		r := NewTrackReport("u")
		r.AddWarning("durations", "no duration containers")
		r.AddWarning("course_skills", "fetch failed for a")
		r.AddWarning("durations", "duplicate")
		r.AddWarning("course_skills", "fetch failed for b")

		got := r.DegradedSteps()
		if strings.Join(got, ",") != "durations,course_skills" {
			t.Errorf("unexpected degraded steps %v", got)
		}
		if !r.HasWarnings() {
			t.Error("expected warnings")
		}
	})
}

// TestTrackReportFailed tests the failure predicate.
func TestTrackReportFailed(t *testing.T) {
	t.Parallel()

	r := NewTrackReport("u")
	if r.Failed() {
		t.Error("expected fresh report not to be failed")
	}

	r.Error = errors.New("boom")
	if !r.Failed() {
		t.Error("expected report with error to be failed")
	}

	loaded := &TrackReport{ErrorMessage: "boom"}
	if !loaded.Failed() {
		t.Error("expected report with error message to be failed")
	}
}

// TestTrackReportJSON tests that runtime-only fields are not serialized.
func TestTrackReportJSON(t *testing.T) {
	t.Parallel()

	r := NewTrackReport("u")
	r.Query = "machine learning"
	r.Error = errors.New("internal")
	r.Track = NewTrack("u")

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"query":"machine learning"`) {
		t.Errorf("expected query in output: %s", s)
	}
	if strings.Contains(s, "Page") {
		t.Errorf("expected page document to be excluded: %s", s)
	}
}
