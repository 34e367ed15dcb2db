package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/trackscrape/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// newReport builds a successful report for query.
func newReport(query, name string, courses int) *model.TrackReport {
	url := "https://www.coursera.org/specializations/" + strings.ReplaceAll(query, " ", "-")
	report := model.NewTrackReport(url)
	report.Query = query
	report.Track = model.NewTrack(url)
	report.Track.Name = name
	report.Track.Skills = []string{"Python"}
	for i := range courses {
		report.Track.Courses = append(report.Track.Courses, model.Course{
			Name: "course",
			URL:  url + "/course-" + string(rune('a'+i)),
		})
	}
	report.PerformedSteps = []string{"fetch_page"}
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")

		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected informative error, got %q", err.Error())
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")
		ctx := context.Background()

		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if err := db1.SaveReport(ctx, newReport("go", "Go Track", 1)); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
		_ = db1.Close()

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db2.Close()

		got, err := db2.GetLatestReport(ctx, "go")
		if err != nil {
			t.Fatalf("failed to get report: %v", err)
		}
		if got == nil {
			t.Error("expected report to persist")
		}
	})
}

// TestDefaultOptions tests the default options values.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists {
		t.Error("expected CreateIfNotExists to be true by default")
	}
	if !opts.EnableWAL {
		t.Error("expected EnableWAL to be true by default")
	}
}

// TestSaveAndGetLatestReport tests the save/load round trip.
func TestSaveAndGetLatestReport(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := newReport("machine learning", "ML Track", 2)
	report.AddWarning("durations", "1 of 2 courses have no duration")

	if err := db.SaveReport(ctx, report); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	got, err := db.GetLatestReport(ctx, "machine learning")
	if err != nil {
		t.Fatalf("failed to get report: %v", err)
	}
	if got == nil {
		t.Fatal("expected a report")
	}

	if diff := cmp.Diff(report.Track, got.Track); diff != "" {
		t.Errorf("track mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(report.Warnings, got.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
	if got.Query != "machine learning" {
		t.Errorf("unexpected query %q", got.Query)
	}
}

// TestGetLatestReportReturnsNewest tests that the newest entry wins.
func TestGetLatestReportReturnsNewest(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if err := db.SaveReport(ctx, newReport("data", name, 1)); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	got, err := db.GetLatestReport(ctx, "data")
	if err != nil {
		t.Fatalf("failed to get report: %v", err)
	}
	if got.Track.Name != "Third" {
		t.Errorf("expected newest report, got %q", got.Track.Name)
	}
}

// TestGetLatestReportUnknownQuery tests the not-found case.
func TestGetLatestReportUnknownQuery(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	got, err := db.GetLatestReport(context.Background(), "never stored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil report, got %+v", got)
	}
}

// TestSaveReportNil tests the nil guard.
func TestSaveReportNil(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	if err := db.SaveReport(context.Background(), nil); !errors.Is(err, ErrNilReport) {
		t.Errorf("expected ErrNilReport, got %v", err)
	}
}

// TestSaveReportWithoutQuery tests that URL lookups are keyed by URL.
func TestSaveReportWithoutQuery(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := newReport("x", "X Track", 0)
	report.Query = ""
	if err := db.SaveReport(ctx, report); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	queries, err := db.ListQueries(ctx)
	if err != nil {
		t.Fatalf("failed to list queries: %v", err)
	}
	if diff := cmp.Diff([]string{report.URL}, queries); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
}

// TestListQueries tests listing distinct queries.
func TestListQueries(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		queries, err := db.ListQueries(ctx)
		if err != nil {
			t.Fatalf("failed to list queries: %v", err)
		}
		if len(queries) != 0 {
			t.Errorf("expected no queries, got %v", queries)
		}
	})

	t.Run("distinct and sorted", func(t *testing.T) {
		for _, q := range []string{"python", "data science", "python"} {
			if err := db.SaveReport(ctx, newReport(q, q, 1)); err != nil {
				t.Fatalf("failed to save report: %v", err)
			}
		}

		queries, err := db.ListQueries(ctx)
		if err != nil {
			t.Fatalf("failed to list queries: %v", err)
		}
		if diff := cmp.Diff([]string{"data science", "python"}, queries); diff != "" {
			t.Errorf("queries mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestGetHistory tests history listing with filters and limits.
func TestGetHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	saves := []*model.TrackReport{
		newReport("python", "Python 1", 3),
		newReport("go", "Go", 1),
		newReport("python", "Python 2", 4),
	}
	saves[2].AddWarning("details", "no element matches")
	for _, r := range saves {
		if err := db.SaveReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	t.Run("filter by query, newest first", func(t *testing.T) {
		t.Parallel()

		history, err := db.GetHistory(ctx, "python", 0)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(history))
		}
		if history[0].TrackName != "Python 2" || history[0].CourseCount != 4 || history[0].WarningCount != 1 {
			t.Errorf("unexpected newest entry %+v", history[0])
		}
		if history[1].TrackName != "Python 1" {
			t.Errorf("unexpected oldest entry %+v", history[1])
		}
		if history[0].Timestamp.IsZero() {
			t.Error("expected timestamp to be parsed")
		}
	})

	t.Run("all queries with limit", func(t *testing.T) {
		t.Parallel()

		history, err := db.GetHistory(ctx, "", 2)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(history))
		}
	})

	t.Run("report by id", func(t *testing.T) {
		t.Parallel()

		history, err := db.GetHistory(ctx, "go", 1)
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		report, err := db.GetReportByID(ctx, history[0].ID)
		if err != nil {
			t.Fatalf("failed to get report: %v", err)
		}
		if report == nil || report.Track.Name != "Go" {
			t.Errorf("unexpected report %+v", report)
		}

		missing, err := db.GetReportByID(ctx, 9999)
		if err != nil || missing != nil {
			t.Errorf("expected nil, nil for missing id, got %v, %v", missing, err)
		}
	})
}

// TestParseTimestamp tests parsing various timestamp formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantZero bool
	}{
		{name: "SQLite default format", input: "2024-01-15 10:30:45"},
		{name: "ISO 8601 with Z", input: "2024-01-15T10:30:45Z"},
		{name: "RFC3339 with offset", input: "2024-01-15T10:30:45+09:00"},
		{name: "invalid", input: "yesterday", wantZero: true},
		{name: "empty", input: "", wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.wantZero {
				t.Errorf("parseTimestamp(%q) zero=%v, want %v", tt.input, got.IsZero(), tt.wantZero)
			}
		})
	}
}
