package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/trackscrape/internal/model"
)

var (
	// ErrResolve is returned when a query cannot be turned into a track URL.
	ErrResolve = errors.New("failed to find specialization URL for the query")

	// ErrExtract is returned when the track page cannot be extracted.
	ErrExtract = errors.New("failed to extract track data")
)

// Resolver turns a search query into a track URL.
// *search.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, query string) (string, error)
}

// Recorder persists completed reports.
// *database.HistoryDB satisfies it.
type Recorder interface {
	SaveReport(ctx context.Context, report *model.TrackReport) error
}

// Service runs full lookups: resolve the query, then extract the track.
// It is shared by the API server and the CLI.
type Service struct {
	resolver        Resolver
	pipelineFactory func() *Pipeline
	recorder        Recorder
	logger          *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder stores every successful lookup through r.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService creates a Service.
// pipelineFactory is called once per extraction so no step state is shared
// between concurrent requests.
func NewService(resolver Resolver, pipelineFactory func() *Pipeline, opts ...ServiceOption) *Service {
	s := &Service{
		resolver:        resolver,
		pipelineFactory: pipelineFactory,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup resolves query and extracts the track it points to.
// The returned report is never nil; on failure it carries the error, and
// the error wraps ErrResolve or ErrExtract.
func (s *Service) Lookup(ctx context.Context, query string) (*model.TrackReport, error) {
	start := time.Now()

	trackURL, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		s.logger.Warn("query did not resolve", "query", query, "error", err)

		report := model.NewTrackReport("")
		report.Query = query
		report.Error = fmt.Errorf("%w: %w", ErrResolve, err)
		report.ErrorMessage = report.Error.Error()
		report.ExtractedAt = start
		report.Elapsed = time.Since(start)
		return report, report.Error
	}

	report, err := s.Extract(ctx, trackURL)
	report.Query = query
	report.ExtractedAt = start
	report.Elapsed = time.Since(start)
	if err != nil {
		return report, err
	}

	s.record(ctx, report)
	return report, nil
}

// Extract runs the default pipeline on a known track URL.
// The returned report is never nil; on failure the error wraps ErrExtract.
func (s *Service) Extract(ctx context.Context, trackURL string) (*model.TrackReport, error) {
	report := model.NewTrackReport(trackURL)
	start := time.Now()

	p := s.pipelineFactory()
	s.logger.Debug("extracting track", "url", trackURL, "steps", p.StepNames())
	err := p.Execute(ctx, report)

	report.Elapsed = time.Since(start)
	report.Page = nil

	if err != nil {
		report.Error = fmt.Errorf("%w: %w", ErrExtract, err)
		report.ErrorMessage = report.Error.Error()
		return report, report.Error
	}

	courses := 0
	if report.Track != nil {
		report.Track.Normalize()
		courses = len(report.Track.Courses)
	}

	s.logger.Info("track extracted",
		"url", trackURL,
		"courses", courses,
		"warnings", len(report.Warnings),
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// record stores a successful report. Failures are logged and otherwise
// ignored so that history problems never fail a lookup.
func (s *Service) record(ctx context.Context, report *model.TrackReport) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.SaveReport(ctx, report); err != nil {
		s.logger.Warn("failed to save report to history", "query", report.Query, "error", err)
	}
}
