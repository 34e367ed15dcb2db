package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/trackscrape/internal/config"
	"github.com/nao1215/trackscrape/internal/extract"
	"github.com/nao1215/trackscrape/internal/fetcher"
	"github.com/nao1215/trackscrape/internal/jsonld"
	"github.com/nao1215/trackscrape/internal/model"
)

// Step names, as recorded in PerformedSteps and warnings.
const (
	StepFetchPage    = "fetch_page"
	StepTrackSkills  = "track_skills"
	StepTitle        = "title"
	StepCourses      = "courses"
	StepDurations    = "durations"
	StepCourseSkills = "course_skills"
	StepDetails      = "details"
)

// ErrNoPage is returned by enrichment steps that run before fetch_page.
var ErrNoPage = errors.New("track page has not been fetched")

// Fetcher fetches and parses a page.
// *fetcher.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Document, error)
}

// FetchPageStep fetches the track page and starts the record.
// It is the only step whose failure aborts the extraction.
type FetchPageStep struct {
	fetcher Fetcher
}

// NewFetchPageStep creates a FetchPageStep.
func NewFetchPageStep(f Fetcher) *FetchPageStep {
	return &FetchPageStep{fetcher: f}
}

// Name returns the step name.
func (s *FetchPageStep) Name() string {
	return StepFetchPage
}

// Do fetches report.URL and stores the parsed page on the report.
func (s *FetchPageStep) Do(ctx context.Context, report *model.TrackReport) error {
	page, err := s.fetcher.Fetch(ctx, report.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch track page: %w", err)
	}

	report.Page = page.Doc
	report.Track = model.NewTrack(report.URL)
	if page.Truncated {
		report.AddWarning(StepFetchPage, "page body exceeded the size limit and was truncated")
	}
	return nil
}

// TrackSkillsStep collects the track's skills from structured data.
type TrackSkillsStep struct {
	logger *slog.Logger
}

// NewTrackSkillsStep creates a TrackSkillsStep.
func NewTrackSkillsStep(logger *slog.Logger) *TrackSkillsStep {
	return &TrackSkillsStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *TrackSkillsStep) Name() string {
	return StepTrackSkills
}

// Do fills Track.Skills. Missing structured data leaves the list empty.
func (s *TrackSkillsStep) Do(_ context.Context, report *model.TrackReport) error {
	if err := requirePage(report); err != nil {
		return err
	}

	block, err := jsonld.Extract(report.Page)
	if err != nil {
		s.logger.Warn("track page has no usable structured data", "url", report.URL, "error", err)
		report.AddWarning(StepTrackSkills, fmt.Sprintf("no structured data: %v", err))
		report.Track.Skills = make([]string, 0)
		return nil
	}

	s.logger.Debug("track page structured data", "url", report.URL, "bytes", len(block.Raw()))
	report.Track.Skills = extract.TrackSkills(block)
	if len(report.Track.Skills) == 0 {
		report.AddWarning(StepTrackSkills, "structured data lists no skills")
	}
	return nil
}

// TitleStep reads the track title.
type TitleStep struct {
	selectors config.Selectors
}

// NewTitleStep creates a TitleStep.
func NewTitleStep(selectors config.Selectors) *TitleStep {
	return &TitleStep{selectors: selectors}
}

// Name returns the step name.
func (s *TitleStep) Name() string {
	return StepTitle
}

// Do fills Track.Name.
func (s *TitleStep) Do(_ context.Context, report *model.TrackReport) error {
	if err := requirePage(report); err != nil {
		return err
	}

	title, found := extract.Title(report.Page, s.selectors)
	report.Track.Name = title
	if !found {
		report.AddWarning(StepTitle, fmt.Sprintf("no element matches %q", s.selectors.Title))
	}
	return nil
}

// CoursesStep lists the track's courses.
type CoursesStep struct {
	selectors config.Selectors
	origin    string
}

// NewCoursesStep creates a CoursesStep. Relative course links are
// resolved against origin.
func NewCoursesStep(selectors config.Selectors, origin string) *CoursesStep {
	return &CoursesStep{selectors: selectors, origin: origin}
}

// Name returns the step name.
func (s *CoursesStep) Name() string {
	return StepCourses
}

// Do fills Track.Courses in document order.
func (s *CoursesStep) Do(_ context.Context, report *model.TrackReport) error {
	if err := requirePage(report); err != nil {
		return err
	}

	report.Track.Courses = extract.CourseLinks(report.Page, s.selectors, s.origin)
	if len(report.Track.Courses) == 0 {
		report.AddWarning(StepCourses, fmt.Sprintf("no links start with %q", s.selectors.CoursePathPrefix))
	}
	return nil
}

// DurationsStep attaches durations to the listed courses.
type DurationsStep struct {
	selectors config.Selectors
	origin    string
}

// NewDurationsStep creates a DurationsStep.
func NewDurationsStep(selectors config.Selectors, origin string) *DurationsStep {
	return &DurationsStep{selectors: selectors, origin: origin}
}

// Name returns the step name.
func (s *DurationsStep) Name() string {
	return StepDurations
}

// Do sets Course.Duration where the page provides one.
func (s *DurationsStep) Do(_ context.Context, report *model.TrackReport) error {
	if err := requirePage(report); err != nil {
		return err
	}

	courses := report.Track.Courses
	if len(courses) == 0 {
		return nil
	}

	durations := extract.Durations(report.Page, s.selectors, s.origin)
	dropped := extract.MergeDurations(courses, durations)

	if missing := len(courses) - report.Track.CoursesWithDuration(); missing > 0 {
		report.AddWarning(StepDurations, fmt.Sprintf("%d of %d courses have no duration", missing, len(courses)))
	}
	if dropped > 0 {
		report.AddWarning(StepDurations, fmt.Sprintf("%d durations matched no course", dropped))
	}
	return nil
}

// CourseSkillsStep fetches every course page and collects its skills.
type CourseSkillsStep struct {
	fetcher     Fetcher
	concurrency int
	logger      *slog.Logger
}

// NewCourseSkillsStep creates a CourseSkillsStep that fetches at most
// concurrency course pages at a time.
func NewCourseSkillsStep(f Fetcher, concurrency int, logger *slog.Logger) *CourseSkillsStep {
	if concurrency <= 0 {
		concurrency = config.DefaultConcurrency
	}
	return &CourseSkillsStep{fetcher: f, concurrency: concurrency, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *CourseSkillsStep) Name() string {
	return StepCourseSkills
}

// courseSkillsResult is the outcome of one course page.
type courseSkillsResult struct {
	skills []string
	err    error
}

// Do sets Course.Skills for every course whose page could be read.
// Each course page is fetched once even if the course is listed twice.
// A failed course records a warning and does not affect the others.
func (s *CourseSkillsStep) Do(ctx context.Context, report *model.TrackReport) error {
	if report.Track == nil {
		return ErrNoPage
	}

	urls := report.Track.CourseURLs()
	if len(urls) == 0 {
		return nil
	}

	// Each task writes only its own slot, so no lock is needed.
	results := make([]courseSkillsResult, len(urls))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, courseURL := range urls {
		g.Go(func() error {
			skills, err := s.fetchSkills(ctx, courseURL)
			results[i] = courseSkillsResult{skills: skills, err: err}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // tasks never return errors

	byURL := make(map[string][]string, len(urls))
	for i, courseURL := range urls {
		if err := results[i].err; err != nil {
			report.AddWarning(StepCourseSkills, fmt.Sprintf("%s: %v", courseURL, err))
			continue
		}
		if len(results[i].skills) > 0 {
			byURL[courseURL] = results[i].skills
		}
	}

	for i := range report.Track.Courses {
		if skills, ok := byURL[report.Track.Courses[i].URL]; ok {
			report.Track.Courses[i].Skills = append([]string(nil), skills...)
		}
	}
	return nil
}

// fetchSkills fetches one course page and reads its skills.
func (s *CourseSkillsStep) fetchSkills(ctx context.Context, courseURL string) ([]string, error) {
	page, err := s.fetcher.Fetch(ctx, courseURL)
	if err != nil {
		return nil, err
	}

	block, err := jsonld.Extract(page.Doc)
	if err != nil {
		s.logger.Debug("course page has no usable structured data", "url", courseURL, "error", err)
		return nil, err
	}
	return extract.CourseSkills(block), nil
}

// DetailsStep reads the track description.
type DetailsStep struct {
	selectors config.Selectors
}

// NewDetailsStep creates a DetailsStep.
func NewDetailsStep(selectors config.Selectors) *DetailsStep {
	return &DetailsStep{selectors: selectors}
}

// Name returns the step name.
func (s *DetailsStep) Name() string {
	return StepDetails
}

// Do fills Track.Details.
func (s *DetailsStep) Do(_ context.Context, report *model.TrackReport) error {
	if err := requirePage(report); err != nil {
		return err
	}

	details, found := extract.Details(report.Page, s.selectors)
	report.Track.Details = details
	if !found {
		report.AddWarning(StepDetails, fmt.Sprintf("no element matches %q", s.selectors.DetailContainer))
	}
	return nil
}

// requirePage reports ErrNoPage when fetch_page has not run.
func requirePage(report *model.TrackReport) error {
	if report.Page == nil || report.Track == nil {
		return ErrNoPage
	}
	return nil
}

// orDefault returns logger, or slog.Default() when it is nil.
func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Origin resolves relative course links.
	Origin string

	// Selectors locate the track page fragments.
	Selectors config.Selectors

	// Concurrency bounds the course page fan-out.
	Concurrency int

	// Logger is passed to steps that log.
	Logger *slog.Logger
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineOrigin sets the site origin.
func WithPipelineOrigin(origin string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		if origin != "" {
			c.Origin = origin
		}
	}
}

// WithPipelineSelectors sets the page selectors.
func WithPipelineSelectors(selectors config.Selectors) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Selectors = selectors
	}
}

// WithPipelineConcurrency sets the course page fan-out limit.
func WithPipelineConcurrency(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		if n > 0 {
			c.Concurrency = n
		}
	}
}

// WithPipelineStepLogger sets the logger used by steps.
func WithPipelineStepLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline creates a pipeline with all extraction steps configured.
// The pipeline stops at the first error, which only fetch_page returns.
func DefaultPipeline(f Fetcher, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Origin:      config.DefaultBaseURL,
		Selectors:   config.DefaultSelectors(),
		Concurrency: config.DefaultConcurrency,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewFetchPageStep(f),
		NewTrackSkillsStep(cfg.Logger),
		NewTitleStep(cfg.Selectors),
		NewCoursesStep(cfg.Selectors, cfg.Origin),
		NewDurationsStep(cfg.Selectors, cfg.Origin),
		NewCourseSkillsStep(f, cfg.Concurrency, cfg.Logger),
		NewDetailsStep(cfg.Selectors),
	)

	return p
}
