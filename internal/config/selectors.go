package config

// Default page selectors.
// The catalog site generates CSS class names at build time, so these values
// drift. Operators override them in the configuration file when a field
// starts degrading instead of waiting for a release.
const (
	// DefaultTitleSelector matches the track title container.
	DefaultTitleSelector = "div.css-1q5srzp"

	// DefaultCoursePathPrefix is the href prefix that marks course links.
	DefaultCoursePathPrefix = "/learn/"

	// DefaultDurationSelector matches one duration container per course.
	DefaultDurationSelector = "div.css-3odziz"

	// DefaultDurationSpanIndex is the zero-based index of the span that
	// holds the duration text inside a duration container.
	DefaultDurationSpanIndex = 2

	// DefaultCardSelector matches the card that groups a course link with
	// its duration container.
	DefaultCardSelector = "li"

	// DefaultDetailContainerSelector matches the track description container.
	DefaultDetailContainerSelector = ".cds-9.css-xalpg1.cds-11.cds-grid-item.cds-56.cds-80"

	// DefaultDetailTextSelector matches the paragraph spans inside the
	// description container.
	DefaultDetailTextSelector = ".rc-CML p span span"
)

// Selectors locate fragments of the track page.
type Selectors struct {
	// Title matches the element whose text is the track name.
	Title string

	// CoursePathPrefix is the href prefix of course links.
	CoursePathPrefix string

	// Duration matches duration containers.
	Duration string

	// DurationSpanIndex picks the span carrying the duration text.
	DurationSpanIndex int

	// Card matches the element grouping a course link and its duration.
	Card string

	// DetailContainer matches the description container.
	DetailContainer string

	// DetailText matches description text nodes inside the container.
	DetailText string
}

// SelectorOverrides is the selectors section of the configuration file.
// Empty strings and a nil DurationSpanIndex keep the default.
type SelectorOverrides struct {
	Title             string `yaml:"title,omitempty"`
	CoursePathPrefix  string `yaml:"coursePathPrefix,omitempty"`
	Duration          string `yaml:"duration,omitempty"`
	DurationSpanIndex *int   `yaml:"durationSpanIndex,omitempty"`
	Card              string `yaml:"card,omitempty"`
	DetailContainer   string `yaml:"detailContainer,omitempty"`
	DetailText        string `yaml:"detailText,omitempty"`
}

// DefaultSelectors returns the selectors matching the current site markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Title:             DefaultTitleSelector,
		CoursePathPrefix:  DefaultCoursePathPrefix,
		Duration:          DefaultDurationSelector,
		DurationSpanIndex: DefaultDurationSpanIndex,
		Card:              DefaultCardSelector,
		DetailContainer:   DefaultDetailContainerSelector,
		DetailText:        DefaultDetailTextSelector,
	}
}

// Merge returns s with every field set in override applied.
func (s Selectors) Merge(override SelectorOverrides) Selectors {
	if override.Title != "" {
		s.Title = override.Title
	}
	if override.CoursePathPrefix != "" {
		s.CoursePathPrefix = override.CoursePathPrefix
	}
	if override.Duration != "" {
		s.Duration = override.Duration
	}
	if override.DurationSpanIndex != nil {
		s.DurationSpanIndex = *override.DurationSpanIndex
	}
	if override.Card != "" {
		s.Card = override.Card
	}
	if override.DetailContainer != "" {
		s.DetailContainer = override.DetailContainer
	}
	if override.DetailText != "" {
		s.DetailText = override.DetailText
	}
	return s
}
