package model

// NoTitleFound is the track name used when the page has no title container.
const NoTitleFound = "No Title Found"

// Track is the extracted record for one specialization track.
// It is serialized directly as the body of a successful API response.
type Track struct {
	// Name is the track title taken from the page's title container.
	Name string `json:"Name"`

	// URL is the absolute URL of the track page.
	URL string `json:"URL"`

	// Details contains the non-blank descriptive paragraphs of the track.
	Details []string `json:"Details"`

	// Skills is the de-duplicated list of skills advertised for the track.
	// Order follows first appearance in the structured data.
	Skills []string `json:"Skills"`

	// Courses lists the constituent courses in document order.
	Courses []Course `json:"Courses"`
}

// Course is a single course that belongs to a track.
type Course struct {
	// Name is derived from the course URL slug.
	Name string `json:"Name"`

	// URL is the absolute course URL.
	URL string `json:"URL"`

	// Duration is the human-readable duration shown on the track page.
	// Empty when the page did not provide one for this course.
	Duration string `json:"Duration,omitempty"`

	// Skills are the course's own skills from its course page.
	// Nil when the course page could not be fetched or listed none.
	Skills []string `json:"Skills,omitempty"`
}

// NewTrack creates a Track for the given URL with empty collections,
// so that an empty record still serializes as arrays rather than null.
func NewTrack(url string) *Track {
	return &Track{
		Name:    NoTitleFound,
		URL:     url,
		Details: make([]string, 0),
		Skills:  make([]string, 0),
		Courses: make([]Course, 0),
	}
}

// Normalize replaces nil collections with empty ones.
// Records loaded from storage or built by hand may carry nil slices.
func (t *Track) Normalize() {
	if t.Details == nil {
		t.Details = make([]string, 0)
	}
	if t.Skills == nil {
		t.Skills = make([]string, 0)
	}
	if t.Courses == nil {
		t.Courses = make([]Course, 0)
	}
}

// CourseURLs returns the unique course URLs in document order.
func (t *Track) CourseURLs() []string {
	seen := make(map[string]bool, len(t.Courses))
	urls := make([]string, 0, len(t.Courses))
	for _, c := range t.Courses {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		urls = append(urls, c.URL)
	}
	return urls
}

// CoursesWithDuration counts courses that carry a duration.
func (t *Track) CoursesWithDuration() int {
	n := 0
	for _, c := range t.Courses {
		if c.Duration != "" {
			n++
		}
	}
	return n
}

// CoursesWithSkills counts courses that carry a skills list.
func (t *Track) CoursesWithSkills() int {
	n := 0
	for _, c := range t.Courses {
		if len(c.Skills) > 0 {
			n++
		}
	}
	return n
}
