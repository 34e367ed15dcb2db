package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/trackscrape/internal/config"
	"github.com/nao1215/trackscrape/internal/model"
)

// Duration is one duration read from the track page.
type Duration struct {
	// Text is the human-readable duration, e.g. "Approx. 30 hours".
	Text string

	// CourseURL is the course this duration belongs to, when the page
	// structure identifies it. Empty for durations matched by position.
	CourseURL string
}

// Durations reads every duration container that has enough spans and
// associates it with a course when the container, or its nearest card,
// contains links to exactly one course.
func Durations(doc *goquery.Document, sel config.Selectors, origin string) []Duration {
	durations := make([]Duration, 0)
	doc.Find(sel.Duration).Each(func(_ int, container *goquery.Selection) {
		spans := container.Find("span")
		if spans.Length() <= sel.DurationSpanIndex {
			return
		}

		durations = append(durations, Duration{
			Text:      cleanText(spans.Eq(sel.DurationSpanIndex).Text()),
			CourseURL: owningCourse(container, sel, origin),
		})
	})
	return durations
}

// owningCourse returns the single course URL linked from the container or
// from its nearest card, or "" when that is ambiguous.
func owningCourse(container *goquery.Selection, sel config.Selectors, origin string) string {
	if u := singleCourseURL(container, sel, origin); u != "" {
		return u
	}
	if sel.Card == "" {
		return ""
	}
	card := container.Closest(sel.Card)
	if card.Length() == 0 {
		return ""
	}
	return singleCourseURL(card, sel, origin)
}

// singleCourseURL returns the course URL when every course link under s
// points to the same course.
func singleCourseURL(s *goquery.Selection, sel config.Selectors, origin string) string {
	found := ""
	ambiguous := false
	s.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, sel.CoursePathPrefix) {
			return true
		}
		u := CourseURL(href, origin)
		if found != "" && found != u {
			ambiguous = true
			return false
		}
		found = u
		return true
	})
	if ambiguous {
		return ""
	}
	return found
}

// MergeDurations attaches durations to courses.
// Durations keyed to a course URL go to every course with that URL. The
// remaining durations are handed out in order to courses that still have
// none. It returns the number of durations left unassigned.
func MergeDurations(courses []model.Course, durations []Duration) int {
	keyed := make(map[string]string)
	present := make(map[string]bool, len(courses))
	for _, c := range courses {
		present[c.URL] = true
	}

	positional := make([]string, 0, len(durations))
	for _, d := range durations {
		if d.CourseURL != "" && present[d.CourseURL] {
			if _, dup := keyed[d.CourseURL]; !dup {
				keyed[d.CourseURL] = d.Text
				continue
			}
		}
		positional = append(positional, d.Text)
	}

	for i := range courses {
		if text, ok := keyed[courses[i].URL]; ok {
			courses[i].Duration = text
		}
	}

	next := 0
	for i := range courses {
		if next >= len(positional) {
			break
		}
		if courses[i].Duration != "" {
			continue
		}
		courses[i].Duration = positional[next]
		next++
	}

	return len(positional) - next
}
