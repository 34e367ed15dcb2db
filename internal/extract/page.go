package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/trackscrape/internal/config"
	"github.com/nao1215/trackscrape/internal/model"
)

// Title returns the trimmed text of the first title element.
// It returns model.NoTitleFound and false when the element is absent or empty.
func Title(doc *goquery.Document, sel config.Selectors) (string, bool) {
	node := doc.Find(sel.Title).First()
	if node.Length() == 0 {
		return model.NoTitleFound, false
	}

	title := cleanText(node.Text())
	if title == "" {
		return model.NoTitleFound, false
	}
	return title, true
}

// CourseLinks returns one course per anchor whose href starts with the
// course path prefix, in document order. Duplicates are kept because the
// page may legitimately list the same course twice.
func CourseLinks(doc *goquery.Document, sel config.Selectors, origin string) []model.Course {
	courses := make([]model.Course, 0)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, sel.CoursePathPrefix) {
			return
		}
		courses = append(courses, model.Course{
			Name: CourseName(href, sel.CoursePathPrefix),
			URL:  CourseURL(href, origin),
		})
	})
	return courses
}

// CourseName derives a display name from a course href:
// dashes become spaces, the path prefix is removed and the query is dropped.
// "/learn/machine-learning?x=1" becomes "machine learning".
func CourseName(href, prefix string) string {
	name := strings.ReplaceAll(href, "-", " ")
	name = strings.ReplaceAll(name, strings.ReplaceAll(prefix, "-", " "), "")
	name, _, _ = strings.Cut(name, "?")
	return cleanText(name)
}

// CourseURL makes a course href absolute. The query string is kept.
func CourseURL(href, origin string) string {
	return strings.TrimRight(origin, "/") + href
}

// Details returns the non-blank description texts found inside the first
// detail container in document order.
// It returns false when no container matches.
func Details(doc *goquery.Document, sel config.Selectors) ([]string, bool) {
	container := doc.Find(sel.DetailContainer).First()
	if container.Length() == 0 {
		return make([]string, 0), false
	}

	details := make([]string, 0)
	container.Find(sel.DetailText).Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			details = append(details, text)
		}
	})
	return details, true
}
