package extract

import (
	"github.com/nao1215/trackscrape/internal/jsonld"
)

const (
	// courseType is the structured-data type of course items.
	courseType = "Course"

	// nameKey is the field carrying a skill name inside skill objects.
	nameKey = "name"
)

// skillKeys are the fields that list skills on a course item. The site has
// used both spellings.
var skillKeys = []string{"about", "About"}

// TrackSkills returns the de-duplicated skills of every Course item in
// block, in order of first appearance. A nil block yields an empty list.
func TrackSkills(block *jsonld.Block) []string {
	set := newOrderedSet()
	if block == nil {
		return set.values()
	}

	for _, item := range block.ItemsOfType(courseType) {
		for _, key := range skillKeys {
			for _, skill := range jsonld.Strings(jsonld.Field(item, key), nameKey) {
				set.add(skill)
			}
		}
	}
	return set.values()
}

// CourseSkills returns the skills listed on a course page: the "about"
// values of every Course item, concatenated in order. Strings are taken
// as-is and objects contribute their name. Blank entries are dropped.
func CourseSkills(block *jsonld.Block) []string {
	skills := make([]string, 0)
	if block == nil {
		return skills
	}

	for _, item := range block.ItemsOfType(courseType) {
		for _, key := range skillKeys {
			for _, skill := range jsonld.Strings(jsonld.Field(item, key), nameKey) {
				if s := cleanText(skill); s != "" {
					skills = append(skills, s)
				}
			}
		}
	}
	return skills
}
