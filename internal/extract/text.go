package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanText trims surrounding whitespace and applies NFC normalization.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// orderedSet keeps the first occurrence of each string.
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), items: make([]string, 0)}
}

// add inserts s unless it is blank or already present.
func (o *orderedSet) add(s string) {
	s = cleanText(s)
	if s == "" || o.seen[s] {
		return
	}
	o.seen[s] = true
	o.items = append(o.items, s)
}

func (o *orderedSet) values() []string {
	return o.items
}
