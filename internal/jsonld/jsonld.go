package jsonld

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// scriptSelector matches structured-data script elements.
const scriptSelector = `script[type="application/ld+json"]`

var (
	// ErrNoStructuredData is returned when the page has no structured-data script.
	ErrNoStructuredData = errors.New("no structured data on page")

	// ErrMalformed is returned when the structured-data script is not valid JSON.
	ErrMalformed = errors.New("malformed structured data")
)

// Block is a decoded structured-data block.
// It is immutable; every accessor returns a fresh view.
type Block struct {
	raw    string
	parsed gjson.Result
}

// Extract returns the first structured-data block of doc.
// The document is not modified, so extracting twice yields equal blocks.
func Extract(doc *goquery.Document) (*Block, error) {
	script := doc.Find(scriptSelector).First()
	if script.Length() == 0 {
		return nil, ErrNoStructuredData
	}
	return Parse(script.Text())
}

// Parse decodes a structured-data payload.
func Parse(payload string) (*Block, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" || !gjson.Valid(payload) {
		return nil, ErrMalformed
	}
	return &Block{raw: payload, parsed: gjson.Parse(payload)}, nil
}

// Raw returns the JSON text of the block.
func (b *Block) Raw() string {
	return b.raw
}

// Get returns the value at a gjson path such as "itemListElement.0.url".
// Keys that begin with '@' collide with gjson modifiers; use Field for those.
func (b *Block) Get(path string) gjson.Result {
	return b.parsed.Get(path)
}

// Field returns the top-level value stored under key, matched literally.
func (b *Block) Field(key string) gjson.Result {
	return Field(b.parsed, key)
}

// Items returns the entries of "@graph" when the block has one,
// the elements of a top-level array, or the block itself.
func (b *Block) Items() []gjson.Result {
	if graph := b.Field("@graph"); graph.IsArray() {
		return graph.Array()
	}
	if b.parsed.IsArray() {
		return b.parsed.Array()
	}
	if b.parsed.IsObject() {
		return []gjson.Result{b.parsed}
	}
	return nil
}

// ItemsOfType returns the Items whose "@type" is, or includes, typ.
func (b *Block) ItemsOfType(typ string) []gjson.Result {
	var out []gjson.Result
	for _, item := range b.Items() {
		if HasType(item, typ) {
			out = append(out, item)
		}
	}
	return out
}

// Field returns the value stored under key in the object r, matched
// literally. It returns a zero Result when r is not an object.
func Field(r gjson.Result, key string) gjson.Result {
	if !r.IsObject() {
		return gjson.Result{}
	}
	var found gjson.Result
	r.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
			return false
		}
		return true
	})
	return found
}

// HasType reports whether the "@type" of item equals typ or lists it.
func HasType(item gjson.Result, typ string) bool {
	t := Field(item, "@type")
	if t.IsArray() {
		for _, v := range t.Array() {
			if v.String() == typ {
				return true
			}
		}
		return false
	}
	return t.Type == gjson.String && t.String() == typ
}

// Strings flattens r into its string values.
// A string yields itself, an array yields the strings of its elements, and
// an object yields the strings of its nameKey field. Anything else yields
// nothing.
func Strings(r gjson.Result, nameKey string) []string {
	switch {
	case r.Type == gjson.String:
		return []string{r.String()}
	case r.IsArray():
		var out []string
		for _, v := range r.Array() {
			out = append(out, Strings(v, nameKey)...)
		}
		return out
	case r.IsObject() && nameKey != "":
		return Strings(Field(r, nameKey), nameKey)
	}
	return nil
}
