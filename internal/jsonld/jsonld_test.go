package jsonld

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

// newDoc parses an HTML fragment for tests.
func newDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	return doc
}

// TestExtract tests locating and decoding the structured-data script.
func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("first script wins", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head>
<script type="application/json">{"ignored": true}</script>
<script type="application/ld+json">{"name": "first"}</script>
<script type="application/ld+json">{"name": "second"}</script>
</head></html>`)

		block, err := Extract(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := block.Get("name").String(); got != "first" {
			t.Errorf("expected first block, got %q", got)
		}
	})

	t.Run("no script", func(t *testing.T) {
		t.Parallel()

		_, err := Extract(newDoc(t, `<html><body><p>nothing</p></body></html>`))
		if !errors.Is(err, ErrNoStructuredData) {
			t.Errorf("expected ErrNoStructuredData, got %v", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()

		_, err := Extract(newDoc(t, `<script type="application/ld+json">{"name": </script>`))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("expected ErrMalformed, got %v", err)
		}
	})

	t.Run("empty script", func(t *testing.T) {
		t.Parallel()

		_, err := Extract(newDoc(t, `<script type="application/ld+json">   </script>`))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("expected ErrMalformed, got %v", err)
		}
	})

	t.Run("extracting twice yields equal blocks", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<script type="application/ld+json">{"@graph":[{"@type":"Course","name":"x"}]}</script>`)

		first, err := Extract(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Extract(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.Raw() != second.Raw() {
			t.Errorf("expected equal blocks, got %q and %q", first.Raw(), second.Raw())
		}
		if doc.Find(scriptSelector).Length() != 1 {
			t.Error("expected document to be unchanged")
		}
	})
}

// TestBlockItems tests the graph-or-single view.
func TestBlockItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{name: "graph", payload: `{"@graph":[{"a":1},{"a":2},{"a":3}]}`, want: 3},
		{name: "single object", payload: `{"@type":"Course"}`, want: 1},
		{name: "top-level array", payload: `[{"a":1},{"a":2}]`, want: 2},
		{name: "scalar", payload: `"just a string"`, want: 0},
		{name: "graph that is not a list", payload: `{"@graph":{"a":1}}`, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			block, err := Parse(tt.payload)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := len(block.Items()); got != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, got)
			}
		})
	}
}

// TestBlockItemsOfType tests @type filtering.
func TestBlockItemsOfType(t *testing.T) {
	t.Parallel()

	block, err := Parse(`{"@graph":[
		{"@type":"Organization","name":"org"},
		{"@type":"Course","name":"a"},
		{"@type":["Thing","Course"],"name":"b"},
		{"name":"untyped"}
	]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := block.ItemsOfType("Course")
	var names []string
	for _, item := range items {
		names = append(names, item.Get("name").String())
	}

	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

// TestBlockGet tests path lookups on search result blocks.
func TestBlockGet(t *testing.T) {
	t.Parallel()

	block, err := Parse(`{"itemListElement":[{"url":"/specializations/ml"},{"url":"/specializations/ds"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := block.Get("itemListElement.0.url").String(); got != "/specializations/ml" {
		t.Errorf("unexpected first url %q", got)
	}
	if block.Get("itemListElement.5.url").Exists() {
		t.Error("expected out-of-range lookup to be absent")
	}
	if got := block.Field("itemListElement").Array(); len(got) != 2 {
		t.Errorf("expected 2 elements, got %d", len(got))
	}
}

// TestStrings tests flattening of string, list and object values.
func TestStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{name: "string", payload: `{"v":"Python"}`, want: []string{"Python"}},
		{name: "list of strings", payload: `{"v":["Python","SQL"]}`, want: []string{"Python", "SQL"}},
		{name: "object", payload: `{"v":{"name":"Python"}}`, want: []string{"Python"}},
		{name: "list of objects", payload: `{"v":[{"name":"Python"},{"name":"SQL"},{"other":"x"}]}`, want: []string{"Python", "SQL"}},
		{name: "mixed list", payload: `{"v":["Go",{"name":"Rust"},3]}`, want: []string{"Go", "Rust"}},
		{name: "object with list name", payload: `{"v":{"name":["Python","SQL"]}}`, want: []string{"Python", "SQL"}},
		{name: "number", payload: `{"v":3}`, want: nil},
		{name: "absent", payload: `{}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			block, err := Parse(tt.payload)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := Strings(block.Get("v"), "name")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
