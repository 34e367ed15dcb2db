package pipeline

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nao1215/trackscrape/internal/config"
	"github.com/nao1215/trackscrape/internal/fetcher"
	"github.com/nao1215/trackscrape/internal/search"
)

// trackPageHTML is a track page with two courses.
const trackPageHTML = `<html><head>
<script type="application/ld+json">{"@graph":[{"@type":"Course","About":{"name":"Python"}}]}</script>
</head><body>
<div class="css-1q5srzp">ML Track</div>
<div class="cds-9 css-xalpg1 cds-11 cds-grid-item cds-56 cds-80"><div class="rc-CML">
<p><span><span>Master machine learning.</span></span></p>
</div></div>
<ul>
<li><a href="/learn/intro-ml">Intro</a><div class="css-3odziz"><span>1</span><span>-</span><span>10 hours</span></div></li>
<li><a href="/learn/deep-ml">Deep</a><div class="css-3odziz"><span>2</span><span>-</span><span>20 hours</span></div></li>
</ul>
</body></html>`

// duplicatePageHTML lists the same course twice.
const duplicatePageHTML = `<html><body>
<div class="css-1q5srzp">Dup Track</div>
<a href="/learn/same">Same</a>
<a href="/learn/other">Other</a>
<a href="/learn/same">Same again</a>
</body></html>`

// bareTrackPageHTML has a title and courses but no structured data,
// durations or details.
const bareTrackPageHTML = `<html><body>
<div class="css-1q5srzp">Bare Track</div>
<a href="/learn/a">A</a><a href="/learn/b">B</a><a href="/learn/c">C</a>
</body></html>`

// stubSite simulates the catalog site.
type stubSite struct {
	server      *httptest.Server
	courseHits  atomic.Int32
	failCourses map[string]bool
}

// newStubSite starts a stub catalog. Course paths listed in failCourses
// answer 500.
func newStubSite(t *testing.T, failCourses ...string) *stubSite {
	t.Helper()

	site := &stubSite{failCourses: make(map[string]bool)}
	for _, c := range failCourses {
		site.failCourses[c] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("query") {
		case "machine learning":
			writeLD(w, `{"itemListElement":[{"url":"/specializations/ml"}]}`)
		case "bare":
			writeLD(w, `{"itemListElement":[{"url":"/specializations/bare"}]}`)
		case "dup":
			writeLD(w, `{"itemListElement":[{"url":"/specializations/dup"}]}`)
		case "broken":
			writeLD(w, `{"itemListElement":[{"url":"/specializations/gone"}]}`)
		default:
			writeLD(w, `{"itemListElement":[]}`)
		}
	})
	mux.HandleFunc("/specializations/ml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, trackPageHTML)
	})
	mux.HandleFunc("/specializations/bare", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, bareTrackPageHTML)
	})
	mux.HandleFunc("/specializations/dup", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, duplicatePageHTML)
	})
	mux.HandleFunc("/learn/", func(w http.ResponseWriter, r *http.Request) {
		site.courseHits.Add(1)
		if site.failCourses[r.URL.Path] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		slug := strings.TrimPrefix(r.URL.Path, "/learn/")
		writeLD(w, `{"@graph":[{"@type":"Course","about":["skill-`+slug+`",{"name":"Math"}]}]}`)
	})

	site.server = httptest.NewServer(mux)
	t.Cleanup(site.server.Close)
	return site
}

// writeLD writes a page carrying only a structured-data block.
func writeLD(w http.ResponseWriter, payload string) {
	_, _ = io.WriteString(w, `<html><head><script type="application/ld+json">`+payload+`</script></head></html>`)
}

// discardLogger returns a logger that drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestFetcher creates a fetcher with logging disabled.
func newTestFetcher(t *testing.T) *fetcher.Fetcher {
	t.Helper()

	f, err := fetcher.New(fetcher.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("fetcher.New: %v", err)
	}
	return f
}

// newTestService wires a Service against the stub site.
func newTestService(t *testing.T, site *stubSite, opts ...ServiceOption) *Service {
	t.Helper()

	f := newTestFetcher(t)
	logger := discardLogger()
	resolver := search.NewResolver(f, site.server.URL, search.WithLogger(logger))
	factory := func() *Pipeline {
		return DefaultPipeline(f,
			[]Option{WithLogger(logger)},
			WithPipelineOrigin(site.server.URL),
			WithPipelineSelectors(config.DefaultSelectors()),
			WithPipelineConcurrency(2),
			WithPipelineStepLogger(logger),
		)
	}
	return NewService(resolver, factory, append([]ServiceOption{WithServiceLogger(logger)}, opts...)...)
}
