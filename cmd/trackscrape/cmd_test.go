package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// executeCmd runs the root command with args and returns stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

// newStubCatalog serves a search page, one track page and its course pages.
// "machine learning" resolves; every other query has no results.
func newStubCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	ld := func(w http.ResponseWriter, payload string) {
		_, _ = io.WriteString(w, `<html><head><script type="application/ld+json">`+payload+`</script></head></html>`)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "machine learning" {
			ld(w, `{"itemListElement":[{"url":"/specializations/ml"}]}`)
			return
		}
		ld(w, `{"itemListElement":[]}`)
	})
	mux.HandleFunc("/specializations/ml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html><head>
<script type="application/ld+json">{"@type":"Course","About":[{"name":"Python"}]}</script>
</head><body>
<div class="css-1q5srzp">ML Track</div>
<div class="cds-9 css-xalpg1 cds-11 cds-grid-item cds-56 cds-80"><div class="rc-CML">
<p><span><span>Master machine learning.</span></span></p>
</div></div>
<ul>
<li><a href="/learn/intro-ml">Intro</a><div class="css-3odziz"><span>1</span><span>-</span><span>10 hours</span></div></li>
<li><a href="/learn/deep-ml">Deep</a><div class="css-3odziz"><span>2</span><span>-</span><span>20 hours</span></div></li>
</ul>
</body></html>`)
	})
	mux.HandleFunc("/learn/", func(w http.ResponseWriter, _ *http.Request) {
		ld(w, `{"@type":"Course","about":["Math"]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
