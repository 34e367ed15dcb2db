package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/trackscrape/internal/fetcher"
	"github.com/nao1215/trackscrape/internal/jsonld"
)

var (
	// ErrNoResults is returned when the search page lists no results.
	ErrNoResults = errors.New("search returned no results")

	// ErrNoResultURL is returned when the first result carries no URL.
	ErrNoResultURL = errors.New("first search result has no url")
)

// PageFetcher fetches and parses a page.
// *fetcher.Fetcher satisfies it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Document, error)
}

// Resolver turns search queries into track URLs.
type Resolver struct {
	fetcher PageFetcher
	origin  string
	logger  *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver for the site at origin,
// e.g. "https://www.coursera.org".
func NewResolver(f PageFetcher, origin string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher: f,
		origin:  strings.TrimRight(origin, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SearchURL builds the best-match search URL for query.
// Spaces become %20; no other characters are escaped, so reserved
// characters such as '&' reach the site unchanged.
func (r *Resolver) SearchURL(query string) string {
	return r.origin + "/search?query=" + strings.ReplaceAll(query, " ", "%20") + "&sortBy=BEST_MATCH"
}

// Resolve returns the absolute URL of the first search result for query.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	searchURL := r.SearchURL(query)
	r.logger.Debug("resolving query", "query", query, "url", searchURL)

	page, err := r.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch search page: %w", err)
	}

	block, err := jsonld.Extract(page.Doc)
	if err != nil {
		r.logger.Warn("search page has no usable structured data", "url", searchURL, "error", err)
		return "", fmt.Errorf("failed to read search results: %w", err)
	}

	items := block.Get("itemListElement")
	if !items.IsArray() || len(items.Array()) == 0 {
		return "", ErrNoResults
	}

	first := items.Array()[0].Get("url")
	if !first.Exists() || strings.TrimSpace(first.String()) == "" {
		return "", ErrNoResultURL
	}

	resolved := r.Absolute(strings.TrimSpace(first.String()))
	r.logger.Debug("resolved query", "query", query, "track_url", resolved)
	return resolved, nil
}

// Absolute returns link unchanged when it begins with "http" and
// prefixes it with the origin otherwise.
func (r *Resolver) Absolute(link string) string {
	if strings.HasPrefix(link, "http") {
		return link
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return r.origin + link
}
