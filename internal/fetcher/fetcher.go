package fetcher

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

const (
	// defaultTimeout bounds a fetch when no timeout option is given.
	defaultTimeout = 30 * time.Second

	// defaultMaxBodySize limits the bytes read from one response.
	defaultMaxBodySize = 10 * 1024 * 1024

	// defaultUserAgent is sent when no user agent option is given.
	defaultUserAgent = "Mozilla/5.0 (compatible; trackscrape/1.0)"
)

// Document is a fetched and parsed page.
type Document struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Doc is the parsed page.
	Doc *goquery.Document

	// Truncated reports whether the body exceeded the size limit and
	// only its first maxBodySize bytes were parsed.
	Truncated bool
}

// Fetcher retrieves pages from the catalog site.
// It is safe for concurrent use; the underlying resty client pools
// connections across calls.
type Fetcher struct {
	client       *resty.Client
	logger       *slog.Logger
	timeout      time.Duration
	maxBodySize  int64
	userAgent    string
	cookie       string
	headers      map[string]string
	proxyAddress string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithCookie sets the Cookie header sent with every request.
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithHeaders adds extra headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// WithProxy routes requests through a SOCKS5 proxy at "[user:pass@]host:port".
func WithProxy(address string) Option {
	return func(f *Fetcher) {
		f.proxyAddress = address
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher.
// It returns ErrInvalidProxyAddress if a malformed proxy address was given.
func New(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		client:      resty.New(),
		logger:      slog.Default(),
		timeout:     defaultTimeout,
		maxBodySize: defaultMaxBodySize,
		userAgent:   defaultUserAgent,
		headers:     make(map[string]string),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.proxyAddress != "" {
		transport, err := newProxyTransport(f.proxyAddress)
		if err != nil {
			return nil, err
		}
		f.client.SetTransport(transport)
		f.logger.Debug("routing requests through SOCKS5 proxy", "proxy", f.proxyAddress)
	}

	f.client.SetHeader("User-Agent", f.userAgent)
	f.client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	f.client.SetHeader("Accept-Language", "en-US,en;q=0.5")
	if f.cookie != "" {
		f.client.SetHeader("Cookie", f.cookie)
	}
	f.client.SetHeaders(f.headers)

	return f, nil
}

// Fetch retrieves pageURL and parses it as HTML.
// Any failure is returned as a *FetchError and logged at warn level.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	doc, err := f.fetch(ctx, pageURL)
	if err != nil {
		f.logger.Warn("fetch failed", "url", pageURL, "error", err)
		return nil, err
	}

	f.logger.Debug("fetched page",
		"url", pageURL,
		"status", doc.StatusCode,
		"elapsed", time.Since(start),
	)
	return doc, nil
}

// fetch performs the request and parses the body.
func (f *Fetcher) fetch(ctx context.Context, pageURL string) (*Document, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(pageURL)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: ErrTransport, Err: err}
	}

	body := resp.RawBody()
	defer body.Close()

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return nil, &FetchError{URL: pageURL, StatusCode: status, Kind: ErrStatus}
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBodySize+1))
	if err != nil {
		return nil, &FetchError{URL: pageURL, StatusCode: status, Kind: ErrTransport, Err: err}
	}

	truncated := int64(len(data)) > f.maxBodySize
	if truncated {
		data = data[:f.maxBodySize]
		f.logger.Warn("page body truncated", "url", pageURL, "limit", f.maxBodySize)
	}

	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{URL: pageURL, StatusCode: status, Kind: ErrParse, Err: err}
	}

	finalURL := pageURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	gdoc := goquery.NewDocumentFromNode(root)
	if u, err := url.Parse(finalURL); err == nil {
		gdoc.Url = u
	}

	return &Document{
		URL:        finalURL,
		StatusCode: status,
		Doc:        gdoc,
		Truncated:  truncated,
	}, nil
}
