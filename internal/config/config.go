package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBaseURL is the origin of the course catalog site.
	// Search URLs and relative course links are resolved against it.
	DefaultBaseURL = "https://www.coursera.org"

	// DefaultTimeout bounds every single page fetch.
	// Course pages are large, so 30 seconds leaves room for slow responses
	// without letting one stuck fetch hold a request open indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency is the number of course pages fetched in parallel
	// while collecting per-course skills. Tracks rarely list more than
	// ten courses, so 4 keeps the fan-out polite while still overlapping
	// network latency.
	DefaultConcurrency = 4

	// DefaultBatchSize is the number of track lookups run concurrently
	// when the track command receives several queries.
	DefaultBatchSize = 2

	// DefaultListenAddr is the address the API server binds to.
	DefaultListenAddr = ":5000"

	// AppName is the application name used for XDG directory paths.
	AppName = "trackscrape"

	// DefaultUserAgent is sent with every request.
	// The catalog site serves reduced markup to unknown clients, so we
	// present a browser-like agent by default.
	DefaultUserAgent = "Mozilla/5.0 (compatible; trackscrape/1.0; +https://github.com/nao1215/trackscrape)"

	// DefaultMaxBodySize limits the response body size read per page.
	// Track pages embed large script bundles; 10MB covers them comfortably.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for trackscrape.
// This struct is populated from defaults, the configuration file and CLI
// flags, in that order, and passed through the application via dependency
// injection rather than global state.
type Config struct {
	// BaseURL is the origin of the catalog site, without a trailing slash.
	BaseURL string

	// Timeout is the per-fetch timeout.
	Timeout time.Duration

	// Concurrency is the number of course pages fetched in parallel.
	Concurrency int

	// BatchSize is the number of queries processed concurrently by the
	// track command.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .trackscrape in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport selects JSON output for the track and history commands.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output for the track command.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Queries is the list of search queries given to the track command.
	Queries []string

	// ListenAddr is the address the API server binds to.
	ListenAddr string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	// Credentials may be given as "user:pass@host:port".
	ProxyAddress string

	// DBDir is the directory path for the history database.
	// Defaults to the XDG data directory (~/.local/share/trackscrape on Linux).
	DBDir string

	// SaveToDB indicates whether completed extractions are stored in history.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Cookie is an optional Cookie header sent with every request.
	Cookie string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// Selectors locate the track page fragments.
	Selectors Selectors
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (timeout, origin,
// selectors). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		BatchSize:   DefaultBatchSize,
		ListenAddr:  DefaultListenAddr,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Headers:     make(map[string]string),
		Selectors:   DefaultSelectors(),
	}
}

// XDGDataDir returns the XDG data directory for trackscrape.
// On Linux: ~/.local/share/trackscrape
// On macOS: ~/Library/Application Support/trackscrape
// On Windows: %LOCALAPPDATA%\trackscrape
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigFileName is the configuration file name inside XDGConfigDir.
const XDGConfigFileName = "config.yaml"

// XDGConfigDir returns the XDG config directory for trackscrape.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the configuration file path inside XDGConfigDir.
// FindConfigFile falls back to it, and "init --xdg" writes it.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), XDGConfigFileName)
}

// ApplyFile overlays the non-zero values of a configuration file onto c.
// CLI flags are applied afterwards by the caller and win over the file.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if f.Site.BaseURL != "" {
		c.BaseURL = f.Site.BaseURL
	}
	if f.Site.UserAgent != "" {
		c.UserAgent = f.Site.UserAgent
	}
	if f.Site.Cookie != "" {
		c.Cookie = f.Site.Cookie
	}
	if len(f.Site.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Site.Headers))
		}
		for k, v := range f.Site.Headers {
			c.Headers[k] = v
		}
	}

	if f.Fetch.Timeout > 0 {
		c.Timeout = f.Fetch.Timeout
	}
	if f.Fetch.Concurrency > 0 {
		c.Concurrency = f.Fetch.Concurrency
	}
	if f.Fetch.MaxBodySize > 0 {
		c.MaxBodySize = f.Fetch.MaxBodySize
	}
	if f.Fetch.Proxy != "" {
		c.ProxyAddress = f.Fetch.Proxy
	}

	c.Selectors = c.Selectors.Merge(f.Selectors)
}

// Origin returns BaseURL without a trailing slash.
func (c *Config) Origin() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// Validate checks the settings shared by every command.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 || c.BatchSize <= 0 {
		return ErrInvalidConcurrency
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.Selectors.DurationSpanIndex < 0 {
		return ErrInvalidDurationSpanIndex
	}

	return nil
}

// ValidateTrack checks the settings of the track command on top of Validate.
func (c *Config) ValidateTrack() error {
	if len(c.Queries) == 0 {
		return ErrNoQuery
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return c.Validate()
}
