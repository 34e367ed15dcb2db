package config

import "time"

// SiteConfig describes how to reach the catalog site.
type SiteConfig struct {
	// BaseURL overrides the site origin.
	BaseURL string `yaml:"baseURL,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Cookie is an HTTP cookie sent with every request.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers included in every request.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// FetchConfig holds page fetch settings.
type FetchConfig struct {
	// Timeout bounds each fetch, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Concurrency is the number of course pages fetched in parallel.
	Concurrency int `yaml:"concurrency,omitempty"`

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`

	// Proxy is an optional SOCKS5 proxy address.
	Proxy string `yaml:"proxy,omitempty"`
}

// File represents the structure of the .trackscrape configuration file.
type File struct {
	// Site configures the target site.
	Site SiteConfig `yaml:"site,omitempty"`

	// Selectors override the default page selectors field by field.
	Selectors SelectorOverrides `yaml:"selectors,omitempty"`

	// Fetch configures page fetching.
	Fetch FetchConfig `yaml:"fetch,omitempty"`
}
