package fetcher

import (
	"errors"
	"fmt"
)

// Fetch errors.
// Callers match these with errors.Is; the surrounding *FetchError carries
// the request details.
var (
	// ErrTransport is returned when the request could not be completed:
	// DNS failure, refused connection, timeout, or a broken body stream.
	ErrTransport = errors.New("transport failure")

	// ErrStatus is returned when the server answered with a non-2xx status.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrParse is returned when the response body is not parseable HTML.
	ErrParse = errors.New("failed to parse HTML")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port" or "user:pass@host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected [user:pass@]host:port")
)

// FetchError describes a failed fetch.
type FetchError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Kind is one of ErrTransport, ErrStatus or ErrParse.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("fetch %s: %v (status %d): %v", e.URL, e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: %v (status %d)", e.URL, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v: %v", e.URL, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Kind)
	}
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
