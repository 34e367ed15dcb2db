// Package fetcher retrieves catalog pages over HTTP and returns them as
// parsed HTML documents.
//
// A Fetcher performs exactly one GET per call. There is no retry and no
// cache: every call produces an independent document, so concurrent
// lookups never observe each other's pages.
//
// Bodies are read up to a size limit and parsed with golang.org/x/net/html,
// which accepts the same malformed markup browsers do. The parsed tree is
// wrapped in a goquery document for selector-based extraction.
//
// Failures come back as *FetchError, which carries the URL and HTTP status
// and wraps one of the sentinel errors ErrTransport, ErrStatus or ErrParse:
//
//	doc, err := f.Fetch(ctx, url)
//	var fe *fetcher.FetchError
//	if errors.As(err, &fe) && errors.Is(err, fetcher.ErrStatus) {
//	    // fe.StatusCode holds the upstream status
//	}
//
// Requests can optionally be routed through a SOCKS5 proxy.
package fetcher
