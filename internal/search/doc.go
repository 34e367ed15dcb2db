// Package search resolves a free-text query to the URL of the first
// matching track on the catalog site.
//
// The resolver fetches the site's search page sorted by best match,
// reads its structured-data result list and returns the first entry's URL,
// made absolute against the site origin. Only the first result is
// considered; there is no disambiguation between several matches.
package search
