// Package server exposes track lookups over HTTP.
//
// The API has a single lookup endpoint:
//
//	GET /api/track?search_query=<text>
//
// A successful lookup answers 200 with the track record. A missing query
// answers 400, a query that finds no track answers 404, and a track page
// that cannot be read answers 500. Every error body has the shape
// {"error": "<message>"}.
//
// Design decision: The server depends on a Lookuper interface rather than
// on pipeline.Service directly, so handler tests can drive every status
// code without a stub upstream site.
package server
