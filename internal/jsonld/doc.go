// Package jsonld locates and decodes the embedded structured-data block
// (application/ld+json) of a catalog page.
//
// Only the first such script in document order is read. The decoded value
// is kept as raw JSON and probed with gjson paths, so no schema is imposed
// on the source site; absent fields simply produce empty results.
//
// Catalog pages use two shapes:
//
//	{"@context": ..., "itemListElement": [{"url": ...}]}      // search results
//	{"@context": ..., "@graph": [{"@type": "Course", ...}]}   // track and course pages
//
// Items hides the difference by returning the @graph entries when present
// and the block itself otherwise.
package jsonld
