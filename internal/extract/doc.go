// Package extract reads track and course fields out of parsed catalog pages.
//
// Every function here is pure: it takes an already fetched document or
// structured-data block and returns values, never touching the network.
// The pipeline package sequences these probes and decides what a missing
// field means.
//
// The catalog site renders with generated CSS class names, so all selectors
// come from config.Selectors and can be overridden without a rebuild.
// Probes degrade to empty results when their selector matches nothing.
//
// All extracted text is trimmed and NFC-normalized so that the same skill
// written with combining characters on one page and precomposed on another
// de-duplicates to a single entry.
package extract
