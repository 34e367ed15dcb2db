// Package model defines the core data structures used throughout trackscrape.
//
// This package contains the following main types:
//   - Track: The extracted specialization record returned by the API
//   - Course: One constituent course of a track
//   - TrackReport: The envelope produced by the extraction pipeline
//   - Warning: A degraded field recorded while extracting
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The pipeline, server, report and database packages all need
// these types, so centralizing them prevents import cycles.
//
// Track and Course use capitalized JSON keys because API consumers expect the
// exact field names Name, URL, Details, Skills and Courses.
package model
