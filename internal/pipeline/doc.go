// Package pipeline turns a track URL into a TrackReport by running
// extraction steps in sequence, and a search query into a track URL plus
// report via Service.
//
// The default pipeline is:
//
//	fetch_page -> track_skills -> title -> courses -> durations -> course_skills -> details
//
// Only fetch_page can fail the extraction. Every later step is an
// enrichment: when its markup or structured data is missing it records a
// model.Warning and leaves the field at its empty default, so a record is
// returned even when the site's layout has drifted.
//
// Design decision: We use a pipeline of steps instead of one extraction
// function because each field degrades independently. Steps log, warn and
// get listed in PerformedSteps the same way, and tests can run a single
// step against a fixture page.
//
// Course skills are fetched concurrently with errgroup, bounded by the
// configured concurrency. BatchProcessor applies the same pattern to
// several queries at once.
package pipeline
