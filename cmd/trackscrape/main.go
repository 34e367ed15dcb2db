// Package main provides the entry point for the trackscrape CLI.
//
// trackscrape looks up a specialization track on the course catalog by a
// free-text query and extracts its title, description, skills and courses,
// including per-course durations and skills.
//
// Usage:
//
//	trackscrape track "machine learning"
//	trackscrape serve --addr :5000
//
// See --help for all available options.
package main

// main is the entry point for trackscrape.
func main() {
	Execute()
}
