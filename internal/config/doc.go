// Package config provides configuration structures and utilities for trackscrape.
// It defines the target site, the page selectors used for extraction,
// fetch settings, and report generation preferences.
package config
