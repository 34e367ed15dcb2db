// Package database provides SQLite-based storage for trackscrape.
//
// This package implements the HistoryDB, which stores every successful
// lookup as a JSON report together with a few summary columns, so that
// earlier extractions can be listed and compared without hitting the
// site again.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode lets the history command read while a server is writing
package database
