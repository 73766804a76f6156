// Package sqlite provides the SQLite-backed history of analyses and reference sheets.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single Store owns the connection and hands out wrapper types for each
// driven port:
//
//   - AnalysisStore: analysis results
//   - SheetStore: generated reference sheets and their pages
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.refsheet/data/history.db
package sqlite
