// Package httpapi serves the paginator and stored sheets over a small
// JSON HTTP API built on chi.
//
// Routes:
//
//	GET  /api/ping
//	POST /api/paginate             {"text": "..."} -> {"page1": "...", "page2": "..."}
//	GET  /api/sheets/latest/pages
//	GET  /api/sheets/{sheetID}/pages
//
// Failures use the same {"error", "details"} shape as the analysis backend.
package httpapi
