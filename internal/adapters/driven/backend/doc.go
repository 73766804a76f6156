// Package backend provides the HTTP client for the analysis backend.
//
// The backend exposes two endpoints:
//
//   - POST /api/analyze-practice: multipart upload of practice files
//   - POST /api/generate-reference-sheet: JSON request for a reference sheet
//
// Failures are returned as *domain.BackendError carrying the backend's error
// and details fields. Transport failures wrap domain.ErrTransport.
package backend
