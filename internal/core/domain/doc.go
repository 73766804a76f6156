// Package domain defines the core business entities for refsheet.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PagePair: Two printable pages produced from generated text
//   - UploadFile / FileSelection: Files chosen for analysis
//   - AnalysisResult: The backend's textual analysis of a selection
//   - SheetRequirements / ReferenceSheet: Inputs and output of sheet generation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
