// Package domain defines the core business entities for nerstat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entity: One named-entity occurrence inside a document
//   - DocumentResult: One document's extraction outcome
//   - CorpusStatistics: Corpus-wide frequency, relevance and quality aggregates
//   - AnalysisRun: One invocation of the analysis pipeline
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
