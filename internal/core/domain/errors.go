package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Returned when an input path is neither a file nor a directory, and when
	// an extracted entity fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown extractor, tokenizer or report format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractorUnavailable indicates the entity extraction backend cannot be reached.
	ErrExtractorUnavailable = errors.New("entity extractor unavailable")

	// ErrRateLimited indicates the extraction API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAnalysisInProgress indicates another analysis holds the output directory.
	ErrAnalysisInProgress = errors.New("analysis in progress")
)
