package domain

import "errors"

// Error taxonomy. Callers match with errors.Is; wrapping adds detail
// (the offending extension, id, dimensions) without losing the category.
var (
	// ErrUnsupportedFormat marks a file whose extension has no loader.
	// Per-file and non-fatal: the build skips the file and continues.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyInput reports a build that found no valid documents. The
	// collection is left unchanged.
	ErrEmptyInput = errors.New("no valid documents found")

	// ErrDimensionMismatch reports a collection opened with a vector
	// dimension different from the one it was created with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrModelMismatch reports a collection opened with an embedding
	// model different from the one it was built with. Mixing models in
	// one collection silently corrupts rankings, so it is rejected.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrDuplicateID reports an insert of an id already present in the
	// collection. Records are never overwritten in place.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrGenerationFailed wraps any generation-service failure. It is
	// surfaced verbatim, never converted into a fabricated answer.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrMissingCredential is fatal at startup: the generation service
	// credential was not supplied.
	ErrMissingCredential = errors.New("missing API credential")
)
