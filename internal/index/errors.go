// ABOUTME: Sentinel errors for index construction and persistence
// ABOUTME: Matched by callers with errors.Is to decide on re-ingestion
package index

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's length disagrees
	// with the dimension established by the first vector added.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNotFound is returned by Load when no artifact exists at the path.
	ErrNotFound = errors.New("index not found")

	// ErrCorrupt is returned by Load when the persisted artifact cannot be
	// parsed or its chunk/metadata/vector counts disagree.
	ErrCorrupt = errors.New("index corrupt")
)
