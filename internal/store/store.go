package store

import "github.com/jacklau/authorship/internal/vectorize"

// VectorCache stores document vectors keyed by content hash and catalog
// fingerprint. It is satisfied by *DB and can be replaced with a map in tests.
type VectorCache interface {
	// GetVector returns the cached vector, or ok=false on a miss.
	GetVector(contentHash, catalog string) (vec vectorize.Vector, ok bool, err error)

	// PutVector stores a vector, replacing any previous entry for the key.
	PutVector(contentHash, catalog, label string, vec vectorize.Vector) error
}

// Compile-time check that *DB satisfies the VectorCache interface.
var _ VectorCache = (*DB)(nil)
