// Package similarity compares document vectors by orientation.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/jacklau/authorship/internal/vectorize"
)

var (
	// ErrDimensionMismatch is returned when vectors were built from different catalogs.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrOutOfDomain is returned when a score cannot be interpreted as a cosine.
	ErrOutOfDomain = errors.New("score outside [-1, 1]")
)

// Cosine computes the cosine similarity between two count vectors.
// Returns exactly 0 when the dot product is 0, which covers all-zero vectors,
// and an error if dimensions don't match. Counts are non-negative, so the
// result is always in [0, 1].
func Cosine(a, b vectorize.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB int64
	for i := range a {
		ai, bi := int64(a[i]), int64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}

	if dot == 0 {
		return 0, nil
	}

	score := float64(dot) / math.Sqrt(float64(normA)*float64(normB))
	// Rounding can push near-parallel vectors a hair past 1.
	return math.Min(score, 1), nil
}

// Angle interprets score as cos(θ) and returns θ in degrees.
func Angle(score float64) (float64, error) {
	if math.IsNaN(score) || score < -1 || score > 1 {
		return 0, fmt.Errorf("%w: %v", ErrOutOfDomain, score)
	}
	return math.Acos(score) * 180 / math.Pi, nil
}
