// Package compare scores reference documents against an unknown document.
package compare

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jacklau/authorship/internal/features"
	"github.com/jacklau/authorship/internal/similarity"
	"github.com/jacklau/authorship/internal/store"
	"github.com/jacklau/authorship/internal/textsource"
	"github.com/jacklau/authorship/internal/vectorize"
)

// Engine loads documents, vectorizes them against a catalog and scores each
// reference against the unknown document.
type Engine struct {
	source  textsource.Source
	catalog *features.Catalog
	cache   store.VectorCache
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache reuses vectors across runs. Cache failures are logged and the
// vector is recomputed.
func WithCache(c store.VectorCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine reading from source and counting over catalog.
func NewEngine(source textsource.Source, catalog *features.Catalog, opts ...Option) *Engine {
	e := &Engine{
		source:  source,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare scores each reference against unknown, in the order given.
// Every document is loaded before any score is computed, so a missing
// document fails the whole comparison.
func (e *Engine) Compare(ctx context.Context, unknown string, references []string) (*Result, error) {
	if len(references) == 0 {
		return nil, errors.New("at least one reference document is required")
	}

	names := append([]string{unknown}, references...)
	docs := make([]vectorize.Document, len(names))
	for i, name := range names {
		text, err := e.source.Text(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		docs[i] = vectorize.Document{Label: name, Text: text}
	}

	unknownVec := e.vector(docs[0])
	if unknownVec.IsZero() {
		e.logger.Warn("unknown document matched no features", "document", unknown)
	}

	result := &Result{
		Unknown: unknown,
		Scores:  make([]Score, 0, len(references)),
	}
	for _, doc := range docs[1:] {
		vec := e.vector(doc)
		score, err := similarity.Cosine(vec, unknownVec)
		if err != nil {
			return nil, fmt.Errorf("scoring %s: %w", doc.Label, err)
		}
		e.logger.Debug("scored reference", "reference", doc.Label, "similarity", score)
		result.Scores = append(result.Scores, Score{Label: doc.Label, Similarity: score})
	}

	return result, nil
}

// vector returns doc's vector, consulting the cache when one is configured.
func (e *Engine) vector(doc vectorize.Document) vectorize.Vector {
	if e.cache == nil {
		return vectorize.Vectorize(doc, e.catalog)
	}

	key := contentHash(doc.Text)
	catalog := e.catalog.Fingerprint()

	vec, ok, err := e.cache.GetVector(key, catalog)
	if err != nil {
		e.logger.Warn("vector cache read failed", "document", doc.Label, "error", err)
	}
	if ok && len(vec) == e.catalog.Len() {
		e.logger.Debug("vector cache hit", "document", doc.Label)
		return vec
	}

	vec = vectorize.Vectorize(doc, e.catalog)
	if err := e.cache.PutVector(key, catalog, doc.Label, vec); err != nil {
		e.logger.Warn("vector cache write failed", "document", doc.Label, "error", err)
	}
	return vec
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
