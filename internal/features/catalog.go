// Package features defines the ordered feature space that document vectors
// are counted against.
package features

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// Catalog is an ordered, immutable list of distinct feature tokens. A token's
// position is its dimension index in every vector built from the catalog.
type Catalog struct {
	tokens      []string
	fingerprint string
}

// New builds a catalog from tokens, preserving their order.
// Returns an error if tokens is empty or contains duplicates or empty strings.
func New(tokens []string) (*Catalog, error) {
	if len(tokens) == 0 {
		return nil, errors.New("catalog must contain at least one feature")
	}

	seen := make(map[string]struct{}, len(tokens))
	for i, tok := range tokens {
		if tok == "" {
			return nil, fmt.Errorf("feature %d is empty", i)
		}
		if _, dup := seen[tok]; dup {
			return nil, fmt.Errorf("duplicate feature %q at index %d", tok, i)
		}
		seen[tok] = struct{}{}
	}

	own := make([]string, len(tokens))
	copy(own, tokens)

	return &Catalog{
		tokens:      own,
		fingerprint: fingerprint(own),
	}, nil
}

// Len returns the number of features, which is also the vector length.
func (c *Catalog) Len() int {
	return len(c.tokens)
}

// Token returns the feature at dimension i.
func (c *Catalog) Token(i int) string {
	return c.tokens[i]
}

// Tokens returns a copy of the features in catalog order.
func (c *Catalog) Tokens() []string {
	out := make([]string, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Fingerprint identifies the catalog's exact contents and order. Two catalogs
// with equal fingerprints produce comparable vectors.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func fingerprint(tokens []string) string {
	h := sha256.New()
	for _, tok := range tokens {
		h.Write([]byte(tok))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
