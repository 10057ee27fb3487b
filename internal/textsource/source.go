// Package textsource loads raw document text by name.
//
// Every source returns text with line breaks removed, so a document is one
// unbroken stream. Removing a break joins the words on either side of it.
package textsource

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"
)

// ErrNotFound is returned when a named document does not exist in a source.
var ErrNotFound = errors.New("document not found")

// Source yields a document's full text by name.
type Source interface {
	Text(ctx context.Context, name string) (string, error)
}

// notFound wraps ErrNotFound with the document name and where it was looked up.
func notFound(name, where string) error {
	return fmt.Errorf("%w: %q (looked in %s)", ErrNotFound, name, where)
}

// validateName rejects names that would escape the source's root.
func validateName(name string) error {
	if name == "" {
		return errors.New("document name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || path.Clean(name) != name {
		return fmt.Errorf("invalid document name %q", name)
	}
	return nil
}

// normalize strips line breaks and replaces invalid UTF-8. CRLF and lone CR
// are treated as line breaks too. Unicode composition is left alone: a
// decomposed "a\u0301" still tokenizes as "a".
func normalize(raw []byte) string {
	text := string(raw)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\ufffd")
	}
	return lineBreaks.Replace(text)
}

var lineBreaks = strings.NewReplacer("\r\n", "", "\r", "", "\n", "")
