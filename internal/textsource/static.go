package textsource

import "context"

// Static serves documents from memory, keyed by name. Text is normalized
// the same way as file-backed sources.
type Static map[string]string

// Text returns the named document.
func (s Static) Text(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, ok := s[name]
	if !ok {
		return "", notFound(name, "memory")
	}
	return normalize([]byte(text)), nil
}
