package textsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileExt is appended to document names to form file names.
const fileExt = ".txt"

// Dir reads documents from <Base>/<name>.txt.
type Dir struct {
	Base string
}

// NewDir returns a Dir rooted at base.
func NewDir(base string) *Dir {
	return &Dir{Base: base}
}

// Text reads and normalizes the named document.
func (d *Dir) Text(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	p := filepath.Join(d.Base, name+fileExt)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", notFound(name, p)
		}
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	return normalize(data), nil
}
