// internal/adapters/source/file.go
package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads catalogs from disk. Relative references resolve under
// root and may not escape it; file:// references are used as given.
type FileSource struct {
	root string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{root: dir}
}

func (s *FileSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(ref, err)
	}
	path, err := s.resolve(ref)
	if err != nil {
		return nil, unavailable(ref, err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable(ref, err)
	}
	return b, nil
}

func (s *FileSource) resolve(ref string) (string, error) {
	if p, ok := strings.CutPrefix(ref, SchemeFile+"://"); ok {
		return filepath.FromSlash(p), nil
	}
	rel := filepath.FromSlash(ref)
	if !filepath.IsLocal(rel) {
		return "", errors.New("path escapes catalog directory")
	}
	return filepath.Join(s.root, rel), nil
}
