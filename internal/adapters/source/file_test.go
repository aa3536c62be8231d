// internal/adapters/source/file_test.go
package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/adapters/source"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte(`{"books":[]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "kids.json"), []byte(`[]`), 0o644))

	outside := filepath.Join(t.TempDir(), "toys.json")
	require.NoError(t, os.WriteFile(outside, []byte(`[1]`), 0o644))

	src := source.NewFileSource(dir)

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "relative", ref: "books.json", want: `{"books":[]}`},
		{name: "nested", ref: "nested/kids.json", want: `[]`},
		{name: "absolute_file_url", ref: "file://" + filepath.ToSlash(outside), want: `[1]`},
		{name: "missing", ref: "stationery.json", wantErr: true},
		{name: "escapes_root", ref: "../toys.json", wantErr: true},
		{name: "absolute_without_scheme", ref: outside, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Fetch(context.Background(), tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.NewFileSource(t.TempDir()).Fetch(ctx, "books.json")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
