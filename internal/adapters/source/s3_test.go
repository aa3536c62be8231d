// internal/adapters/source/s3_test.go
package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/adapters/source"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

type fakeObjects map[string][]byte

func (f fakeObjects) Download(_ context.Context, bucket, key string) ([]byte, error) {
	b, ok := f[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return b, nil
}

func TestParseS3Ref(t *testing.T) {
	tests := []struct {
		ref        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{ref: "s3://catalogs/books.json", wantBucket: "catalogs", wantKey: "books.json"},
		{ref: "s3://catalogs/2024/kids.json", wantBucket: "catalogs", wantKey: "2024/kids.json"},
		{ref: "s3:///toys.json", wantKey: "toys.json"},
		{ref: "s3://catalogs", wantErr: true},
		{ref: "https://catalogs/books.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			bucket, key, err := source.ParseS3Ref(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestS3Source_Fetch(t *testing.T) {
	src := source.NewS3Source(fakeObjects{
		"catalogs/books.json": []byte(`{"books":[]}`),
		"/toys.json":          []byte(`[]`),
	})
	ctx := context.Background()

	got, err := src.Fetch(ctx, "s3://catalogs/books.json")
	require.NoError(t, err)
	assert.Equal(t, `{"books":[]}`, string(got))

	got, err = src.Fetch(ctx, "s3:///toys.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	_, err = src.Fetch(ctx, "s3://catalogs/kids.json")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.ErrorContains(t, err, "NoSuchKey")

	_, err = src.Fetch(ctx, "s3://catalogs")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
