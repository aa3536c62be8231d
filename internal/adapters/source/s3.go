// internal/adapters/source/s3.go
package source

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ObjectDownloader is the part of storage.S3Storage the S3 source needs.
type ObjectDownloader interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// S3Source reads catalogs from s3://bucket/key references.
type S3Source struct {
	objects ObjectDownloader
}

// NewS3Source creates an S3 source over objects.
func NewS3Source(objects ObjectDownloader) *S3Source {
	return &S3Source{objects: objects}
}

func (s *S3Source) Fetch(ctx context.Context, ref string) ([]byte, error) {
	bucket, key, err := ParseS3Ref(ref)
	if err != nil {
		return nil, unavailable(ref, err)
	}
	b, err := s.objects.Download(ctx, bucket, key)
	if err != nil {
		return nil, unavailable(ref, err)
	}
	return b, nil
}

// ParseS3Ref splits s3://bucket/path/to/key. The bucket may be empty
// (s3:///key) to mean the configured default bucket.
func ParseS3Ref(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", err
	}
	if !strings.EqualFold(u.Scheme, SchemeS3) {
		return "", "", errors.New("not an s3 reference")
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", errors.New("s3 reference has no object key")
	}
	return u.Host, key, nil
}
