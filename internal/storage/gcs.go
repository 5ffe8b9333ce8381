package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/ratelimit"
)

// GCSStorage uploads objects to a Google Cloud Storage bucket. Writes are
// rate limited so that a wide seed batch cannot flood the bucket API.
type GCSStorage struct {
	bucket  *storage.BucketHandle
	limiter ratelimit.Limiter
}

// NewGCSStorage creates a storage adapter for the named bucket. Credentials
// are resolved from the environment (application default credentials).
// maxRequestsPerSecond caps the upload rate; zero disables the limit.
func NewGCSStorage(ctx context.Context, bucketName string, maxRequestsPerSecond int) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	limiter := ratelimit.NewUnlimited()
	if maxRequestsPerSecond > 0 {
		limiter = ratelimit.New(maxRequestsPerSecond)
	}

	return &GCSStorage{
		bucket:  client.Bucket(bucketName),
		limiter: limiter,
	}, nil
}

// Put uploads data under the given key with the given content type.
func (s *GCSStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.limiter.Take()

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return nil
}
