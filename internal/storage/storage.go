package storage

import "context"

// ObjectStorage is the write-only port the image pipeline uploads
// through. No read-back is ever performed.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
