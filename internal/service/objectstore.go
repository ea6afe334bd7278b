package service

import (
	"context"
	"time"
)

// ObjectStore is the blob storage collaborator used by the tiering
// layer. pkg/storage's S3 client satisfies it; tests substitute mocks.
type ObjectStore interface {
	// Put uploads an object
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// Get downloads an object
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// Delete removes an object
	Delete(ctx context.Context, bucket, key string) error
	// PresignedGet issues a temporary direct-download URL
	PresignedGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
