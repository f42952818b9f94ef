package contracts

import (
	"context"
	"time"
)

type Storage interface {
	PutObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error)
	// GetObject returns nil data and a nil error when the object does not exist.
	GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error)
	GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error)
}
