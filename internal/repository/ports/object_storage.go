package ports

import (
	"context"
	"io"
)

// ObjectStorage stores uploaded images and returns their public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
	Remove(ctx context.Context, bucket, objectName string) error
}
