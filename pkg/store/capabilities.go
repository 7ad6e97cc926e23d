package store

import (
	"context"
	"io"
)

// Optional client capability interfaces.
//
// These are used for feature detection (type assertions). The core Client
// interface stays read-only and intentionally small.

// ObjectGetter can download objects as a stream.
type ObjectGetter interface {
	GetObject(ctx context.Context, key string) (body io.ReadCloser, contentLength int64, err error)
}

// ObjectPutter can create/overwrite objects.
//
// Puts unconditionally replace any existing object at the key; the store
// offers no conditional write at this layer.
type ObjectPutter interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
}

// ObjectDeleter can delete single objects.
//
// Deleting a non-existent key is not an error.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// BatchDeleter can delete many objects in one call.
//
// A page-sized batch is treated as atomic-enough for directory deletion;
// per-key failures inside a batch are not individually surfaced.
type BatchDeleter interface {
	DeleteObjects(ctx context.Context, keys []string) error
}

// ObjectCopier can copy an object server-side within the bucket.
//
// Copy is not rename: the source object remains. The store has no atomic
// move primitive.
type ObjectCopier interface {
	CopyObject(ctx context.Context, srcKey, dstKey string) error
}
