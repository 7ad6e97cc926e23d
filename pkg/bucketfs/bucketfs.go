// Package bucketfs presents hierarchical filesystem semantics over a flat,
// key-addressed object store.
//
// The store exposes only objects named by string keys, paginated prefix
// listing, and per-object metadata. This package bridges that to a
// directory model: directories are zero-byte marker objects whose key ends
// in Separator, directory listings are prefix/delimiter listings, and
// recursive deletion is a page-and-batch-delete loop. Raw keys never leak
// outside this package; consumers see paths and Link snapshots.
package bucketfs

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/cloudbound/bucketfs/pkg/store"
)

// FS adapts one bucket-scoped store client to filesystem semantics.
//
// FS holds no mutable namespace state; every operation is a self-contained
// request (or bounded page loop) against the store, so an FS is safe for
// concurrent use as long as its client is. The client is exclusively owned
// by the FS and is released by Close.
type FS struct {
	client  store.Client
	limiter *rate.Limiter

	closeOnce sync.Once
	closeErr  error
}

// Option configures an FS.
type Option func(*FS)

// WithPageRateLimit caps listing/deletion page requests at the given
// number of requests per second. Zero means unlimited.
func WithPageRateLimit(rps float64) Option {
	return func(fs *FS) {
		if rps > 0 {
			fs.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// New creates a filesystem adapter over the given store client.
//
// The FS takes ownership of the client; callers must not Close it
// themselves.
func New(client store.Client, opts ...Option) (*FS, error) {
	if client == nil {
		return nil, ErrClientRequired
	}

	fs := &FS{client: client}
	for _, opt := range opts {
		opt(fs)
	}
	return fs, nil
}

// Close releases the underlying store client. Safe to call more than
// once; the client is closed exactly once.
func (fs *FS) Close() error {
	fs.closeOnce.Do(func() {
		fs.closeErr = fs.client.Close()
	})
	return fs.closeErr
}

// Capabilities describes what the adapter can and cannot represent.
type Capabilities struct {
	// Separator is the hierarchy delimiter.
	Separator string

	// CanSetHidden, CanSetReadOnly, and CanSetLastWriteTime report
	// whether those attributes are mutable. All false: the store has
	// no such concepts and timestamps are system-set.
	CanSetHidden        bool
	CanSetReadOnly      bool
	CanSetLastWriteTime bool

	// DirectoriesArePrefixes reports that directories are emulated as
	// key prefixes rather than being a first-class store concept.
	DirectoriesArePrefixes bool
}

// Capabilities returns the adapter's capability flags.
func (fs *FS) Capabilities() Capabilities {
	return Capabilities{
		Separator:              Separator,
		DirectoriesArePrefixes: true,
	}
}

// waitPage blocks until the next page request is allowed under the
// configured rate limit.
func (fs *FS) waitPage(ctx context.Context) error {
	if fs.limiter == nil {
		return nil
	}
	return fs.limiter.Wait(ctx)
}
