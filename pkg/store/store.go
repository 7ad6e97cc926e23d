// Package store defines the boundary contract between the filesystem
// adapter and an object store.
//
// Clients expose a flat, key-addressed namespace: objects identified by
// string keys within one bucket, paginated prefix listing, and per-object
// metadata. Hierarchy is emulated above this layer; clients never reason
// about directories.
package store

import (
	"context"
	"time"
)

// Client abstracts bucket-scoped object store operations.
//
// Implementations should:
//   - Support pagination via continuation tokens
//   - Be safe for concurrent use by multiple in-flight operations
//   - Map backend failures to the sentinel errors in this package
type Client interface {
	// List returns a page of objects with the given prefix.
	// Use ContinuationToken from ListResult for subsequent pages.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Head returns metadata for a single object.
	// Returns ErrNotFound if the object does not exist.
	Head(ctx context.Context, key string) (*ObjectMeta, error)

	// Close releases any resources held by the client.
	// The client is exclusively owned by its adapter; Close must be
	// called exactly once when the adapter is done with it.
	Close() error
}

// ListOptions configures a List operation.
type ListOptions struct {
	// Prefix filters results to keys starting with this value.
	// Empty string lists all objects in the bucket.
	Prefix string

	// Delimiter groups keys sharing a prefix-plus-delimiter segment into
	// common prefixes, emulating one level of directory listing.
	// Empty string returns every key under Prefix, flattened.
	Delimiter string

	// ContinuationToken resumes listing from a previous ListResult.
	// Empty string starts from the beginning.
	ContinuationToken string

	// MaxKeys limits the number of keys returned per page.
	// Zero uses the client default (typically 1000).
	MaxKeys int
}

// ListResult contains a page of results from a List operation.
type ListResult struct {
	// Objects are the object summaries for this page.
	Objects []ObjectSummary

	// CommonPrefixes are the immediate child prefixes.
	// Only populated when ListOptions.Delimiter is set.
	CommonPrefixes []string

	// ContinuationToken is used to retrieve the next page.
	// Empty string indicates no more pages.
	ContinuationToken string

	// IsTruncated indicates whether more results are available.
	IsTruncated bool
}

// ObjectSummary contains basic metadata returned from List operations.
type ObjectSummary struct {
	// Key is the full object key in the bucket.
	Key string

	// Size is the object size in bytes.
	Size int64

	// ETag is the entity tag. For simple uploads this is an MD5 of the
	// content; for multipart uploads it is an opaque composite value.
	ETag string

	// LastModified is when the object was last modified. The store does
	// not track creation time separately.
	LastModified time.Time
}

// ObjectMeta contains full metadata for a single object.
// Returned by Head operations.
type ObjectMeta struct {
	ObjectSummary

	// ContentType is the MIME type of the object.
	ContentType string

	// Metadata contains user-defined metadata key-value pairs.
	Metadata map[string]string
}

// Backend identifies an object store implementation.
type Backend string

const (
	// BackendS3 represents AWS S3 or S3-compatible storage.
	BackendS3 Backend = "s3"

	// BackendMem represents the in-process store used for tests.
	BackendMem Backend = "mem"
)

// String returns the string representation of the backend.
func (b Backend) String() string {
	return string(b)
}
