// Package mem implements an in-process store client backed by a map.
//
// It mirrors S3 listing semantics closely enough to exercise pagination,
// delimiter grouping, and error mapping without a network: keys are listed
// in lexicographic order, continuation tokens carry the last returned key,
// and ETags are MD5 digests of the content.
package mem

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cloudbound/bucketfs/pkg/store"
)

// DefaultMaxKeys is the default page size for List operations.
const DefaultMaxKeys = 1000

// Client implements store.Client against an in-memory object map.
//
// Safe for concurrent use.
type Client struct {
	bucket  string
	maxKeys int

	mu      sync.RWMutex
	objects map[string]object
}

type object struct {
	data         []byte
	etag         string
	lastModified time.Time
}

// Ensure Client implements the store interfaces.
var (
	_ store.Client        = (*Client)(nil)
	_ store.ObjectGetter  = (*Client)(nil)
	_ store.ObjectPutter  = (*Client)(nil)
	_ store.ObjectDeleter = (*Client)(nil)
	_ store.BatchDeleter  = (*Client)(nil)
	_ store.ObjectCopier  = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithMaxKeys sets the default page size for List operations.
// Small values are useful for exercising pagination in tests.
func WithMaxKeys(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxKeys = n
		}
	}
}

// New creates an empty in-memory store client for the named bucket.
func New(bucket string, opts ...Option) *Client {
	c := &Client{
		bucket:  bucket,
		maxKeys: DefaultMaxKeys,
		objects: make(map[string]object),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns a page of objects with the given prefix.
//
// Keys are returned in lexicographic order. The continuation token is the
// last key considered on the previous page; listing resumes strictly after it.
func (c *Client) List(ctx context.Context, opts store.ListOptions) (*store.ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = c.maxKeys
	}

	c.mu.RLock()
	keys := make([]string, 0, len(c.objects))
	for k := range c.objects {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	c.mu.RUnlock()
	sort.Strings(keys)

	// Resume strictly after the token.
	start := 0
	if opts.ContinuationToken != "" {
		idx := sort.SearchStrings(keys, opts.ContinuationToken)
		for idx < len(keys) && keys[idx] <= opts.ContinuationToken {
			idx++
		}
		start = idx
	}

	result := &store.ListResult{}
	seenPrefixes := map[string]struct{}{}

	count := 0
	last := ""
	i := start
	for ; i < len(keys) && count < maxKeys; i++ {
		k := keys[i]
		last = k

		if opts.Delimiter != "" {
			// Group keys with a delimiter beyond the prefix into common prefixes.
			rest := strings.TrimPrefix(k, opts.Prefix)
			if di := strings.Index(rest, opts.Delimiter); di >= 0 {
				cp := opts.Prefix + rest[:di+len(opts.Delimiter)]
				if _, ok := seenPrefixes[cp]; !ok {
					seenPrefixes[cp] = struct{}{}
					result.CommonPrefixes = append(result.CommonPrefixes, cp)
					count++
				}
				continue
			}
		}

		c.mu.RLock()
		obj, ok := c.objects[k]
		c.mu.RUnlock()
		if !ok {
			continue
		}
		result.Objects = append(result.Objects, store.ObjectSummary{
			Key:          k,
			Size:         int64(len(obj.data)),
			ETag:         obj.etag,
			LastModified: obj.lastModified,
		})
		count++
	}

	if i < len(keys) {
		result.IsTruncated = true
		result.ContinuationToken = last
	}

	return result, nil
}

// Head returns metadata for a single object.
func (c *Client) Head(ctx context.Context, key string) (*store.ObjectMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	obj, ok := c.objects[key]
	c.mu.RUnlock()
	if !ok {
		return nil, c.wrapError("Head", key, store.ErrNotFound)
	}

	return &store.ObjectMeta{
		ObjectSummary: store.ObjectSummary{
			Key:          key,
			Size:         int64(len(obj.data)),
			ETag:         obj.etag,
			LastModified: obj.lastModified,
		},
	}, nil
}

// GetObject downloads an object as a stream.
func (c *Client) GetObject(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	c.mu.RLock()
	obj, ok := c.objects[key]
	c.mu.RUnlock()
	if !ok {
		return nil, 0, c.wrapError("GetObject", key, store.ErrNotFound)
	}

	return io.NopCloser(bytes.NewReader(obj.data)), int64(len(obj.data)), nil
}

// PutObject stores an object, replacing any existing object at the key.
func (c *Client) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_ = contentLength

	data, err := io.ReadAll(body)
	if err != nil {
		return c.wrapError("PutObject", key, err)
	}

	sum := md5.Sum(data)

	c.mu.Lock()
	c.objects[key] = object{
		data:         data,
		etag:         hex.EncodeToString(sum[:]),
		lastModified: time.Now().UTC(),
	}
	c.mu.Unlock()
	return nil
}

// DeleteObject deletes an object. Deleting a non-existent key succeeds.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.objects, key)
	c.mu.Unlock()
	return nil
}

// DeleteObjects deletes the given keys. Missing keys are ignored.
func (c *Client) DeleteObjects(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	for _, k := range keys {
		delete(c.objects, k)
	}
	c.mu.Unlock()
	return nil
}

// CopyObject copies an object within the bucket.
func (c *Client) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	src, ok := c.objects[srcKey]
	if !ok {
		return c.wrapError("CopyObject", srcKey, store.ErrNotFound)
	}

	data := make([]byte, len(src.data))
	copy(data, src.data)
	c.objects[dstKey] = object{
		data:         data,
		etag:         src.etag,
		lastModified: time.Now().UTC(),
	}
	return nil
}

// Close releases the client. The in-memory map needs no cleanup.
func (c *Client) Close() error {
	return nil
}

// Len returns the number of stored objects.
func (c *Client) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}

func (c *Client) wrapError(op, key string, err error) error {
	return &store.StoreError{
		Op:      op,
		Backend: store.BackendMem,
		Bucket:  c.bucket,
		Key:     key,
		Err:     err,
	}
}
