package bucketfs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbound/bucketfs/pkg/store"
	"github.com/cloudbound/bucketfs/pkg/store/mem"
)

// countingClient wraps a mem client and counts Head calls.
type countingClient struct {
	*mem.Client
	headCalls int
}

func (c *countingClient) Head(ctx context.Context, key string) (*store.ObjectMeta, error) {
	c.headCalls++
	return c.Client.Head(ctx, key)
}

// failingClient returns a fixed error from Head.
type failingClient struct {
	*mem.Client
	err error
}

func (c *failingClient) Head(ctx context.Context, key string) (*store.ObjectMeta, error) {
	return nil, c.err
}

func newTestFS(t *testing.T, client store.Client) *FS {
	t.Helper()
	fs, err := New(client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func put(t *testing.T, client *mem.Client, key, content string) {
	t.Helper()
	require.NoError(t, client.PutObject(context.Background(), key, bytes.NewReader([]byte(content)), int64(len(content))))
}

func TestResolve_File(t *testing.T) {
	ctx := context.Background()
	client := mem.New("test-bucket")
	put(t, client, "logs/app.log", "hello")
	fs := newTestFS(t, client)

	link, err := fs.Resolve(ctx, "logs/app.log")
	require.NoError(t, err)
	require.NotNil(t, link)

	assert.Equal(t, "logs/app.log", link.FullName)
	assert.Equal(t, KindFile, link.Kind)
	assert.False(t, link.IsDir())
	assert.Equal(t, int64(5), link.Length)
	assert.Equal(t, HashAlgorithmMD5, link.ContentHash.Algorithm)
	assert.NotEmpty(t, link.ContentHash.Value)
	assert.False(t, link.IsHidden)
	assert.False(t, link.IsReadOnly)
	assert.Equal(t, link.LastWriteTime, link.CreationTime)
}

func TestResolve_DirectoryMarker(t *testing.T) {
	ctx := context.Background()
	client := mem.New("test-bucket")
	put(t, client, "logs/", "")
	fs := newTestFS(t, client)

	// Exact marker key.
	link, err := fs.Resolve(ctx, "logs/")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, KindDirectory, link.Kind)
	assert.True(t, link.IsDir())
	assert.Zero(t, link.Length)
	assert.True(t, link.ContentHash.IsZero())
}

func TestResolve_DirectoryFallback(t *testing.T) {
	ctx := context.Background()
	client := mem.New("test-bucket")
	put(t, client, "logs/", "")
	counting := &countingClient{Client: client}
	fs := newTestFS(t, counting)

	// Caller omitted the trailing separator: first Head misses,
	// fallback against the normalized directory key succeeds.
	link, err := fs.Resolve(ctx, "logs")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "logs/", link.FullName)
	assert.True(t, link.IsDir())
	assert.Equal(t, 2, counting.headCalls)
}

func TestResolve_ExtensionMissSkipsFallback(t *testing.T) {
	ctx := context.Background()
	client := mem.New("test-bucket")
	counting := &countingClient{Client: client}
	fs := newTestFS(t, counting)

	link, err := fs.Resolve(ctx, "missing.txt")
	require.NoError(t, err)
	assert.Nil(t, link)
	assert.Equal(t, 1, counting.headCalls, "extension-bearing miss must not retry")
}

func TestResolve_NoExtensionMissRetries(t *testing.T) {
	ctx := context.Background()
	client := mem.New("test-bucket")
	counting := &countingClient{Client: client}
	fs := newTestFS(t, counting)

	link, err := fs.Resolve(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, link)
	assert.Equal(t, 2, counting.headCalls, "no-extension miss must retry the directory form")
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	storeErr := &store.StoreError{
		Op:      "Head",
		Backend: store.BackendMem,
		Bucket:  "test-bucket",
		Err:     store.ErrUnavailable,
	}
	fs := newTestFS(t, &failingClient{Client: mem.New("test-bucket"), err: storeErr})

	// An outage is not the same as a missing entry.
	link, err := fs.Resolve(ctx, "logs/app.log")
	require.Error(t, err)
	assert.Nil(t, link)
	assert.True(t, store.IsUnavailable(err))

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "Resolve", opErr.Op)
	assert.Equal(t, "logs/app.log", opErr.Path)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	client := mem.New("test-bucket")
	put(t, client, "data/a.bin", "x")
	fs := newTestFS(t, client)

	ok, err := fs.Exists(ctx, "data/a.bin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fs.Exists(ctx, "data/missing.bin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew_RequiresClient(t *testing.T) {
	fs, err := New(nil)
	assert.Nil(t, fs)
	assert.ErrorIs(t, err, ErrClientRequired)
}

func TestClose_Once(t *testing.T) {
	fs, err := New(mem.New("test-bucket"))
	require.NoError(t, err)

	assert.NoError(t, fs.Close())
	assert.NoError(t, fs.Close())
}

func TestCapabilities(t *testing.T) {
	fs := newTestFS(t, mem.New("test-bucket"))

	caps := fs.Capabilities()
	assert.Equal(t, "/", caps.Separator)
	assert.False(t, caps.CanSetHidden)
	assert.False(t, caps.CanSetReadOnly)
	assert.False(t, caps.CanSetLastWriteTime)
	assert.True(t, caps.DirectoriesArePrefixes)
}
