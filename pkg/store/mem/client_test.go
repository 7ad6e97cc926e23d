package mem

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbound/bucketfs/pkg/store"
)

func put(t *testing.T, c *Client, key, content string) {
	t.Helper()
	err := c.PutObject(context.Background(), key, strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
}

func listKeys(result *store.ListResult) []string {
	keys := make([]string, 0, len(result.Objects))
	for _, obj := range result.Objects {
		keys = append(keys, obj.Key)
	}
	return keys
}

func TestList_LexicographicOrder(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "c.txt", "c")
	put(t, c, "a.txt", "a")
	put(t, c, "b.txt", "b")

	result, err := c.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, listKeys(result))
	assert.False(t, result.IsTruncated)
}

func TestList_PrefixFilter(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "logs/2024/app.log", "x")
	put(t, c, "logs/2025/app.log", "x")
	put(t, c, "data/report.csv", "x")

	result, err := c.List(context.Background(), store.ListOptions{Prefix: "logs/"})
	require.NoError(t, err)

	assert.Equal(t, []string{"logs/2024/app.log", "logs/2025/app.log"}, listKeys(result))
}

func TestList_DelimiterGroupsCommonPrefixes(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "photos/2024/a.jpg", "x")
	put(t, c, "photos/2024/b.jpg", "x")
	put(t, c, "photos/2025/c.jpg", "x")
	put(t, c, "photos/index.html", "x")

	result, err := c.List(context.Background(), store.ListOptions{
		Prefix:    "photos/",
		Delimiter: "/",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"photos/2024/", "photos/2025/"}, result.CommonPrefixes)
	assert.Equal(t, []string{"photos/index.html"}, listKeys(result))
}

func TestList_Pagination(t *testing.T) {
	c := New("test-bucket", WithMaxKeys(2))
	for _, key := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"} {
		put(t, c, key, "x")
	}

	var all []string
	token := ""
	pages := 0
	for {
		result, err := c.List(context.Background(), store.ListOptions{ContinuationToken: token})
		require.NoError(t, err)
		pages++

		all = append(all, listKeys(result)...)
		if !result.IsTruncated {
			break
		}
		require.NotEmpty(t, result.ContinuationToken)
		token = result.ContinuationToken
	}

	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"}, all)
	assert.Equal(t, 3, pages)
}

func TestList_MaxKeysOverride(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "a.txt", "x")
	put(t, c, "b.txt", "x")
	put(t, c, "c.txt", "x")

	result, err := c.List(context.Background(), store.ListOptions{MaxKeys: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt"}, listKeys(result))
	assert.True(t, result.IsTruncated)
}

func TestHead(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "file.txt", "hello")

	meta, err := c.Head(context.Background(), "file.txt")
	require.NoError(t, err)

	assert.Equal(t, "file.txt", meta.Key)
	assert.Equal(t, int64(5), meta.Size)
	// md5 of "hello"
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", meta.ETag)
	assert.False(t, meta.LastModified.IsZero())
}

func TestHead_NotFound(t *testing.T) {
	c := New("test-bucket")

	_, err := c.Head(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))

	var storeErr *store.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, store.BackendMem, storeErr.Backend)
	assert.Equal(t, "test-bucket", storeErr.Bucket)
	assert.Equal(t, "missing.txt", storeErr.Key)
}

func TestGetObject_RoundTrip(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "file.txt", "hello world")

	body, size, err := c.GetObject(context.Background(), "file.txt")
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, int64(11), size)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestPutObject_Overwrite(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "file.txt", "first")
	put(t, c, "file.txt", "second version")

	meta, err := c.Head(context.Background(), "file.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(14), meta.Size)
	assert.Equal(t, 1, c.Len())
}

func TestDeleteObject_Idempotent(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "file.txt", "x")

	require.NoError(t, c.DeleteObject(context.Background(), "file.txt"))
	require.NoError(t, c.DeleteObject(context.Background(), "file.txt"))
	assert.Equal(t, 0, c.Len())
}

func TestDeleteObjects_Batch(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "a.txt", "x")
	put(t, c, "b.txt", "x")
	put(t, c, "keep.txt", "x")

	err := c.DeleteObjects(context.Background(), []string{"a.txt", "b.txt", "missing.txt"})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	_, err = c.Head(context.Background(), "keep.txt")
	assert.NoError(t, err)
}

func TestCopyObject(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "src.txt", "payload")

	err := c.CopyObject(context.Background(), "src.txt", "dst.txt")
	require.NoError(t, err)

	srcMeta, err := c.Head(context.Background(), "src.txt")
	require.NoError(t, err)
	dstMeta, err := c.Head(context.Background(), "dst.txt")
	require.NoError(t, err)

	assert.Equal(t, srcMeta.ETag, dstMeta.ETag)

	body, _, err := c.GetObject(context.Background(), "dst.txt")
	require.NoError(t, err)
	defer body.Close()
	var buf bytes.Buffer
	_, err = io.Copy(&buf, body)
	require.NoError(t, err)
	assert.Equal(t, "payload", buf.String())
}

func TestCopyObject_SourceMissing(t *testing.T) {
	c := New("test-bucket")

	err := c.CopyObject(context.Background(), "missing.txt", "dst.txt")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestContextCancellation(t *testing.T) {
	c := New("test-bucket")
	put(t, c, "file.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx, store.ListOptions{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.Head(ctx, "file.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
