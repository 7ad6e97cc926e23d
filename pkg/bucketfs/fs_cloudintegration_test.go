//go:build cloudintegration

package bucketfs_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbound/bucketfs/pkg/bucketfs"
	"github.com/cloudbound/bucketfs/test/cloudtest"
)

func newCloudFS(t *testing.T, ctx context.Context) (*bucketfs.FS, string) {
	t.Helper()

	bucket := cloudtest.CreateBucket(t, ctx)
	client := cloudtest.NewStoreClient(t, ctx, bucket)

	fs, err := bucketfs.New(client)
	require.NoError(t, err)
	return fs, bucket
}

func TestFS_ResolveFallback_CloudIntegration(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	fs, bucket := newCloudFS(t, ctx)
	cloudtest.PutDirectoryMarker(t, ctx, bucket, "reports")
	cloudtest.PutObject(t, ctx, bucket, "reports/q1.csv", []byte("a,b\n1,2\n"))

	// Extensionless name falls back to the directory form.
	link, err := fs.Resolve(ctx, "reports")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.True(t, link.IsDir())
	assert.Equal(t, "reports/", link.FullName)

	// File resolves directly.
	link, err = fs.Resolve(ctx, "reports/q1.csv")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, bucketfs.KindFile, link.Kind)
	assert.Equal(t, int64(8), link.Length)
	assert.Equal(t, bucketfs.HashAlgorithmMD5, link.ContentHash.Algorithm)

	// Absent path with extension resolves to nothing without error.
	link, err = fs.Resolve(ctx, "reports/q2.csv")
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestFS_DirectoryLifecycle_CloudIntegration(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	fs, _ := newCloudFS(t, ctx)

	dir, err := fs.CreateDirectory(ctx, "data/2026")
	require.NoError(t, err)
	assert.Equal(t, "data/2026/", dir.FullName)

	content := "payload"
	_, err = fs.Write(ctx, "data/2026/file.bin", strings.NewReader(content), int64(len(content)), true)
	require.NoError(t, err)

	// Non-recursive delete refuses while the file exists.
	err = fs.DeleteDirectory(ctx, "data/2026", false)
	require.Error(t, err)
	assert.True(t, bucketfs.IsNotEmpty(err))

	var buf bytes.Buffer
	require.NoError(t, fs.ReadInto(ctx, "data/2026/file.bin", &buf))
	assert.Equal(t, content, buf.String())

	require.NoError(t, fs.DeleteFile(ctx, "data/2026/file.bin"))
	require.NoError(t, fs.DeleteDirectory(ctx, "data/2026", false))

	link, err := fs.Resolve(ctx, "data/2026/")
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestFS_RecursiveDelete_CloudIntegration(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	fs, bucket := newCloudFS(t, ctx)
	cloudtest.PutDirectoryMarker(t, ctx, bucket, "tree")
	cloudtest.PutObjects(t, ctx, bucket, []string{
		"tree/a.txt",
		"tree/sub/b.txt",
		"tree/sub/deep/c.txt",
		"keep.txt",
	})

	require.NoError(t, fs.DeleteDirectory(ctx, "tree", true))

	links, err := fs.List(ctx, "", bucketfs.ListOptions{Recursive: true})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "keep.txt", links[0].FullName)
}

func TestFS_List_CloudIntegration(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	fs, bucket := newCloudFS(t, ctx)
	cloudtest.PutDirectoryMarker(t, ctx, bucket, "data")
	cloudtest.PutDirectoryMarker(t, ctx, bucket, "data/2024")
	cloudtest.PutObjects(t, ctx, bucket, []string{
		"data/readme.md",
		"data/2024/jan.csv",
	})

	links, err := fs.List(ctx, "data", bucketfs.ListOptions{IncludeDirectories: true})
	require.NoError(t, err)

	var names []string
	for _, link := range links {
		names = append(names, link.FullName)
	}
	assert.ElementsMatch(t, []string{"data/readme.md", "data/2024/"}, names)
}
