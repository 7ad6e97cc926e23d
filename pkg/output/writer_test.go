package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbound/bucketfs/pkg/bucketfs"
)

func decodeLine(t *testing.T, line string) (Record, map[string]any) {
	t.Helper()

	var record Record
	require.NoError(t, json.Unmarshal([]byte(line), &record))

	var data map[string]any
	require.NoError(t, json.Unmarshal(record.Data, &data))
	return record, data
}

func TestJSONLWriter_WriteLink(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "test-bucket")

	err := w.WriteLink(context.Background(), &LinkRecord{
		Path:          "data/report.csv",
		Kind:          "file",
		Size:          2048,
		LastModified:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		HashAlgorithm: "md5",
		Hash:          "d41d8cd98f00b204e9800998ecf8427e",
	})
	require.NoError(t, err)

	line := strings.TrimSuffix(buf.String(), "\n")
	require.NotContains(t, line, "\n", "record must be a single line")

	record, data := decodeLine(t, line)
	assert.Equal(t, TypeLink, record.Type)
	assert.Equal(t, "job-123", record.JobID)
	assert.Equal(t, "test-bucket", record.Bucket)
	assert.False(t, record.TS.IsZero())

	assert.Equal(t, "data/report.csv", data["path"])
	assert.Equal(t, "file", data["kind"])
	assert.Equal(t, float64(2048), data["size"])
	assert.Equal(t, "md5", data["hash_algorithm"])
}

func TestJSONLWriter_DirectoryRecordOmitsHash(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "test-bucket")

	err := w.WriteLink(context.Background(), &LinkRecord{
		Path: "data/2024/",
		Kind: "directory",
	})
	require.NoError(t, err)

	_, data := decodeLine(t, strings.TrimSpace(buf.String()))
	assert.NotContains(t, data, "hash")
	assert.NotContains(t, data, "hash_algorithm")
}

func TestNewLinkRecord(t *testing.T) {
	now := time.Now().UTC()

	file := &bucketfs.Link{
		FullName:      "docs/readme.md",
		Kind:          bucketfs.KindFile,
		LastWriteTime: now,
		Length:        42,
		ContentHash:   bucketfs.Hash{Algorithm: bucketfs.HashAlgorithmMD5, Value: "abc123"},
	}
	rec := NewLinkRecord(file)
	assert.Equal(t, "docs/readme.md", rec.Path)
	assert.Equal(t, "file", rec.Kind)
	assert.Equal(t, int64(42), rec.Size)
	assert.Equal(t, "md5", rec.HashAlgorithm)
	assert.Equal(t, "abc123", rec.Hash)

	dir := &bucketfs.Link{
		FullName:      "docs/",
		Kind:          bucketfs.KindDirectory,
		LastWriteTime: now,
	}
	rec = NewLinkRecord(dir)
	assert.Equal(t, "docs/", rec.Path)
	assert.Equal(t, "directory", rec.Kind)
	assert.Zero(t, rec.Size)
	assert.Empty(t, rec.Hash)
}

func TestJSONLWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "test-bucket")

	err := w.WriteError(context.Background(), &ErrorRecord{
		Code:    ErrCodeNotFound,
		Message: "object not found",
		Path:    "missing.txt",
	})
	require.NoError(t, err)

	record, data := decodeLine(t, strings.TrimSpace(buf.String()))
	assert.Equal(t, TypeError, record.Type)
	assert.Equal(t, "NOT_FOUND", data["code"])
	assert.Equal(t, "missing.txt", data["path"])
}

func TestJSONLWriter_WriteSummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "test-bucket")

	err := w.WriteSummary(context.Background(), &SummaryRecord{
		Entries:       10,
		BytesTotal:    4096,
		Duration:      2 * time.Second,
		DurationHuman: "2s",
	})
	require.NoError(t, err)

	record, data := decodeLine(t, strings.TrimSpace(buf.String()))
	assert.Equal(t, TypeSummary, record.Type)
	assert.Equal(t, float64(10), data["entries"])
	assert.Equal(t, "2s", data["duration"])
}

func TestJSONLWriter_ClosedWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "test-bucket")

	require.NoError(t, w.Close())

	err := w.WriteLink(context.Background(), &LinkRecord{Path: "x"})
	assert.ErrorIs(t, err, ErrWriterClosed)
}

func TestJSONLWriter_ContextCancelled(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "test-bucket")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.WriteLink(ctx, &LinkRecord{Path: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

// shortWriter writes at most n bytes per call to exercise short-write handling.
type shortWriter struct {
	buf bytes.Buffer
	n   int
}

func (sw *shortWriter) Write(p []byte) (int, error) {
	if len(p) > sw.n {
		p = p[:sw.n]
	}
	return sw.buf.Write(p)
}

func TestJSONLWriter_ShortWrites(t *testing.T) {
	sw := &shortWriter{n: 7}
	w := NewJSONLWriter(sw, "job-123", "test-bucket")

	err := w.WriteLink(context.Background(), &LinkRecord{Path: "data/file.txt", Kind: "file"})
	require.NoError(t, err)

	record, data := decodeLine(t, strings.TrimSpace(sw.buf.String()))
	assert.Equal(t, TypeLink, record.Type)
	assert.Equal(t, "data/file.txt", data["path"])
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestJSONLWriter_WriteFailure(t *testing.T) {
	w := NewJSONLWriter(failingWriter{}, "job-123", "test-bucket")

	err := w.WriteLink(context.Background(), &LinkRecord{Path: "x"})
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "write", writeErr.Op)
}

func TestJSONLWriter_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "test-bucket")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := w.WriteLink(context.Background(), &LinkRecord{Path: "data/file.txt", Kind: "file"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		record, _ := decodeLine(t, line)
		assert.Equal(t, TypeLink, record.Type)
	}
}

var _ io.Writer = (*shortWriter)(nil)
