// Package output provides JSONL output for CLI results.
//
// Output is structured as typed record envelopes containing links,
// errors, and summaries. Each line is a self-contained JSON object
// that can be parsed independently.
package output

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/cloudbound/bucketfs/pkg/bucketfs"
)

// Record type constants define the envelope types for JSONL output.
// These follow the pattern: bucketfs.<type>.v<version>
const (
	// TypeLink identifies resolved entry records.
	TypeLink = "bucketfs.link.v1"

	// TypeError identifies error records.
	TypeError = "bucketfs.error.v1"

	// TypeSummary identifies final summary records.
	TypeSummary = "bucketfs.summary.v1"
)

// Record is the envelope for all JSONL output.
//
// Each line of JSONL output contains a Record with a type-specific
// payload in the Data field.
type Record struct {
	// Type identifies the record type (e.g., "bucketfs.link.v1").
	Type string `json:"type"`

	// TS is the timestamp when the record was created (RFC3339Nano).
	TS time.Time `json:"ts"`

	// JobID is the correlation ID for this invocation.
	JobID string `json:"job_id"`

	// Bucket is the bucket the command operated on.
	Bucket string `json:"bucket"`

	// Data contains the type-specific payload as raw JSON.
	Data json.RawMessage `json:"data"`
}

// LinkRecord is the data payload for a resolved entry.
type LinkRecord struct {
	// Path is the full entry path; directories end in "/".
	Path string `json:"path"`

	// Kind is "file" or "directory".
	Kind string `json:"kind"`

	// Size is the entry size in bytes. Zero for directories.
	Size int64 `json:"size"`

	// LastModified is the entry's last-modified timestamp.
	LastModified time.Time `json:"last_modified"`

	// HashAlgorithm and Hash carry the content digest, when present.
	HashAlgorithm string `json:"hash_algorithm,omitempty"`
	Hash          string `json:"hash,omitempty"`
}

// NewLinkRecord converts a resolved link into its output payload.
func NewLinkRecord(link *bucketfs.Link) *LinkRecord {
	return &LinkRecord{
		Path:          link.FullName,
		Kind:          link.Kind.String(),
		Size:          link.Length,
		LastModified:  link.LastWriteTime,
		HashAlgorithm: link.ContentHash.Algorithm,
		Hash:          link.ContentHash.Value,
	}
}

// ErrorRecord is the data payload for errors.
type ErrorRecord struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Path is the entry path related to this error, if applicable.
	Path string `json:"path,omitempty"`
}

// Error codes for ErrorRecord.
const (
	// ErrCodeAccessDenied indicates permission failure.
	ErrCodeAccessDenied = "ACCESS_DENIED"

	// ErrCodeNotFound indicates the entry or bucket was not found.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeNotEmpty indicates a non-recursive delete of a non-empty directory.
	ErrCodeNotEmpty = "NOT_EMPTY"

	// ErrCodeThrottled indicates rate limiting.
	ErrCodeThrottled = "THROTTLED"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal = "INTERNAL"
)

// SummaryRecord is the data payload for final summaries.
type SummaryRecord struct {
	// Entries is the number of entries emitted.
	Entries int64 `json:"entries"`

	// BytesTotal is the cumulative size of emitted file entries in bytes.
	BytesTotal int64 `json:"bytes_total"`

	// Duration is the total operation duration.
	Duration time.Duration `json:"duration_ns"`

	// DurationHuman is a human-readable duration string.
	DurationHuman string `json:"duration"`

	// Errors is the count of errors encountered.
	Errors int64 `json:"errors"`
}

// Writer errors.
var (
	// ErrWriterClosed is returned when writing to a closed writer.
	ErrWriterClosed = errors.New("writer is closed")
)

// WriteError wraps errors that occur during write operations.
type WriteError struct {
	Op  string // Operation that failed (e.g., "marshal_data", "write")
	Err error  // Underlying error
}

func (e *WriteError) Error() string {
	return "output: " + e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
