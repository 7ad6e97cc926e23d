package bucketfs

import (
	"errors"
	"fmt"
)

// Sentinel errors for adapter operations.
var (
	// ErrDirectoryNotEmpty is returned by non-recursive directory
	// deletion when objects or child prefixes exist under the target.
	ErrDirectoryNotEmpty = errors.New("directory not empty")

	// ErrUnsupported is returned by operations the underlying store
	// cannot provide. Callers must not retry.
	ErrUnsupported = errors.New("operation not supported")

	// ErrClientRequired is returned when constructing an adapter
	// without a store client.
	ErrClientRequired = errors.New("store client is required")
)

// OpError wraps adapter failures with the operation and path.
type OpError struct {
	// Op is the adapter operation that failed (e.g., "DeleteDirectory").
	Op string

	// Path is the filesystem path involved.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("bucketfs %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("bucketfs %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OpError) Unwrap() error {
	return e.Err
}

// IsNotEmpty returns true if the error indicates a directory was not empty.
func IsNotEmpty(err error) bool {
	return errors.Is(err, ErrDirectoryNotEmpty)
}

// IsUnsupported returns true if the error indicates an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
