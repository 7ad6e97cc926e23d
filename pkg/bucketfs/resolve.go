package bucketfs

import (
	"context"

	"github.com/cloudbound/bucketfs/pkg/store"
)

// Resolve determines what exists at fullName: a file object, a directory
// marker, or nothing. Absence is reported as (nil, nil), never as an
// error.
//
// The lookup is attempted with fullName as-is first. On a miss:
//   - If fullName carries a conventional extension, the subject is
//     definitively not a directory and absence is reported without a
//     second call.
//   - Otherwise the lookup is retried against the normalized directory
//     form of fullName, since callers commonly omit the trailing
//     separator for directory markers.
//
// Store errors other than not-found propagate: a backend outage is
// distinguishable from a missing entry.
func (fs *FS) Resolve(ctx context.Context, fullName string) (*Link, error) {
	meta, err := fs.client.Head(ctx, fullName)
	if err == nil {
		return linkFromMeta(meta), nil
	}
	if !store.IsNotFound(err) {
		return nil, &OpError{Op: "Resolve", Path: fullName, Err: err}
	}

	// An extension-bearing miss means "no such file"; skip the fallback.
	if hasExtension(fullName) {
		return nil, nil
	}

	dirKey := NormalizeDirectoryKey(fullName)
	if dirKey == fullName {
		return nil, nil
	}

	meta, err = fs.client.Head(ctx, dirKey)
	if err == nil {
		return linkFromMeta(meta), nil
	}
	if store.IsNotFound(err) {
		return nil, nil
	}
	return nil, &OpError{Op: "Resolve", Path: fullName, Err: err}
}

// Exists reports whether anything exists at fullName.
func (fs *FS) Exists(ctx context.Context, fullName string) (bool, error) {
	link, err := fs.Resolve(ctx, fullName)
	if err != nil {
		return false, err
	}
	return link != nil, nil
}
