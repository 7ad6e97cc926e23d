package bucketfs

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/cloudbound/bucketfs/pkg/store"
)

// CreateDirectory writes a zero-byte marker object at the normalized
// directory key and returns the resulting directory link. Creating a
// directory that already exists silently overwrites the marker.
func (fs *FS) CreateDirectory(ctx context.Context, path string) (*Link, error) {
	putter, ok := fs.client.(store.ObjectPutter)
	if !ok {
		return nil, &OpError{Op: "CreateDirectory", Path: path, Err: ErrUnsupported}
	}

	dirKey := NormalizeDirectoryKey(path)
	if err := putter.PutObject(ctx, dirKey, bytes.NewReader(nil), 0); err != nil {
		return nil, &OpError{Op: "CreateDirectory", Path: path, Err: err}
	}

	meta, err := fs.client.Head(ctx, dirKey)
	if err != nil {
		return nil, &OpError{Op: "CreateDirectory", Path: path, Err: err}
	}
	return linkFromMeta(meta), nil
}

// Write uploads content to the object key for path and returns the
// resulting file link.
//
// The overwrite flag is accepted for interface compatibility but is not
// separately enforced: the store put unconditionally replaces any
// existing object at the key.
func (fs *FS) Write(ctx context.Context, path string, content io.Reader, size int64, overwrite bool) (*Link, error) {
	_ = overwrite

	putter, ok := fs.client.(store.ObjectPutter)
	if !ok {
		return nil, &OpError{Op: "Write", Path: path, Err: ErrUnsupported}
	}

	if err := putter.PutObject(ctx, path, content, size); err != nil {
		return nil, &OpError{Op: "Write", Path: path, Err: err}
	}

	meta, err := fs.client.Head(ctx, path)
	if err != nil {
		return nil, &OpError{Op: "Write", Path: path, Err: err}
	}
	return linkFromMeta(meta), nil
}

// ReadInto streams the object at path into dst. When dst is seekable it
// is rewound to its start on completion, so callers receive a sink
// positioned at the beginning of the content.
func (fs *FS) ReadInto(ctx context.Context, path string, dst io.Writer) error {
	getter, ok := fs.client.(store.ObjectGetter)
	if !ok {
		return &OpError{Op: "ReadInto", Path: path, Err: ErrUnsupported}
	}

	body, _, err := getter.GetObject(ctx, path)
	if err != nil {
		return &OpError{Op: "ReadInto", Path: path, Err: err}
	}
	defer func() { _ = body.Close() }()

	if _, err := io.Copy(dst, body); err != nil {
		return &OpError{Op: "ReadInto", Path: path, Err: err}
	}

	if seeker, ok := dst.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return &OpError{Op: "ReadInto", Path: path, Err: err}
		}
	}
	return nil
}

// DeleteFile deletes the single object at path's key. Deleting a
// non-existent key is not an error, matching the store's semantics.
func (fs *FS) DeleteFile(ctx context.Context, path string) error {
	deleter, ok := fs.client.(store.ObjectDeleter)
	if !ok {
		return &OpError{Op: "DeleteFile", Path: path, Err: ErrUnsupported}
	}

	if err := deleter.DeleteObject(ctx, path); err != nil {
		return &OpError{Op: "DeleteFile", Path: path, Err: err}
	}
	return nil
}

// DeleteDirectory deletes the directory at path.
//
// Recursive deletion pages through every object under the prefix and
// issues one batch delete per page until the listing is exhausted; an
// empty or already-absent prefix is a no-op. Non-recursive deletion fails
// with ErrDirectoryNotEmpty if anything other than the marker exists
// under the prefix, and otherwise deletes just the marker.
func (fs *FS) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	dirKey := NormalizeDirectoryKey(path)

	if recursive {
		return fs.deleteRecursive(ctx, path, dirKey)
	}

	page, err := fs.client.List(ctx, store.ListOptions{
		Prefix:    dirKey,
		Delimiter: Separator,
	})
	if err != nil {
		return &OpError{Op: "DeleteDirectory", Path: path, Err: err}
	}

	if len(page.CommonPrefixes) > 0 {
		return &OpError{Op: "DeleteDirectory", Path: path, Err: ErrDirectoryNotEmpty}
	}
	for _, obj := range page.Objects {
		if obj.Key != dirKey {
			return &OpError{Op: "DeleteDirectory", Path: path, Err: ErrDirectoryNotEmpty}
		}
	}

	deleter, ok := fs.client.(store.ObjectDeleter)
	if !ok {
		return &OpError{Op: "DeleteDirectory", Path: path, Err: ErrUnsupported}
	}
	if err := deleter.DeleteObject(ctx, dirKey); err != nil {
		return &OpError{Op: "DeleteDirectory", Path: path, Err: err}
	}
	return nil
}

// deleteRecursive pages through the prefix and batch-deletes each page.
//
// Listing restarts from the beginning after each batch rather than
// carrying a continuation token: the token belongs to a listing whose
// keys were just deleted.
func (fs *FS) deleteRecursive(ctx context.Context, path, dirKey string) error {
	batcher, ok := fs.client.(store.BatchDeleter)
	if !ok {
		return &OpError{Op: "DeleteDirectory", Path: path, Err: ErrUnsupported}
	}

	for {
		if err := fs.waitPage(ctx); err != nil {
			return &OpError{Op: "DeleteDirectory", Path: path, Err: err}
		}

		page, err := fs.client.List(ctx, store.ListOptions{Prefix: dirKey})
		if err != nil {
			return &OpError{Op: "DeleteDirectory", Path: path, Err: err}
		}
		if len(page.Objects) == 0 {
			return nil
		}

		keys := make([]string, 0, len(page.Objects))
		for _, obj := range page.Objects {
			keys = append(keys, obj.Key)
		}
		if err := batcher.DeleteObjects(ctx, keys); err != nil {
			return &OpError{Op: "DeleteDirectory", Path: path, Err: err}
		}

		if !page.IsTruncated {
			return nil
		}
	}
}

// CopyFile copies the object at src to dst server-side and returns the
// resulting file link. The source object remains; copy is not a rename.
func (fs *FS) CopyFile(ctx context.Context, src, dst string) (*Link, error) {
	copier, ok := fs.client.(store.ObjectCopier)
	if !ok {
		return nil, &OpError{Op: "CopyFile", Path: src, Err: ErrUnsupported}
	}

	if err := copier.CopyObject(ctx, src, dst); err != nil {
		return nil, &OpError{Op: "CopyFile", Path: src, Err: err}
	}

	meta, err := fs.client.Head(ctx, dst)
	if err != nil {
		return nil, &OpError{Op: "CopyFile", Path: dst, Err: err}
	}
	return linkFromMeta(meta), nil
}

// MoveFile always fails: the store offers no atomic rename primitive,
// and this layer deliberately does not emulate one with copy-then-delete.
func (fs *FS) MoveFile(ctx context.Context, src, dst string) error {
	_ = ctx
	return &OpError{Op: "MoveFile", Path: src, Err: fmt.Errorf("%w: move %s to %s requires copy-then-delete", ErrUnsupported, src, dst)}
}

// MoveDirectory always fails, for the same reason as MoveFile.
func (fs *FS) MoveDirectory(ctx context.Context, src, dst string) error {
	_ = ctx
	return &OpError{Op: "MoveDirectory", Path: src, Err: fmt.Errorf("%w: move %s to %s requires copy-then-delete", ErrUnsupported, src, dst)}
}

// RefreshMetadata re-reads the entry behind link and returns a fresh
// snapshot. The store distinguishes system-set fields from user metadata
// and this adapter does not expose user-metadata writes, so refresh is
// the only metadata operation offered.
func (fs *FS) RefreshMetadata(ctx context.Context, link *Link) (*Link, error) {
	meta, err := fs.client.Head(ctx, link.FullName)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, &OpError{Op: "RefreshMetadata", Path: link.FullName, Err: err}
	}
	return linkFromMeta(meta), nil
}
