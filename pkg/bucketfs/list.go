package bucketfs

import (
	"context"

	"github.com/cloudbound/bucketfs/pkg/store"
)

// ListOptions configures a directory listing.
type ListOptions struct {
	// Recursive returns every entry under the directory, flattened.
	// When false, listing is constrained to one hierarchy level.
	Recursive bool

	// IncludeDirectories resolves immediate child directories into
	// links. Only meaningful when Recursive is false; recursive
	// listings carry directory markers as ordinary entries.
	IncludeDirectories bool
}

// List returns the entries of the directory at path.
//
// Recursion is handled entirely here: callers must not re-apply their own
// recursive descent on the result. Ordering is whatever the store's
// listing returns (lexicographic by key for S3). The directory's own
// marker object is never included.
func (fs *FS) List(ctx context.Context, path string, opts ListOptions) ([]*Link, error) {
	dirKey := NormalizeDirectoryKey(path)

	delimiter := Separator
	if opts.Recursive {
		delimiter = ""
	}

	var links []*Link
	// Common prefixes can repeat across pages; collect the set first.
	childPrefixes := map[string]struct{}{}
	var childOrder []string

	token := ""
	for {
		if err := fs.waitPage(ctx); err != nil {
			return nil, &OpError{Op: "List", Path: path, Err: err}
		}

		page, err := fs.client.List(ctx, store.ListOptions{
			Prefix:            dirKey,
			Delimiter:         delimiter,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, &OpError{Op: "List", Path: path, Err: err}
		}

		for _, obj := range page.Objects {
			if obj.Key == dirKey {
				continue
			}
			links = append(links, linkFromSummary(obj))
		}

		for _, cp := range page.CommonPrefixes {
			if _, seen := childPrefixes[cp]; !seen {
				childPrefixes[cp] = struct{}{}
				childOrder = append(childOrder, cp)
			}
		}

		if !page.IsTruncated || page.ContinuationToken == "" {
			break
		}
		token = page.ContinuationToken
	}

	if !opts.Recursive && opts.IncludeDirectories {
		for _, cp := range childOrder {
			link, err := fs.Resolve(ctx, cp)
			if err != nil {
				return nil, err
			}
			// A child prefix with no marker object resolves absent and
			// is skipped; only explicitly created directories are linked.
			if link != nil {
				links = append(links, link)
			}
		}
	}

	return links, nil
}
