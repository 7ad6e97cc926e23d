package bucketfs

import (
	"time"

	"github.com/cloudbound/bucketfs/pkg/store"
)

// Kind classifies a resolved entry.
type Kind int

const (
	// KindUnknown means the entry could not be classified.
	KindUnknown Kind = iota

	// KindFile is a regular object.
	KindFile

	// KindDirectory is a synthetic directory (marker object or common prefix).
	KindDirectory
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Hash is an algorithm-tagged content digest.
type Hash struct {
	// Algorithm tags the digest family (currently always "md5").
	Algorithm string

	// Value is the opaque digest string.
	Value string
}

// IsZero reports whether the hash is unset.
func (h Hash) IsZero() bool {
	return h.Algorithm == "" && h.Value == ""
}

// HashAlgorithmMD5 is the algorithm tag applied to store entity tags.
//
// The entity tag is a true MD5 only for simple (non-multipart) uploads;
// for multipart uploads it is an opaque composite value. It remains
// usable for change detection either way.
const HashAlgorithmMD5 = "md5"

// Link is a snapshot of one entry in the namespace, built from a single
// store response. Links are never mutated after construction and hold no
// live connection to the store; re-resolve to observe changes.
//
// Absence is represented by returning no link, never by a link with a
// "does not exist" flag: every constructed Link describes an entry that
// existed at snapshot time.
type Link struct {
	// FullName is the entry's store key, using Separator as the
	// hierarchy delimiter. Directory names end in Separator.
	FullName string

	// Kind classifies the entry by the trailing-separator rule.
	Kind Kind

	// CreationTime and LastWriteTime both carry the store's
	// last-modified timestamp; the store does not track creation time.
	CreationTime  time.Time
	LastWriteTime time.Time

	// IsHidden and IsReadOnly are always false; the store has no such
	// concepts.
	IsHidden   bool
	IsReadOnly bool

	// Length is the object size in bytes. Zero for directories.
	Length int64

	// ContentHash is derived from the store entity tag. Zero for
	// directories. See HashAlgorithmMD5 for fidelity limits.
	ContentHash Hash
}

// IsDir reports whether the link is a directory.
func (l *Link) IsDir() bool {
	return l.Kind == KindDirectory
}

// linkFromMeta builds a link snapshot from a Head response.
func linkFromMeta(meta *store.ObjectMeta) *Link {
	return linkFromSummary(meta.ObjectSummary)
}

// linkFromSummary builds a link snapshot from a listing entry.
func linkFromSummary(obj store.ObjectSummary) *Link {
	l := &Link{
		FullName:      obj.Key,
		CreationTime:  obj.LastModified,
		LastWriteTime: obj.LastModified,
	}

	if isDirectoryKey(obj.Key) {
		l.Kind = KindDirectory
		return l
	}

	l.Kind = KindFile
	l.Length = obj.Size
	if obj.ETag != "" {
		l.ContentHash = Hash{Algorithm: HashAlgorithmMD5, Value: obj.ETag}
	}
	return l
}
