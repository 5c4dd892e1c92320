package app

import (
	"context"
	"io/fs"
	"time"

	"phorg/internal/hashutil"
)

// ProgressFunc is called as files finish processing.
type ProgressFunc func(current, total int)

// FileSystem is the filesystem surface the organizer runs against.
type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	Remove(path string) error
	CopyFile(src, dst string) error
	MoveFile(src, dst string) error
	CreationTime(path string) (time.Time, error)
	CanWrite(dir string) error
}

// MetadataReader extracts a capture timestamp from file metadata. The
// organizer treats a nil MetadataReader as "capability absent" and resolves
// dates from the filesystem alone.
type MetadataReader interface {
	TakenAt(ctx context.Context, path string) (time.Time, error)
}

// HashFunc fingerprints a file for duplicate comparison.
type HashFunc func(path string, maxSize int64) (hashutil.Fingerprint, error)
