package filehound

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is a single filesystem entry seen by a query.
//
// Entries are handed to [Predicate] functions, including custom predicates
// registered via [Query.Filter]. Metadata comes from the directory listing
// that discovered the entry; an Entry is never mutated after creation and
// must not be retained beyond the predicate call.
type Entry struct {
	path string
	info os.FileInfo
}

// Path returns the entry's absolute path.
func (e *Entry) Path() string {
	return e.path
}

// Name returns the final path segment.
func (e *Entry) Name() string {
	return e.info.Name()
}

// Ext returns the entry's extension without the leading dot ("" if none).
func (e *Entry) Ext() string {
	return strings.TrimPrefix(filepath.Ext(e.info.Name()), ".")
}

// Size returns the entry's length in bytes.
func (e *Entry) Size() int64 {
	return e.info.Size()
}

// ModTime returns the entry's modification time.
func (e *Entry) ModTime() time.Time {
	return e.info.ModTime()
}

// AccessTime returns the entry's last access time.
//
// Falls back to ModTime when the filesystem provider does not report access
// times (for example in-memory filesystems).
func (e *Entry) AccessTime() time.Time {
	return accessTime(e.info)
}

// ChangeTime returns the entry's last status-change time.
//
// Falls back to ModTime when the filesystem provider does not report change
// times.
func (e *Entry) ChangeTime() time.Time {
	return changeTime(e.info)
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool {
	return e.info.IsDir()
}

// IsSocket reports whether the entry is a unix domain socket.
func (e *Entry) IsSocket() bool {
	return e.info.Mode()&os.ModeSocket != 0
}

// IsFile reports whether the entry is a regular file.
func (e *Entry) IsFile() bool {
	return e.info.Mode().IsRegular()
}
