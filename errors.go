package filehound

import (
	"errors"
	"fmt"
)

// errNegativeDepth reports a negative value passed to [Query.Depth].
var errNegativeDepth = errors.New("depth must be non-negative")

// WalkError is returned when a file system operation fails during traversal.
//
// A WalkError is fatal: the first one aborts the whole query and discards any
// partial results (see [Query.Find]).
type WalkError struct {
	// Path is the path of the entry that could not be processed.
	Path string
	// Op is the operation that failed: "open", "stat", or "readdir".
	Op string
	// Err is the underlying error.
	Err error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}
