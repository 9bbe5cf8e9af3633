package filehound

import (
	"runtime"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Option configures [New].
// Options are applied in order.
type Option func(*options)

// WithFS sets the filesystem provider the query walks.
//
// Any billy.Filesystem works: the default is the real filesystem rooted at
// "/", and in-memory filesystems (memfs) are useful in tests. The provider is
// the only source of entry metadata; the engine never touches the OS
// directly.
func WithFS(fs billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithNow sets the clock used by date comparators.
//
// Each execution resolves "now" once, so all entries in a single run are
// measured against the same instant. Defaults to [time.Now].
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithRootWorkers bounds how many search roots are walked concurrently.
//
// Within a root, traversal is depth-first and sequential; parallelism is
// across roots only. Values <= 0 use the default.
func WithRootWorkers(n int) Option {
	return func(o *options) {
		o.rootWorkers = n
	}
}

// maxRootWorkers caps root concurrency to avoid goroutine overhead when a
// caller declares a huge path list.
const maxRootWorkers = 64

type options struct {
	// fs is the filesystem provider.
	fs billy.Filesystem
	// now is the clock for date comparators.
	now func() time.Time
	// rootWorkers bounds concurrent root traversals.
	rootWorkers int
}

// applyOptions merges option values and applies defaults.
func applyOptions(opts []Option) options {
	cfg := options{}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.fs == nil {
		cfg.fs = osfs.New("/")
	}

	if cfg.now == nil {
		cfg.now = time.Now
	}

	if cfg.rootWorkers <= 0 {
		cfg.rootWorkers = defaultRootWorkers()
	}

	if cfg.rootWorkers > maxRootWorkers {
		cfg.rootWorkers = maxRootWorkers
	}

	return cfg
}

// defaultRootWorkers returns the default root concurrency: NumCPU clamped to
// [1, 8]. Traversal is readdir-bound, so more goroutines than that mostly add
// scheduler churn.
func defaultRootWorkers() int {
	return min(max(runtime.NumCPU(), 1), 8)
}
