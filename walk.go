package filehound

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"
)

// queryMode selects what kind of entries a query reports.
type queryMode uint8

const (
	modeFile queryMode = iota
	modeDirectory
)

var errNotDirectory = errors.New("not a directory")

// snapshot is the frozen per-execution configuration. It is built once when
// an execution starts; later builder mutations never affect a run already in
// flight.
type snapshot struct {
	fs    billy.Filesystem
	roots []string
	// pred is the composed filter chain (including any consumed negation
	// and the discard predicate).
	pred Predicate
	// discard prunes subtrees during traversal. Pruning is disabled under
	// negation: the negated chain must be able to match entries that the
	// positive chain would have discarded.
	discard *discardSet
	prune   bool
	// depth bounds recursion below each root; -1 means unlimited and 0
	// permits exactly the root's direct children.
	depth             int
	ignoreHiddenFiles bool
	ignoreHiddenDirs  bool
	mode              queryMode
	rootWorkers       int
	onMatch           []func(string)
}

// walker drives one query execution over the snapshot's roots.
//
// Roots run concurrently; the first fatal error cancels the rest and the
// whole execution fails with no partial results. The only shared state is the
// match accumulator, serialized by mu.
type walker struct {
	snap *snapshot

	mu      sync.Mutex
	matches []string
}

func (w *walker) run(ctx context.Context) ([]string, error) {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(w.snap.rootWorkers)

	for _, root := range w.snap.roots {
		group.Go(func() error {
			return w.walkRoot(gctx, root)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(w.matches)

	return dedupeSorted(w.matches), nil
}

// walkRoot verifies the root is a readable directory, then visits it.
// The root itself is never reported as a result. Any failure to open or list
// the root surfaces as Op "open"; listing failures below it as Op "readdir".
func (w *walker) walkRoot(ctx context.Context, root string) error {
	info, err := w.snap.fs.Lstat(root)
	if err != nil {
		return &WalkError{Path: root, Op: "open", Err: err}
	}

	if !info.IsDir() {
		return &WalkError{Path: root, Op: "open", Err: errNotDirectory}
	}

	infos, err := w.snap.fs.ReadDir(root)
	if err != nil {
		return &WalkError{Path: root, Op: "open", Err: err}
	}

	return w.visitEntries(ctx, root, 0, infos)
}

// visit lists dir's direct children, reports matches, and recurses
// depth-first. depth is the recursion distance below the root.
func (w *walker) visit(ctx context.Context, dir string, depth int) error {
	infos, err := w.snap.fs.ReadDir(dir)
	if err != nil {
		return &WalkError{Path: dir, Op: "readdir", Err: err}
	}

	return w.visitEntries(ctx, dir, depth, infos)
}

func (w *walker) visitEntries(ctx context.Context, dir string, depth int, infos []os.FileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := info.Name()
		path := w.snap.fs.Join(dir, name)

		if info.IsDir() {
			if w.snap.ignoreHiddenDirs && isHidden(name) {
				continue
			}

			if w.snap.prune && w.snap.discard.matchesPath(path) {
				continue
			}

			if w.snap.mode == modeDirectory && w.snap.pred(&Entry{path: path, info: info}) {
				w.record(path)
			}

			if w.snap.depth < 0 || depth+1 <= w.snap.depth {
				err := w.visit(ctx, path, depth+1)
				if err != nil {
					return err
				}
			}

			continue
		}

		if w.snap.mode == modeDirectory {
			continue
		}

		if w.snap.ignoreHiddenFiles && isHidden(name) {
			continue
		}

		if w.snap.prune && w.snap.discard.matchesPath(path) {
			continue
		}

		if w.snap.pred(&Entry{path: path, info: info}) {
			w.record(path)
		}
	}

	return nil
}

// record appends a match and emits the match notification. Append and
// notification share one critical section so observers never see torn or
// reordered state from concurrent roots.
func (w *walker) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.matches = append(w.matches, path)

	for _, fn := range w.snap.onMatch {
		fn(path)
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// dedupeSorted removes adjacent duplicates from a sorted slice in place.
func dedupeSorted(paths []string) []string {
	if len(paths) < 2 {
		return paths
	}

	out := paths[:1]

	for _, p := range paths[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}

	return out
}
