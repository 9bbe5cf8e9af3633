// Package filehound provides a composable, path-based file discovery query
// engine.
//
// A query declares one or more search roots and a chain of filters
// (extension, glob/regex name match, size, timestamps, type, custom
// predicates), then walks the roots recursively and returns the matching
// absolute paths, sorted and deduplicated.
//
// # Usage
//
//	hound := filehound.New()
//	paths, err := hound.
//	        Paths("/etc", "/var/log").
//	        Ext("conf").
//	        Size("<1mb").
//	        IgnoreHiddenDirectories().
//	        Find(ctx)
//
// Filters combine with logical AND. [Query.Not] inverts the combined chain
// for exactly the next execution. [Any] unions the results of independently
// configured queries.
//
// # Symlinks
//
// Symbolic links are not followed: they are reported with their own link
// metadata and never recursed into.
//
// # Execution modes
//
// [Query.Find] blocks; [Query.FindAsync] returns a [Promise] resolved in the
// background. Both run the identical traversal core and produce identical
// results for identical configurations and filesystem state.
//
// # Errors
//
// A query is fail-fast: the first unreadable root or directory listing
// failure aborts the whole execution and discards partial results. Malformed
// filter expressions are reported by the first execution without touching the
// filesystem at all.
package filehound

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Query is the query builder and facade.
//
// Builder methods mutate the query and return it for chaining. Each execution
// reads a frozen snapshot of the configuration, so mutating the builder while
// an execution is in flight never affects that execution. A pending [Query.Not]
// is consumed by the first execution after it is set.
type Query struct {
	mu sync.Mutex

	cfg   options
	paths []string

	chain       filterChain
	dateFilters []dateFilter
	discard     discardSet

	negateNext bool
	depth      int
	hiddenF    bool
	hiddenD    bool
	mode       queryMode

	onMatch []func(string)
	onEnd   []func([]string)
	onError []func(error)

	// err holds the first construction failure (bad comparator expression,
	// bad pattern). It is surfaced by the next execution before traversal.
	err error
}

// New creates an empty query. With no filters declared, every entry matches.
func New(opts ...Option) *Query {
	return &Query{
		cfg:   applyOptions(opts),
		depth: -1,
	}
}

// setErr records the first construction error; later ones are dropped.
func (q *Query) setErr(err error) {
	if q.err == nil {
		q.err = err
	}
}

// ============================================================================
// Search roots
// ============================================================================

// Paths appends search roots. Calls accumulate; duplicates and roots nested
// inside other roots collapse at execution time. With no roots declared, a
// query walks the process working directory.
func (q *Query) Paths(paths ...string) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.paths = append(q.paths, paths...)

	return q
}

// Path appends a single search root.
func (q *Query) Path(path string) *Query {
	return q.Paths(path)
}

// ============================================================================
// Filters
// ============================================================================

// Ext restricts results to entries whose extension equals any of exts.
// Extensions are accepted with or without the leading dot.
func (q *Query) Ext(exts ...string) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.chain.add(extensionPredicate(exts))

	return q
}

// Glob restricts results by glob pattern. A pattern without a path separator
// matches the base name; one with a separator matches the full path.
func (q *Query) Glob(pattern string) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	p, err := globPredicate(pattern)
	if err != nil {
		q.setErr(err)

		return q
	}

	q.chain.add(p)

	return q
}

// Match restricts results by a regular expression. An expression without a
// path separator matches the base name; one with a separator matches the full
// path.
func (q *Query) Match(expr string) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	p, err := regexPredicate(expr)
	if err != nil {
		q.setErr(err)

		return q
	}

	q.chain.add(p)

	return q
}

// Size restricts results by a size expression: a numeric literal (exact byte
// count) or an operator-prefixed string with optional unit, e.g. 1024,
// ">10kb", "<=1mb".
func (q *Query) Size(v any) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	p, err := sizePredicate(v)
	if err != nil {
		q.setErr(err)

		return q
	}

	q.chain.add(p)

	return q
}

// Modified restricts results by modification age: a numeric literal (days) or
// an operator-prefixed string with optional unit, e.g. 2, ">1h", "<15 minutes".
// ">" means older than the threshold, "<" more recent.
func (q *Query) Modified(v any) *Query {
	return q.addDateFilter(v, fieldModified)
}

// Accessed restricts results by access age. See [Query.Modified] for the
// expression grammar.
func (q *Query) Accessed(v any) *Query {
	return q.addDateFilter(v, fieldAccessed)
}

// Changed restricts results by status-change age. See [Query.Modified] for
// the expression grammar.
func (q *Query) Changed(v any) *Query {
	return q.addDateFilter(v, fieldChanged)
}

func (q *Query) addDateFilter(v any, field timeField) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	f, err := newDateFilter(v, field)
	if err != nil {
		q.setErr(err)

		return q
	}

	q.dateFilters = append(q.dateFilters, f)

	return q
}

// IsEmpty restricts results to zero-length entries.
func (q *Query) IsEmpty() *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.chain.add(emptyPredicate())

	return q
}

// Directory switches the query to directory mode: directories become the
// candidate set and files are not reported. The traversal roots themselves
// are never reported.
func (q *Query) Directory() *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.mode = modeDirectory

	return q
}

// Socket restricts results to unix domain sockets.
func (q *Query) Socket() *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.chain.add(socketPredicate())

	return q
}

// Filter adds a custom predicate to the chain.
func (q *Query) Filter(p Predicate) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.chain.add(p)

	return q
}

// Depth bounds recursion below each root. 0 permits exactly a root's direct
// children; depth is measured per root, not globally.
func (q *Query) Depth(n int) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n < 0 {
		q.setErr(errNegativeDepth)

		return q
	}

	q.depth = n

	return q
}

// IgnoreHiddenFiles excludes files whose name begins with ".".
func (q *Query) IgnoreHiddenFiles() *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.hiddenF = true

	return q
}

// IgnoreHiddenDirectories excludes whole subtrees under directories whose
// name begins with ".".
func (q *Query) IgnoreHiddenDirectories() *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.hiddenD = true

	return q
}

// Discard excludes entries whose path contains a segment matching any of the
// given patterns (substring or regular expression). Matching subtrees are
// pruned during traversal.
func (q *Query) Discard(patterns ...string) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	err := q.discard.add(patterns)
	if err != nil {
		q.setErr(err)
	}

	return q
}

// Not inverts the combined filter chain for exactly the next execution.
// The flag is consumed by the first execution after it is set.
func (q *Query) Not() *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.negateNext = true

	return q
}

// ============================================================================
// Notifications
// ============================================================================

// OnMatch registers a handler called for every match as it is found. Match
// notifications strictly precede the end notification.
func (q *Query) OnMatch(fn func(path string)) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.onMatch = append(q.onMatch, fn)

	return q
}

// OnEnd registers a handler called once with the final sorted result list
// after a successful execution.
func (q *Query) OnEnd(fn func(paths []string)) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.onEnd = append(q.onEnd, fn)

	return q
}

// OnError registers a handler called when an execution fails. An error
// notification precludes any further match or end notifications for that
// execution.
func (q *Query) OnError(fn func(err error)) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.onError = append(q.onError, fn)

	return q
}

// ============================================================================
// Execution
// ============================================================================

// snapshot freezes the current configuration for one execution, consuming a
// pending negation.
func (q *Query) snapshot() (*snapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.err != nil {
		return nil, q.err
	}

	negate := q.negateNext
	q.negateNext = false

	roots := q.paths
	if len(roots) == 0 {
		// The implicit root is the process working directory, resolved to
		// an absolute path so a chrooted provider cannot rebase it.
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}

		roots = []string{cwd}
	}

	now := q.cfg.now()

	preds := q.chain.snapshot()
	for _, f := range q.dateFilters {
		preds = append(preds, f.bind(now))
	}

	// Discard participates in the chain so negation yields the exact
	// complement; pruning is only an equivalent shortcut for the positive
	// chain.
	discard := &discardSet{
		patterns: q.discard.patterns[:len(q.discard.patterns):len(q.discard.patterns)],
	}
	if !discard.empty() {
		preds = append(preds, func(e *Entry) bool {
			return !discard.matchesPath(e.Path())
		})
	}

	return &snapshot{
		fs:                q.cfg.fs,
		roots:             reducePaths(roots),
		pred:              composeAnd(preds, negate),
		discard:           discard,
		prune:             !negate,
		depth:             q.depth,
		ignoreHiddenFiles: q.hiddenF,
		ignoreHiddenDirs:  q.hiddenD,
		mode:              q.mode,
		rootWorkers:       q.cfg.rootWorkers,
		onMatch:           q.onMatch[:len(q.onMatch):len(q.onMatch)],
	}, nil
}

// Find executes the query and blocks until it completes.
//
// It returns the sorted, deduplicated absolute paths of all matches, or the
// first fatal error. On error, partial results are discarded: the caller gets
// either the complete result set or nothing.
func (q *Query) Find(ctx context.Context) ([]string, error) {
	snap, err := q.snapshot()
	if err != nil {
		q.notifyError(err)

		return nil, err
	}

	w := &walker{snap: snap}

	paths, err := w.run(ctx)
	if err != nil {
		q.notifyError(err)

		return nil, err
	}

	q.notifyEnd(paths)

	return paths, nil
}

// FindAsync executes the query in the background and returns a [Promise]
// resolving to the same outcome [Query.Find] would produce.
func (q *Query) FindAsync(ctx context.Context) *Promise {
	p := &Promise{done: make(chan struct{})}

	go func() {
		defer close(p.done)

		p.paths, p.err = q.Find(ctx)
	}()

	return p
}

func (q *Query) notifyEnd(paths []string) {
	q.mu.Lock()
	handlers := q.onEnd[:len(q.onEnd):len(q.onEnd)]
	q.mu.Unlock()

	for _, fn := range handlers {
		fn(paths)
	}
}

func (q *Query) notifyError(err error) {
	q.mu.Lock()
	handlers := q.onError[:len(q.onError):len(q.onError)]
	q.mu.Unlock()

	for _, fn := range handlers {
		fn(err)
	}
}

// Promise is a deferred execution handle returned by [Query.FindAsync].
type Promise struct {
	done  chan struct{}
	paths []string
	err   error
}

// Done returns a channel closed when the execution finishes.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the execution finishes and returns its outcome.
func (p *Promise) Wait() ([]string, error) {
	<-p.done

	return p.paths, p.err
}

// Any executes every query independently and returns the sorted, deduplicated
// union of their result sets. Queries need not share roots or filters. The
// first failing query aborts the union.
func Any(ctx context.Context, queries ...*Query) ([]string, error) {
	var union []string

	for _, q := range queries {
		paths, err := q.Find(ctx)
		if err != nil {
			return nil, err
		}

		union = append(union, paths...)
	}

	sort.Strings(union)

	return dedupeSorted(union), nil
}
