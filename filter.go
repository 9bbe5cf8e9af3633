package filehound

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Predicate decides whether an [Entry] belongs to a query's result set.
//
// Predicates must be pure: no retained state across calls, no mutation of the
// entry. They may be called concurrently when roots are walked in parallel.
type Predicate func(*Entry) bool

// ============================================================================
// Filter chain
// ============================================================================

// filterChain is an ordered set of predicates folded with logical AND.
//
// A chain with no predicates composes to "always true". A pending negation
// inverts the whole composed chain and is consumed by exactly one
// composition.
type filterChain struct {
	predicates []Predicate
}

func (c *filterChain) add(p Predicate) {
	c.predicates = append(c.predicates, p)
}

// snapshot copies the predicate list so predicates added later do not leak
// into an execution already in flight.
func (c *filterChain) snapshot() []Predicate {
	return c.predicates[:len(c.predicates):len(c.predicates)]
}

// composeAnd folds predicates into a single predicate with logical AND.
// An empty list composes to "always true". negate applies to the combined
// chain, not to individual predicates.
func composeAnd(predicates []Predicate, negate bool) Predicate {
	combined := func(e *Entry) bool {
		for _, p := range predicates {
			if !p(e) {
				return false
			}
		}

		return true
	}

	if !negate {
		return combined
	}

	return func(e *Entry) bool {
		return !combined(e)
	}
}

// ============================================================================
// Built-in predicates
// ============================================================================

// extensionPredicate matches entries whose extension equals any of exts.
// Extensions are accepted with or without the leading dot and compared
// case-sensitively.
func extensionPredicate(exts []string) Predicate {
	trimmed := make([]string, len(exts))
	for i, ext := range exts {
		trimmed[i] = strings.TrimPrefix(ext, ".")
	}

	return func(e *Entry) bool {
		got := e.Ext()
		for _, want := range trimmed {
			if got == want {
				return true
			}
		}

		return false
	}
}

// globPredicate matches the entry against a glob pattern. Patterns without a
// path separator match against the base name; patterns with one match against
// the full path.
func globPredicate(pattern string) (Predicate, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	baseOnly := !strings.ContainsRune(pattern, '/')

	return func(e *Entry) bool {
		target := e.Path()
		if baseOnly {
			target = e.Name()
		}

		ok, err := doublestar.Match(pattern, target)

		return err == nil && ok
	}, nil
}

// regexPredicate matches the entry against an explicit regular expression.
// Expressions without a path separator match against the base name;
// expressions with one match against the full path.
func regexPredicate(expr string) (Predicate, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern %q: %w", expr, err)
	}

	baseOnly := !strings.ContainsRune(expr, '/')

	return func(e *Entry) bool {
		if baseOnly {
			return re.MatchString(e.Name())
		}

		return re.MatchString(e.Path())
	}, nil
}

// sizePredicate delegates to the size comparator against the entry's byte
// length.
func sizePredicate(v any) (Predicate, error) {
	expr, err := formatExprInput(v)
	if err != nil {
		return nil, err
	}

	cmp, err := newSizeComparator(expr)
	if err != nil {
		return nil, err
	}

	return func(e *Entry) bool {
		return cmp.match(e.Size())
	}, nil
}

// timeField selects which timestamp a date predicate samples.
type timeField uint8

const (
	fieldModified timeField = iota
	fieldAccessed
	fieldChanged
)

// dateFilter is a parsed date condition. It is bound to a concrete "now"
// when an execution starts, so every entry in a single run is measured
// against the same instant.
type dateFilter struct {
	cmp   dateComparator
	field timeField
}

func newDateFilter(v any, field timeField) (dateFilter, error) {
	expr, err := formatExprInput(v)
	if err != nil {
		return dateFilter{}, err
	}

	cmp, err := newDateComparator(expr)
	if err != nil {
		return dateFilter{}, err
	}

	return dateFilter{cmp: cmp, field: field}, nil
}

// bind turns the filter into a predicate evaluated against now.
func (f dateFilter) bind(now time.Time) Predicate {
	return func(e *Entry) bool {
		var sample time.Time

		switch f.field {
		case fieldAccessed:
			sample = e.AccessTime()
		case fieldChanged:
			sample = e.ChangeTime()
		default:
			sample = e.ModTime()
		}

		return f.cmp.match(sample, now)
	}
}

// emptyPredicate matches zero-length entries.
func emptyPredicate() Predicate {
	return func(e *Entry) bool {
		return e.Size() == 0
	}
}

// socketPredicate matches unix domain sockets.
func socketPredicate() Predicate {
	return func(e *Entry) bool {
		return e.IsSocket()
	}
}

// ============================================================================
// Discard patterns
// ============================================================================

// discardSet holds compiled discard patterns. A path is discarded when any of
// its segments matches any pattern. Unlike chain predicates, discards prune
// whole subtrees during traversal.
type discardSet struct {
	patterns []*regexp.Regexp
}

func (d *discardSet) add(patterns []string) error {
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid discard pattern %q: %w", pattern, err)
		}

		d.patterns = append(d.patterns, re)
	}

	return nil
}

func (d *discardSet) empty() bool {
	return len(d.patterns) == 0
}

// matchesSegment reports whether a single path segment hits any pattern.
func (d *discardSet) matchesSegment(segment string) bool {
	for _, re := range d.patterns {
		if re.MatchString(segment) {
			return true
		}
	}

	return false
}

// matchesPath reports whether any segment of path hits any pattern.
func (d *discardSet) matchesPath(path string) bool {
	if d.empty() {
		return false
	}

	for _, segment := range splitSegments(path) {
		if d.matchesSegment(segment) {
			return true
		}
	}

	return false
}
