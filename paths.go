package filehound

import (
	"path/filepath"
	"sort"
	"strings"
)

// ============================================================================
// Search path reduction
// ============================================================================

// reducePaths normalizes a set of search roots.
//
// Paths are cleaned, deduplicated, and sorted lexicographically. Any path that
// is a strict subdirectory of another retained path is discarded, so walking
// the result never visits the same subtree twice.
//
// Idempotent: reducePaths(reducePaths(p)) == reducePaths(p).
func reducePaths(paths []string) []string {
	cleaned := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))

	for _, p := range paths {
		p = filepath.Clean(p)
		if _, dup := seen[p]; dup {
			continue
		}

		seen[p] = struct{}{}

		cleaned = append(cleaned, p)
	}

	if len(cleaned) < 2 {
		return cleaned
	}

	sort.Strings(cleaned)

	reduced := make([]string, 0, len(cleaned))

	for _, candidate := range cleaned {
		redundant := false

		for _, base := range cleaned {
			if base == candidate {
				continue
			}

			if isSubdirectory(candidate, base) {
				redundant = true

				break
			}
		}

		if !redundant {
			reduced = append(reduced, candidate)
		}
	}

	return reduced
}

// isSubdirectory reports whether candidate lives strictly below base.
//
// It walks candidate's ancestor chain via repeated parent extraction,
// stopping at the filesystem root or ".".
func isSubdirectory(candidate, base string) bool {
	for dir := filepath.Dir(candidate); ; dir = filepath.Dir(dir) {
		if dir == base {
			return true
		}

		if dir == string(filepath.Separator) || dir == "." || dir == filepath.Dir(dir) {
			return false
		}
	}
}

// splitSegments breaks a path into its non-empty segments.
// Used by discard matching, which tests each segment independently.
func splitSegments(path string) []string {
	return strings.FieldsFunc(filepath.ToSlash(filepath.Clean(path)), func(r rune) bool {
		return r == '/'
	})
}
