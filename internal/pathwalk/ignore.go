// Package pathwalk enumerates scan targets: a hierarchical ignore chain
// (defaults, .gitignore, .wardenignore), an include/exclude/extension
// pattern filter, and a two-phase bounded-concurrency directory walker that
// reads matched files into memory for the scan engine.
package pathwalk

import "log/slog"

// Ignorer reports whether a path (relative to the walk root, forward-slash
// separated) should be excluded from scanning. isDir distinguishes
// directory-only patterns from file patterns.
type Ignorer interface {
	IsIgnored(path string, isDir bool) bool
}

// CompositeIgnorer chains ignore sources; a path is ignored if any source
// matches it. The chain order is defaults, then .gitignore, then
// .wardenignore, then any CLI --exclude patterns layered on by the caller.
type CompositeIgnorer struct {
	ignorers []Ignorer
	logger   *slog.Logger
}

// NewCompositeIgnorer builds a CompositeIgnorer from ignorers, skipping any
// nil entries so callers can pass optional matchers unconditionally.
func NewCompositeIgnorer(ignorers ...Ignorer) *CompositeIgnorer {
	filtered := make([]Ignorer, 0, len(ignorers))
	for _, ig := range ignorers {
		if ig != nil {
			filtered = append(filtered, ig)
		}
	}
	return &CompositeIgnorer{
		ignorers: filtered,
		logger:   slog.Default().With("component", "composite-ignorer"),
	}
}

// IsIgnored reports whether any chained ignorer matches path.
func (c *CompositeIgnorer) IsIgnored(path string, isDir bool) bool {
	for _, ig := range c.ignorers {
		if ig.IsIgnored(path, isDir) {
			return true
		}
	}
	return false
}

var _ Ignorer = (*CompositeIgnorer)(nil)
