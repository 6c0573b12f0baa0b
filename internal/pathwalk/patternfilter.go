package pathwalk

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternFilter applies include/exclude/extension filtering on top of the
// ignore chain. Excludes always win; includes and extensions combine with
// OR logic; with neither set, every path passes.
type PatternFilter struct {
	includes   []string
	excludes   []string
	extensions []string
	logger     *slog.Logger
}

// PatternFilterOptions configures a new PatternFilter.
type PatternFilterOptions struct {
	Includes   []string
	Excludes   []string
	Extensions []string
}

// NewPatternFilter builds a PatternFilter from opts, normalizing extensions
// to lowercase without a leading dot.
func NewPatternFilter(opts PatternFilterOptions) *PatternFilter {
	extensions := make([]string, len(opts.Extensions))
	for i, ext := range opts.Extensions {
		extensions[i] = strings.ToLower(strings.TrimLeft(ext, "."))
	}

	includes := append([]string{}, opts.Includes...)
	excludes := append([]string{}, opts.Excludes...)

	return &PatternFilter{
		includes:   includes,
		excludes:   excludes,
		extensions: extensions,
		logger:     slog.Default().With("component", "pattern-filter"),
	}
}

// HasFilters reports whether any include pattern or extension filter is
// configured (excludes alone don't change the pass-through default).
func (f *PatternFilter) HasFilters() bool {
	return len(f.includes) > 0 || len(f.extensions) > 0
}

// Matches reports whether path should be kept.
func (f *PatternFilter) Matches(path string) bool {
	normalizedPath := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if normalizedPath == "" {
		return false
	}

	for _, pattern := range f.excludes {
		if matched, err := doublestar.Match(pattern, normalizedPath); err == nil && matched {
			return false
		}
	}

	if len(f.includes) == 0 && len(f.extensions) == 0 {
		return true
	}

	for _, pattern := range f.includes {
		if matched, err := doublestar.Match(pattern, normalizedPath); err == nil && matched {
			return true
		}
	}

	if len(f.extensions) > 0 {
		ext := strings.ToLower(strings.TrimLeft(filepath.Ext(normalizedPath), "."))
		for _, filterExt := range f.extensions {
			if ext == filterExt {
				return true
			}
		}
	}

	return false
}
