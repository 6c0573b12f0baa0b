package pathwalk

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// GlobIgnoreMatcher loads and evaluates gitignore-syntax pattern files
// hierarchically under a root directory. It is parameterized by filename so
// the same implementation serves both .gitignore and .wardenignore; a
// nested file's patterns apply only to paths under its own directory, and
// every level's patterns are evaluated root-to-leaf.
type GlobIgnoreMatcher struct {
	root     string
	filename string
	matchers map[string]*gitignore.GitIgnore
	dirs     []string
	logger   *slog.Logger
}

// NewGlobIgnoreMatcher walks root discovering every file named filename and
// compiles its patterns. A root with no matching files yields a matcher
// whose IsIgnored always returns false rather than an error.
func NewGlobIgnoreMatcher(root, filename string) (*GlobIgnoreMatcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root path %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", absRoot)
	}

	m := &GlobIgnoreMatcher{
		root:     absRoot,
		filename: filename,
		matchers: make(map[string]*gitignore.GitIgnore),
		logger:   slog.Default().With("component", "glob-ignore", "file", filename),
	}

	if err := m.discover(); err != nil {
		return nil, fmt.Errorf("discovering %s files in %s: %w", filename, absRoot, err)
	}

	return m, nil
}

func (m *GlobIgnoreMatcher) discover() error {
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Debug("skipping unreadable path", "path", path, "error", err)
			return filepath.SkipDir
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() || d.Name() != m.filename {
			return nil
		}

		dirPath := filepath.Dir(path)
		relDir, err := filepath.Rel(m.root, dirPath)
		if err != nil {
			m.logger.Debug("skipping file, cannot compute relative path", "path", path, "error", err)
			return nil
		}

		compiled, err := gitignore.CompileIgnoreFile(path)
		if err != nil {
			m.logger.Debug("skipping unreadable ignore file", "path", path, "error", err)
			return nil
		}

		if relDir == "" {
			relDir = "."
		}
		m.matchers[relDir] = compiled
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking directory tree: %w", err)
	}

	m.dirs = make([]string, 0, len(m.matchers))
	for dir := range m.matchers {
		m.dirs = append(m.dirs, dir)
	}
	sort.Strings(m.dirs)

	return nil
}

// IsIgnored reports whether path (relative to root, any separator style) is
// matched by any applicable ignore file, evaluated from root toward the
// path's parent directory.
func (m *GlobIgnoreMatcher) IsIgnored(path string, isDir bool) bool {
	normalizedPath := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}

	matchPath := normalizedPath
	if isDir && !strings.HasSuffix(matchPath, "/") {
		matchPath += "/"
	}

	for _, dir := range m.dirs {
		matcher := m.matchers[dir]

		if dir != "." {
			prefix := dir + "/"
			if !strings.HasPrefix(normalizedPath, prefix) {
				continue
			}
		}

		var relPath string
		if dir == "." {
			relPath = matchPath
		} else {
			relPath = strings.TrimPrefix(matchPath, dir+"/")
		}

		if matcher.MatchesPath(relPath) {
			return true
		}
	}

	return false
}

// PatternCount returns the number of ignore files of this matcher's filename
// that were discovered and compiled under root.
func (m *GlobIgnoreMatcher) PatternCount() int {
	return len(m.matchers)
}

var _ Ignorer = (*GlobIgnoreMatcher)(nil)
