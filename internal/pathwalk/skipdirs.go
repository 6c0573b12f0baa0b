package pathwalk

import (
	"log/slog"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnorePatterns are always applied unless the caller opts out. They
// cover build artifacts and dependency/VCS directories that are large and
// never worth scanning. Unlike a context-assembly tool, this list
// deliberately does NOT exclude files like .env or *.pem — those are exactly
// the kind of file a security scan needs to inspect, not skip.
var DefaultIgnorePatterns = []string{
	".git/",
	"node_modules/",
	"dist/",
	"build/",
	"coverage/",
	"__pycache__/",
	".next/",
	"target/",
	"vendor/",
	".warden/",

	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Gemfile.lock",
	"Cargo.lock",
	"go.sum",
	"poetry.lock",

	"*.pyc",
	"*.pyo",
	"*.class",
	"*.o",
	"*.obj",

	// Archive formats are never scanned directly; an unpacked extension or
	// skill bundle's contents are walked as regular files instead.
	"*.crx",
	"*.xpi",
	"*.zip",

	".DS_Store",
	"Thumbs.db",
	".idea/",
	".vscode/",
	"*.swp",
	"*.swo",
}

// DefaultIgnoreMatcher compiles DefaultIgnorePatterns into an Ignorer.
type DefaultIgnoreMatcher struct {
	matcher *gitignore.GitIgnore
	logger  *slog.Logger
}

// NewDefaultIgnoreMatcher compiles DefaultIgnorePatterns. It never errors:
// the pattern list is a compile-time constant known to be valid.
func NewDefaultIgnoreMatcher() *DefaultIgnoreMatcher {
	return &DefaultIgnoreMatcher{
		matcher: gitignore.CompileIgnoreLines(DefaultIgnorePatterns...),
		logger:  slog.Default().With("component", "default-ignore"),
	}
}

// IsIgnored reports whether path matches any default ignore pattern.
func (d *DefaultIgnoreMatcher) IsIgnored(path string, isDir bool) bool {
	matchPath := path
	if isDir && len(matchPath) > 0 && matchPath[len(matchPath)-1] != '/' {
		matchPath += "/"
	}
	return d.matcher.MatchesPath(matchPath)
}

var _ Ignorer = (*DefaultIgnoreMatcher)(nil)
