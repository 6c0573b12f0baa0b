// Package filetype classifies a file into the rule catalog's file-type tags:
// basename overrides first, then extension, with several languages folded
// onto the closest regex-compatible tag.
package filetype

import (
	"path/filepath"
	"strings"
)

const (
	Markdown   = "markdown"
	JSON       = "json"
	Manifest   = "manifest"
	Python     = "python"
	TypeScript = "typescript"
	JavaScript = "javascript"
	Bash       = "bash"
	Binary     = "binary"
	Text       = "text"
)

// basenameOverrides maps exact, case-sensitive basenames to a tag,
// evaluated before any extension-based rule.
var basenameOverrides = map[string]string{
	"SKILL.md":        Markdown,
	"manifest.json":   Manifest,
	"package.json":    JSON,
	"manifest.webmanifest": Manifest,
}

// extensionTags maps a lowercased extension (without the leading dot) to a
// tag. Several dissimilar languages are folded onto "python" because its
// regex-bucket rules are close enough to be useful without a dedicated rule
// set per language. See DESIGN.md's Open Question note: do not change this
// mapping silently, since it directly changes which catalog rules apply to
// a given file.
var extensionTags = map[string]string{
	"md":    Markdown,
	"mdx":   Markdown,
	"json":  JSON,
	"jsonc": JSON,

	"py":  Python,
	"pyi": Python,
	// Folded onto the python bucket; no dedicated rule set for these yet.
	"rs":    Python,
	"java":  Python,
	"c":     Python,
	"h":     Python,
	"cc":    Python,
	"cpp":   Python,
	"cxx":   Python,
	"hpp":   Python,
	"rb":    Python,
	"go":    Python,
	"php":   Python,
	"cs":    Python,
	"swift": Python,
	"kt":    Python,

	"ts":  TypeScript,
	"tsx": TypeScript,

	"js":  JavaScript,
	"jsx": JavaScript,
	"mjs": JavaScript,
	"cjs": JavaScript,

	"sh":   Bash,
	"bash": Bash,
	"zsh":  Bash,

	"exe": Binary,
	"dll": Binary,
	"so":  Binary,
	"bin": Binary,
}

// Detect classifies path by basename first, then extension, defaulting to
// Text when neither matches.
func Detect(path string) string {
	base := filepath.Base(path)
	if tag, ok := basenameOverrides[base]; ok {
		return tag
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if tag, ok := extensionTags[ext]; ok {
		return tag
	}

	return Text
}
