package fixapply

import (
	"path/filepath"
	"strings"
)

// CommentStyle describes how to comment out a line for one file extension.
// Exactly one of Prefix or (WrapOpen, WrapClose) is set; None means no safe
// comment convention exists for this extension (e.g. JSON has none).
type CommentStyle struct {
	Prefix    string
	WrapOpen  string
	WrapClose string
	None      bool
}

var extensionStyles = map[string]CommentStyle{
	"py":   {Prefix: "#"},
	"pyi":  {Prefix: "#"},
	"sh":   {Prefix: "#"},
	"bash": {Prefix: "#"},
	"zsh":  {Prefix: "#"},
	"yml":  {Prefix: "#"},
	"yaml": {Prefix: "#"},
	"rb":   {Prefix: "#"},
	"toml": {Prefix: "#"},

	"js":   {Prefix: "//"},
	"jsx":  {Prefix: "//"},
	"ts":   {Prefix: "//"},
	"tsx":  {Prefix: "//"},
	"mjs":  {Prefix: "//"},
	"cjs":  {Prefix: "//"},
	"go":   {Prefix: "//"},
	"java": {Prefix: "//"},
	"c":    {Prefix: "//"},
	"h":    {Prefix: "//"},
	"cc":   {Prefix: "//"},
	"cpp":  {Prefix: "//"},
	"rs":   {Prefix: "//"},
	"cs":   {Prefix: "//"},
	"swift": {Prefix: "//"},
	"kt":   {Prefix: "//"},
	"php":  {Prefix: "//"},

	"md":  {WrapOpen: "<!--", WrapClose: "-->"},
	"mdx": {WrapOpen: "<!--", WrapClose: "-->"},

	"json":  {None: true},
	"jsonc": {None: true},
}

// StyleForPath selects a CommentStyle from path's extension. An unknown
// extension falls back to None, since silently guessing wrong risks
// corrupting a file's syntax.
func StyleForPath(path string) CommentStyle {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if style, ok := extensionStyles[ext]; ok {
		return style
	}
	return CommentStyle{None: true}
}

// AlreadyCommented reports whether line (the content after leading
// whitespace) already carries this style's comment marker.
func (s CommentStyle) AlreadyCommented(trimmed string) bool {
	switch {
	case s.Prefix != "":
		return strings.HasPrefix(trimmed, s.Prefix)
	case s.WrapOpen != "":
		return strings.HasPrefix(trimmed, s.WrapOpen) && strings.HasSuffix(trimmed, s.WrapClose)
	default:
		return true
	}
}

// Apply comments out content (the line with its leading indent already
// stripped), returning the full replacement line including indent.
func (s CommentStyle) Apply(indent, content string) string {
	switch {
	case s.Prefix != "":
		return indent + s.Prefix + " " + content
	case s.WrapOpen != "":
		return indent + s.WrapOpen + " " + content + " " + s.WrapClose
	default:
		return indent + content
	}
}
