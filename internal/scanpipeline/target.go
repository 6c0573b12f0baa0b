package scanpipeline

import "github.com/agentwarden/warden/internal/pathwalk"

// Target is a single scan root: a skill bundle, browser extension, IDE
// extension directory, or a synthesized MCP virtual file tree. Name appears
// in summary output; Root is passed to the walker verbatim (a real
// filesystem path, or a synthetic one for virtual targets whose files are
// supplied directly via PreloadedFiles).
type Target struct {
	Name          string
	Root          string
	Ignorer       pathwalk.Ignorer
	PatternFilter *pathwalk.PatternFilter

	// PreloadedFiles bypasses the walker entirely -- used for MCP virtual
	// file trees, which are synthesized in memory rather than read from
	// disk. When non-nil, Root/Ignorer/PatternFilter are ignored.
	PreloadedFiles []pathwalk.FileDescriptor
}
