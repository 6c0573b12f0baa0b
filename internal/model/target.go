package model

// TargetKind enumerates the logical scan-unit kinds.
type TargetKind string

const (
	TargetSkill        TargetKind = "skill"
	TargetExtension    TargetKind = "extension"
	TargetIDEExtension TargetKind = "ide-extension"
	TargetMCP          TargetKind = "mcp"
	TargetPath         TargetKind = "path"
)

// TargetMeta is an open sum type for the kind-specific metadata a Target
// carries. Exactly one of the typed fields is populated, matching the
// Target's Kind; Extras carries the handful of genuinely open-ended fields
// that don't warrant a dedicated struct field, while still serializing with
// an open JSON shape.
type TargetMeta struct {
	Browser *BrowserMeta   `json:"browser,omitempty"`
	IDE     *IDEMeta       `json:"ide,omitempty"`
	MCP     *MCPMeta       `json:"mcp,omitempty"`
	Path    *PathMeta      `json:"path,omitempty"`
	Extras  map[string]any `json:"extras,omitempty"`
}

// BrowserMeta describes a browser-extension target.
type BrowserMeta struct {
	Browser string // "chrome", "firefox", "edge", ...
	Profile string
}

// IDEMeta describes an IDE-extension target.
type IDEMeta struct {
	IDE string // "vscode", "jetbrains", "zed"
}

// MCPMeta describes an MCP server target.
type MCPMeta struct {
	URL             string
	BearerToken     string            `json:"-"`
	Headers         map[string]string `json:"-"`
	ReadResources   bool
	MaxResourceSize int64
	MimeAllowlist   []string

	// Object counts, filled in by the target builder once the server has
	// been connected to, for the JSON report's detected.mcp.objects block.
	ToolCount       int
	PromptCount     int
	ResourceCount   int
	HasInstructions bool
}

// PathMeta describes a plain filesystem-path target.
type PathMeta struct {
	RootPath string
}

// Target is a logical scan unit; Path may be a filesystem directory or an
// MCP URL.
type Target struct {
	Kind TargetKind
	Name string
	Path string
	Meta TargetMeta

	// Error records a per-target failure (e.g. an MCP connection failure in
	// a multi-target scan) without aborting the rest of the run.
	Error string `json:"error,omitempty"`
}
