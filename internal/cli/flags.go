package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentwarden/warden/internal/model"
)

// GlobalFlags collects every persistent flag value parsed from the CLI,
// mirroring the teacher's FlagValues pattern: one struct populated by
// bindGlobalFlags, validated in PersistentPreRunE, and read by every
// subcommand instead of re-querying the flag set.
type GlobalFlags struct {
	Format       string
	JSONShortcut bool
	Output       string
	ReportDir    string
	ReportFormat []string
	FailOn       string
	FailOnAny    bool

	System         bool
	Extensions     bool
	IDEExtensions  bool
	SkillsDirs     []string
	ExtensionsDirs []string
	IDEExtDirs     []string
	FullDepth      bool

	UseBehavioral   bool
	EnableMeta      bool
	Fix             bool
	Save            bool
	Tag             string
	Notes           string
	CompareWith     string
	ShowConfidence  bool
	MinConfidence   float64
	TUI             bool
	WatchInterval   time.Duration

	BearerToken      string
	Headers          []string
	MCPScan          []string
	ReadResources    bool
	MimeTypes        []string
	MaxResourceSize  int64
	ToolsFile        string
	PromptsFile      string
	ResourcesFile    string
	InstructionsFile string
	Connect          string

	Verbose bool
	Quiet   bool
}

// bindGlobalFlags registers every persistent flag on cmd, bound to the
// package-level globalFlags struct that Cobra populates as it parses.
func bindGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()

	pf.StringVar(&globalFlags.Format, "format", "table", "output format: table, json, sarif")
	pf.BoolVar(&globalFlags.JSONShortcut, "json", false, "shorthand for --format json")
	pf.StringVarP(&globalFlags.Output, "output", "o", "", "write the report to a file instead of stdout")
	pf.StringVar(&globalFlags.ReportDir, "report-dir", "", "directory to write --report-format outputs into")
	pf.StringSliceVar(&globalFlags.ReportFormat, "report-format", nil, "extra report formats to write into --report-dir (json,html,csv)")
	pf.StringVar(&globalFlags.FailOn, "fail-on", "", "exit 2 if any finding meets this severity (LOW, MEDIUM, HIGH, CRITICAL)")
	pf.BoolVar(&globalFlags.FailOnAny, "fail-on-findings", false, "exit 2 if any finding at all was produced")

	pf.BoolVar(&globalFlags.System, "system", false, "include well-known system-wide scan roots")
	pf.BoolVar(&globalFlags.Extensions, "extensions", true, "scan browser extension targets")
	pf.BoolVar(&globalFlags.IDEExtensions, "ide-extensions", true, "scan IDE extension targets")
	pf.StringArrayVar(&globalFlags.SkillsDirs, "skills-dir", nil, "directory whose subdirectories are each scanned as a skill target (repeatable)")
	pf.StringArrayVar(&globalFlags.ExtensionsDirs, "extensions-dir", nil, "directory whose subdirectories are each scanned as a browser-extension target (repeatable)")
	pf.StringArrayVar(&globalFlags.IDEExtDirs, "ide-extensions-dir", nil, "directory whose subdirectories are each scanned as an IDE-extension target (repeatable)")
	pf.BoolVar(&globalFlags.FullDepth, "full-depth", false, "ignore .gitignore/.wardenignore and scan every file under each target")

	pf.BoolVar(&globalFlags.UseBehavioral, "use-behavioral", true, "run behavioral heuristics in addition to signature rules")
	pf.BoolVar(&globalFlags.EnableMeta, "enable-meta", true, "run meta-dedup and confidence scoring on findings")
	pf.BoolVar(&globalFlags.Fix, "fix", false, "comment out the offending line for every fixable finding")
	pf.BoolVar(&globalFlags.Save, "save", false, "persist this scan to the history store")
	pf.StringVar(&globalFlags.Tag, "tag", "", "tag attached to a --save'd scan")
	pf.StringVar(&globalFlags.Notes, "notes", "", "free-text notes attached to a --save'd scan")
	pf.StringVar(&globalFlags.CompareWith, "compare-with", "", "diff this scan's findings against a previously saved scan ID")
	pf.BoolVar(&globalFlags.ShowConfidence, "show-confidence", false, "show the confidence column in table output")
	pf.Float64Var(&globalFlags.MinConfidence, "min-confidence", 0, "drop findings below this confidence score (0.0-1.0)")
	pf.BoolVar(&globalFlags.TUI, "tui", true, "show a live progress view while scanning")
	pf.DurationVar(&globalFlags.WatchInterval, "interval", 5*time.Second, "re-scan interval for the watch command")

	pf.StringVar(&globalFlags.BearerToken, "bearer-token", "", "bearer token for an MCP server's Authorization header")
	pf.StringArrayVar(&globalFlags.Headers, "header", nil, `extra MCP request header "Key: Value" (repeatable)`)
	pf.StringSliceVar(&globalFlags.MCPScan, "scan", []string{"tools", "prompts", "resources", "instructions"}, "MCP object kinds to scan")
	pf.BoolVar(&globalFlags.ReadResources, "read-resources", false, "fetch and scan MCP resource contents, not just their listings")
	pf.StringSliceVar(&globalFlags.MimeTypes, "mime-types", nil, "MIME type allowlist for --read-resources")
	pf.Int64Var(&globalFlags.MaxResourceSize, "max-resource-bytes", 0, "cap on bytes read per MCP resource (0 = package default)")
	pf.StringVar(&globalFlags.ToolsFile, "tools", "", "path to a static JSON file of MCP tool listings")
	pf.StringVar(&globalFlags.PromptsFile, "prompts", "", "path to a static JSON file of MCP prompt listings")
	pf.StringVar(&globalFlags.ResourcesFile, "resources", "", "path to a static JSON file of MCP resource listings")
	pf.StringVar(&globalFlags.InstructionsFile, "instructions", "", "path to a static text file of MCP server instructions")
	pf.StringVar(&globalFlags.Connect, "connect", "", "MCP server URL (alternative to the positional form of 'mcp remote')")

	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress warnings, leaving only errors")

	pf.Int(scanconfigParallelWorkersFlag, 0, "override the pipeline's worker count (0 = auto)")
	pf.Int(scanconfigParallelThresholdFlag, 0, "file-count threshold that switches to the coarse concurrency tier")
	pf.String(scanconfigCacheDirFlag, "", "override the persisted cache's directory")
	pf.Int64(scanconfigMaxFileSizeFlag, 0, "override the maximum file size scanned, in bytes")
	pf.String(scanconfigStorageBackendFlag, "", "override the history storage backend: json or sqlite")
}

// These flags back the scanconfig.ConfigFlagBindings table and feed
// scanconfig.Resolve's CLIFlags layer directly via
// scanconfig.CollectChangedFlags, which parses each flag's typed pflag.Value
// itself -- they are registered with pf.Int/pf.String rather than a bound Go
// field because no command body reads them directly.
const (
	scanconfigParallelWorkersFlag   = "parallel-workers"
	scanconfigParallelThresholdFlag = "parallel-threshold"
	scanconfigCacheDirFlag          = "cache-dir"
	scanconfigMaxFileSizeFlag       = "max-file-size"
	scanconfigStorageBackendFlag    = "storage-backend"
)

// Validate checks global flag combinations that can't be expressed as a
// single pflag constraint.
func (g *GlobalFlags) Validate() error {
	if g.JSONShortcut {
		g.Format = "json"
	}

	switch strings.ToLower(g.Format) {
	case "table", "json", "sarif":
	default:
		return fmt.Errorf("--format: invalid value %q (allowed: table, json, sarif)", g.Format)
	}

	if g.FailOn != "" {
		if _, ok := model.ParseSeverity(g.FailOn); !ok {
			return fmt.Errorf("--fail-on: invalid severity %q", g.FailOn)
		}
	}

	if g.MinConfidence < 0 || g.MinConfidence > 1 {
		return fmt.Errorf("--min-confidence: must be between 0.0 and 1.0, got %v", g.MinConfidence)
	}

	if g.Verbose && g.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	return nil
}

// HeaderMap parses the repeated "Key: Value" --header flags into a map, per
// mcpclient.Config.Headers' shape. Malformed entries (no colon) are skipped.
func (g *GlobalFlags) HeaderMap() map[string]string {
	if len(g.Headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(g.Headers))
	for _, h := range g.Headers {
		k, v, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}
