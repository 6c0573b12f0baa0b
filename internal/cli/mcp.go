package cli

import (
	"fmt"
	"os"
	goruntime "runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/agentwarden/warden/internal/mcpvfs"
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanpipeline"
	"github.com/agentwarden/warden/internal/targets"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Scan a Model Context Protocol server's tools, prompts, and resources",
}

var mcpRemoteCmd = &cobra.Command{
	Use:   "remote <url>",
	Short: "Connect to a live MCP server over HTTP and scan its surface",
	Args:  cobra.ExactArgs(1),
	RunE:  runMCPRemote,
}

var mcpStaticCmd = &cobra.Command{
	Use:   "static",
	Short: "Scan MCP tools/prompts/resources/instructions from local files, with no live connection",
	Args:  cobra.NoArgs,
	RunE:  runMCPStatic,
}

var mcpConfigCmd = &cobra.Command{
	Use:   "config <path>",
	Short: "Scan every MCP server declared in a client config file (e.g. Claude Desktop, Cursor)",
	Args:  cobra.ExactArgs(1),
	RunE:  runMCPConfig,
}

var mcpKnownConfigsCmd = &cobra.Command{
	Use:   "known-configs",
	Short: "List the well-known MCP client config file locations for this OS",
	Args:  cobra.NoArgs,
	RunE:  runMCPKnownConfigs,
}

func init() {
	mcpCmd.AddCommand(mcpRemoteCmd, mcpStaticCmd, mcpConfigCmd, mcpKnownConfigsCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runMCPRemote connects live, per --bearer-token/--header/--read-resources/
// --mime-types/--max-resource-bytes, and runs the shared scan/report path.
func runMCPRemote(cmd *cobra.Command, args []string) error {
	url := args[0]

	cfg, err := resolveConfig(cmd, ".")
	if err != nil {
		return err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return fatalf("%v", err)
	}
	defer rt.closeCache()

	b, err := targets.MCP(cmd.Context(), targets.MCPOptions{
		Client:          cfg.MCPClientConfig(url, globalFlags.BearerToken, globalFlags.HeaderMap()),
		ReadResources:   globalFlags.ReadResources,
		MaxResourceSize: globalFlags.MaxResourceSize,
		MimeAllowlist:   globalFlags.MimeTypes,
	})
	if err != nil {
		return fatalf("%v", err)
	}

	return runBuiltTargets(cmd, rt, []targets.Built{b})
}

// runMCPStatic reads --tools/--prompts/--resources/--instructions files
// instead of querying a live server, virtualizing them the same way a live
// connection's responses would be.
func runMCPStatic(cmd *cobra.Command, args []string) error {
	if globalFlags.ToolsFile == "" && globalFlags.PromptsFile == "" &&
		globalFlags.ResourcesFile == "" && globalFlags.InstructionsFile == "" {
		return fatalf("mcp static requires at least one of --tools/--prompts/--resources/--instructions")
	}

	cfg, err := resolveConfig(cmd, ".")
	if err != nil {
		return err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return fatalf("%v", err)
	}
	defer rt.closeCache()

	tools, err := decodeStaticTools(globalFlags.ToolsFile)
	if err != nil {
		return fatalf("%v", err)
	}
	prompts, err := decodeStaticPrompts(globalFlags.PromptsFile)
	if err != nil {
		return fatalf("%v", err)
	}
	resources, err := decodeStaticResources(globalFlags.ResourcesFile)
	if err != nil {
		return fatalf("%v", err)
	}
	instructions, err := readStaticInstructions(globalFlags.InstructionsFile)
	if err != nil {
		return fatalf("%v", err)
	}

	files := mcpvfs.Virtualize(mcpvfs.Input{
		Host:         "static",
		Instructions: instructions,
		Tools:        tools,
		Prompts:      prompts,
		Resources:    resources,
	})

	built := targets.Built{
		Model: model.Target{
			Kind: model.TargetMCP,
			Name: "static",
			Path: "static",
			Meta: model.TargetMeta{MCP: &model.MCPMeta{
				ToolCount:       len(tools),
				PromptCount:     len(prompts),
				ResourceCount:   len(resources),
				HasInstructions: strings.TrimSpace(instructions) != "",
			}},
		},
		Scan: scanpipeline.Target{Name: "static", PreloadedFiles: files},
	}

	return runBuiltTargets(cmd, rt, []targets.Built{built})
}

// runMCPConfig parses a known MCP client config file's declared servers and
// scans each one live.
func runMCPConfig(cmd *cobra.Command, args []string) error {
	servers, err := parseMCPClientConfig(args[0])
	if err != nil {
		return fatalf("%v", err)
	}
	if len(servers) == 0 {
		return fatalf("no MCP servers declared in %s", args[0])
	}

	cfg, err := resolveConfig(cmd, ".")
	if err != nil {
		return err
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return fatalf("%v", err)
	}
	defer rt.closeCache()

	var built []targets.Built
	for name, server := range servers {
		b, err := targets.MCP(cmd.Context(), targets.MCPOptions{
			Name:   name,
			Client: cfg.MCPClientConfig(server.URL, server.BearerToken, server.Headers),
		})
		if err != nil {
			built = append(built, targets.Built{Model: model.Target{Kind: model.TargetMCP, Name: name, Path: server.URL, Error: err.Error()}})
			continue
		}
		built = append(built, b)
	}

	return runBuiltTargets(cmd, rt, built)
}

// runMCPKnownConfigs prints the well-known MCP client config file locations
// for the current OS. This is a static reference table, not live filesystem
// enumeration: per-platform path discovery is left to the operator, the
// same scoping `--system`'s browser/IDE root discovery uses.
func runMCPKnownConfigs(cmd *cobra.Command, args []string) error {
	for _, c := range knownMCPConfigs() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", c.client, c.path)
	}
	return nil
}

type knownConfig struct {
	client string
	path   string
}

func knownMCPConfigs() []knownConfig {
	home, _ := os.UserHomeDir()
	switch goruntime.GOOS {
	case "darwin":
		return []knownConfig{
			{"Claude Desktop", home + "/Library/Application Support/Claude/claude_desktop_config.json"},
			{"Cursor", home + "/.cursor/mcp.json"},
			{"VS Code", home + "/Library/Application Support/Code/User/mcp.json"},
			{"Windsurf", home + "/.codeium/windsurf/mcp_config.json"},
		}
	case "windows":
		return []knownConfig{
			{"Claude Desktop", `%APPDATA%\Claude\claude_desktop_config.json`},
			{"Cursor", home + `\.cursor\mcp.json`},
			{"VS Code", `%APPDATA%\Code\User\mcp.json`},
			{"Windsurf", home + `\.codeium\windsurf\mcp_config.json`},
		}
	default:
		return []knownConfig{
			{"Claude Desktop", home + "/.config/Claude/claude_desktop_config.json"},
			{"Cursor", home + "/.cursor/mcp.json"},
			{"VS Code", home + "/.config/Code/User/mcp.json"},
			{"Windsurf", home + "/.codeium/windsurf/mcp_config.json"},
		}
	}
}

// mcpServerEntry is one server declared in a client config file.
type mcpServerEntry struct {
	URL         string
	BearerToken string
	Headers     map[string]string
}

// parseMCPClientConfig reads a client config file shaped like Claude
// Desktop's / Cursor's mcp.json: {"mcpServers": {"name": {"url": "...",
// "headers": {...}}}}. A server entry with no "url" is skipped; warden only
// scans HTTP-reachable servers, not stdio-launched ones.
func parseMCPClientConfig(path string) (map[string]mcpServerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc struct {
		MCPServers map[string]struct {
			URL     string            `json:"url"`
			Headers map[string]string `json:"headers"`
			Env     map[string]string `json:"env"`
		} `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	out := make(map[string]mcpServerEntry, len(doc.MCPServers))
	for name, s := range doc.MCPServers {
		if s.URL == "" {
			continue
		}
		entry := mcpServerEntry{URL: s.URL, Headers: s.Headers}
		if token, ok := s.Headers["Authorization"]; ok {
			entry.BearerToken = strings.TrimPrefix(token, "Bearer ")
		}
		out[name] = entry
	}
	return out, nil
}

func decodeStaticTools(path string) ([]mcpvfs.Tool, error) {
	if path == "" {
		return nil, nil
	}
	var raw []struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		InputSchema json.RawMessage `json:"inputSchema"`
	}
	if err := readJSONFile(path, &raw); err != nil {
		return nil, err
	}
	out := make([]mcpvfs.Tool, 0, len(raw))
	for _, t := range raw {
		out = append(out, mcpvfs.Tool{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}
	return out, nil
}

func decodeStaticPrompts(path string) ([]mcpvfs.Prompt, error) {
	if path == "" {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := readJSONFile(path, &raw); err != nil {
		return nil, err
	}
	out := make([]mcpvfs.Prompt, 0, len(raw))
	for _, item := range raw {
		var p struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		out = append(out, mcpvfs.Prompt{Name: p.Name, Description: p.Description, Raw: item})
	}
	return out, nil
}

func decodeStaticResources(path string) ([]mcpvfs.Resource, error) {
	if path == "" {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := readJSONFile(path, &raw); err != nil {
		return nil, err
	}
	out := make([]mcpvfs.Resource, 0, len(raw))
	for _, item := range raw {
		var r struct {
			URI      string `json:"uri"`
			Name     string `json:"name"`
			MimeType string `json:"mimeType"`
		}
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		out = append(out, mcpvfs.Resource{URI: r.URI, Name: r.Name, MimeType: r.MimeType, Raw: item})
	}
	return out, nil
}

func readStaticInstructions(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// runBuiltTargets drives the pipeline over a pre-built target list and
// renders the result, shared by the scan commands and the mcp subcommands
// other than known-configs.
func runBuiltTargets(cmd *cobra.Command, rt *runtime, built []targets.Built) error {
	scanTargets := make([]scanpipeline.Target, 0, len(built))
	modelTargets := make([]model.Target, 0, len(built))
	names := make([]string, 0, len(built))
	var warnings []string
	for _, b := range built {
		scanTargets = append(scanTargets, b.Scan)
		modelTargets = append(modelTargets, b.Model)
		names = append(names, b.Model.Name)
		warnings = append(warnings, b.Warnings...)
	}

	reporter := newProgressReporter(cmd.Name(), names)
	if reporter != nil {
		reporter.Start()
	}

	ctx, stop := scanpipeline.WithSignalCancel(cmd.Context(), rt.closeCache)
	defer stop()

	runID := uuid.NewString()
	result, err := rt.run(ctx, runID, scanTargets, modelTargets, progressReporterOrNil(reporter))

	if reporter != nil {
		reporter.Finish(err)
	}
	if err != nil {
		return fatalf("%v", err)
	}
	result.Warnings = append(warnings, result.Warnings...)

	return finishScan(cmd, rt, result)
}
