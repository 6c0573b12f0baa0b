package targets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/agentwarden/warden/internal/mcpclient"
	"github.com/agentwarden/warden/internal/mcpvfs"
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanpipeline"
)

// DefaultMaxResourceBytes caps how much of a single MCP resource's content
// is read and fed to the scan engine.
const DefaultMaxResourceBytes = 1 << 20 // 1 MiB

// MCPOptions configures an MCP target build.
type MCPOptions struct {
	// Name overrides the target's display name; defaults to the server's
	// URL host.
	Name string

	Client mcpclient.Config

	ReadResources   bool
	MaxResourceSize int64 // bytes; 0 means DefaultMaxResourceBytes
	MimeAllowlist   []string
}

// MCP connects to an MCP server, harvests its tools/prompts/resources/
// instructions, and virtualizes them into a synthetic file tree the pipeline
// scans like any other target. A hard failure to list tools aborts the
// build; a failure to list prompts or resources (a server that only
// implements part of the surface) degrades to an empty list plus a warning,
// since neither method is required for a server to be worth scanning.
func MCP(ctx context.Context, opts MCPOptions) (Built, error) {
	maxBytes := opts.MaxResourceSize
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResourceBytes
	}

	client := mcpclient.New(opts.Client)

	var instructions string
	if info, ok := client.Initialize(ctx); ok {
		instructions = info.Instructions
	}

	var warnings []string

	toolsRaw, err := client.ListPage(ctx, "tools/list", "tools")
	if err != nil {
		return Built{}, fmt.Errorf("targets: listing tools on %s: %w", opts.Client.BaseURL, err)
	}
	tools := decodeTools(toolsRaw)

	promptsRaw, err := client.ListPage(ctx, "prompts/list", "prompts")
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("listing prompts on %s: %v", opts.Client.BaseURL, err))
		promptsRaw = nil
	}
	prompts := decodePrompts(promptsRaw)

	resourcesRaw, err := client.ListPage(ctx, "resources/list", "resources")
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("listing resources on %s: %v", opts.Client.BaseURL, err))
		resourcesRaw = nil
	}
	resources := decodeResources(resourcesRaw)

	if opts.ReadResources {
		for i := range resources {
			if !mimeAllowed(resources[i].MimeType, opts.MimeAllowlist) {
				continue
			}
			content, err := client.ReadResource(ctx, resources[i].URI, int(maxBytes))
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("reading resource %s: %v", resources[i].URI, err))
				continue
			}
			resources[i].Content = content
			resources[i].HasContent = true
		}
	}

	files := mcpvfs.Virtualize(mcpvfs.Input{
		Host:         opts.Client.BaseURL,
		Instructions: instructions,
		Tools:        tools,
		Prompts:      prompts,
		Resources:    resources,
	})

	name := opts.Name
	if name == "" {
		name = hostLabel(opts.Client.BaseURL)
	}

	meta := &model.MCPMeta{
		URL:             opts.Client.BaseURL,
		BearerToken:     opts.Client.BearerToken,
		Headers:         opts.Client.Headers,
		ReadResources:   opts.ReadResources,
		MaxResourceSize: maxBytes,
		MimeAllowlist:   opts.MimeAllowlist,
		ToolCount:       len(tools),
		PromptCount:     len(prompts),
		ResourceCount:   len(resources),
		HasInstructions: strings.TrimSpace(instructions) != "",
	}

	return Built{
		Model: model.Target{
			Kind: model.TargetMCP,
			Name: name,
			Path: opts.Client.BaseURL,
			Meta: model.TargetMeta{MCP: meta},
		},
		Scan: scanpipeline.Target{
			Name:           name,
			PreloadedFiles: files,
		},
		Warnings: warnings,
	}, nil
}

// hostLabel derives a display name from a server URL, falling back to the
// raw string when it doesn't parse as a URL with a host.
func hostLabel(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return raw
}

func mimeAllowed(mime string, allowlist []string) bool {
	if len(allowlist) == 0 {
		return true
	}
	mime = strings.ToLower(strings.TrimSpace(strings.Split(mime, ";")[0]))
	for _, allowed := range allowlist {
		if strings.ToLower(strings.TrimSpace(allowed)) == mime {
			return true
		}
	}
	return false
}

func decodeTools(raw []json.RawMessage) []mcpvfs.Tool {
	out := make([]mcpvfs.Tool, 0, len(raw))
	for _, item := range raw {
		var t struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			InputSchema json.RawMessage `json:"inputSchema"`
		}
		if err := json.Unmarshal(item, &t); err != nil {
			continue
		}
		out = append(out, mcpvfs.Tool{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}
	return out
}

func decodePrompts(raw []json.RawMessage) []mcpvfs.Prompt {
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
	return out
}

func decodeResources(raw []json.RawMessage) []mcpvfs.Resource {
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
	return out
}
