// Package mcpvfs projects an MCP server's tools, prompts, resources, and
// instructions into a synthetic file tree under mcp://<host>/..., so the
// same scan engine that walks real directories can scan a remote server's
// surface unchanged.
package mcpvfs

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/agentwarden/warden/internal/filetype"
	"github.com/agentwarden/warden/internal/pathwalk"
)

// Tool is the virtualizer's view of an MCP tool; InputSchema is the raw
// JSON Schema object as returned by tools/list.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Prompt is the virtualizer's view of an MCP prompt.
type Prompt struct {
	Name        string
	Description string
	Raw         json.RawMessage // the full prompts/list entry, re-emitted verbatim as prompt.json
}

// Resource is the virtualizer's view of an MCP resource. Content is empty
// unless the caller read it (gated by --read-resources upstream).
type Resource struct {
	URI         string
	Name        string
	MimeType    string
	Raw         json.RawMessage // the full resources/list entry, re-emitted as metadata.json
	Content     string
	HasContent  bool
}

// Input bundles everything Virtualize needs for one MCP server.
type Input struct {
	Host         string // URL host, or a sanitized label for non-URL servers
	Instructions string
	Tools        []Tool
	Prompts      []Prompt
	Resources    []Resource
}

// Virtualize synthesizes the virtual file tree for one MCP server per
// spec.md's layout: instructions.md, tools/<safe>/{description.md,
// schema.json,tool.json}, prompts/<safe>/{description.md,prompt.json},
// resources/<b64url(uri)>/{metadata.json,content.<ext>}.
func Virtualize(in Input) []pathwalk.FileDescriptor {
	host := sanitizeHost(in.Host)
	base := "mcp://" + host

	var out []pathwalk.FileDescriptor

	if strings.TrimSpace(in.Instructions) != "" {
		out = append(out, makeFile(base+"/instructions.md", in.Instructions))
	}

	for _, tool := range in.Tools {
		safe := SafeSegment(tool.Name)
		dir := fmt.Sprintf("%s/tools/%s", base, safe)

		out = append(out, makeFile(dir+"/description.md", tool.Description))

		schema := tool.InputSchema
		if len(schema) == 0 {
			schema = json.RawMessage("{}")
		}
		out = append(out, makeFile(dir+"/schema.json", prettyJSON(schema)))

		toolJSON, _ := json.MarshalIndent(map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": json.RawMessage(schema),
		}, "", "  ")
		out = append(out, makeFile(dir+"/tool.json", string(toolJSON)))
	}

	for _, prompt := range in.Prompts {
		safe := SafeSegment(prompt.Name)
		dir := fmt.Sprintf("%s/prompts/%s", base, safe)

		out = append(out, makeFile(dir+"/description.md", prompt.Description))

		raw := prompt.Raw
		if len(raw) == 0 {
			raw = json.RawMessage("{}")
		}
		out = append(out, makeFile(dir+"/prompt.json", prettyJSON(raw)))
	}

	for _, res := range in.Resources {
		safe := URLSafeBase64(res.URI)
		dir := fmt.Sprintf("%s/resources/%s", base, safe)

		meta := res.Raw
		if len(meta) == 0 {
			metaBytes, _ := json.MarshalIndent(map[string]any{
				"uri":      res.URI,
				"name":     res.Name,
				"mimeType": res.MimeType,
			}, "", "  ")
			meta = metaBytes
		}
		out = append(out, makeFile(dir+"/metadata.json", prettyJSON(meta)))

		if res.HasContent {
			ext := extensionForMIME(res.MimeType)
			out = append(out, makeFile(fmt.Sprintf("%s/content.%s", dir, ext), res.Content))
		}
	}

	return out
}

func makeFile(path, content string) pathwalk.FileDescriptor {
	return pathwalk.FileDescriptor{
		Path:     path,
		AbsPath:  path,
		FileType: filetype.Detect(path),
		Size:     int64(len(content)),
		Content:  content,
	}
}

// sanitizeHost derives a host segment from a URL (its Host component) or,
// failing that, a sanitized label so the mcp:// namespace never contains an
// unsafe path character.
func sanitizeHost(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return SafeSegment(u.Host)
	}
	return SafeSegment(raw)
}

func prettyJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// extensionForMIME maps a resource's MIME type to the content.<ext> suffix;
// an empty type maps to txt, and unrecognized types fall back to a generic
// binary extension.
func extensionForMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(strings.Split(mime, ";")[0]))
	switch mime {
	case "application/json":
		return "json"
	case "text/markdown":
		return "md"
	case "text/html":
		return "html"
	case "text/plain", "":
		return "txt"
	case "application/javascript", "text/javascript":
		return "js"
	case "application/x-yaml", "text/yaml":
		return "yaml"
	default:
		return "bin"
	}
}
