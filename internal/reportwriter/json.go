package reportwriter

import (
	"io"
	"sort"

	"github.com/segmentio/encoding/json"

	"github.com/agentwarden/warden/internal/model"
)

// JSONWriter renders the JSON report envelope: summary, detected (the set
// of target kinds/sources/rules/categories actually seen, plus an optional
// mcp block), targets, and findings.
type JSONWriter struct{}

type jsonEnvelope struct {
	Summary  jsonSummary  `json:"summary"`
	Detected jsonDetected `json:"detected"`
	Targets  []jsonTarget `json:"targets"`
	Findings []jsonFinding `json:"findings"`
}

type jsonSummary struct {
	ScannedFiles int            `json:"scannedFiles"`
	ElapsedMS    int64          `json:"elapsedMs"`
	FindingCount int            `json:"findingCount"`
	Severities   map[string]int `json:"severities"`
}

type jsonDetected struct {
	TargetKinds []string         `json:"targetKinds"`
	Sources     []string         `json:"sources"`
	Rules       []string         `json:"rules"`
	Categories  []string         `json:"categories"`
	MCP         *jsonMCPDetected `json:"mcp,omitempty"`
}

type jsonMCPDetected struct {
	Servers int            `json:"servers"`
	Objects jsonMCPObjects `json:"objects"`
}

type jsonMCPObjects struct {
	Tools        int `json:"tools"`
	Prompts      int `json:"prompts"`
	Resources    int `json:"resources"`
	Instructions int `json:"instructions"`
}

type jsonTarget struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

type jsonFinding struct {
	ID               string   `json:"id"`
	RuleID           string   `json:"ruleId"`
	Severity         string   `json:"severity"`
	Message          string   `json:"message"`
	File             string   `json:"file"`
	Line             int      `json:"line,omitempty"`
	Category         string   `json:"category,omitempty"`
	Remediation      string   `json:"remediation,omitempty"`
	Source           string   `json:"source"`
	Confidence       *float64 `json:"confidence,omitempty"`
	ConfidenceReason string   `json:"confidenceReason,omitempty"`
}

func (JSONWriter) Write(w io.Writer, result model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildEnvelope(result))
}

func buildEnvelope(result model.ScanResult) jsonEnvelope {
	severities := map[string]int{}
	for sev, count := range result.SeveritySummary() {
		severities[sev.String()] = count
	}

	targetKinds := map[string]bool{}
	var mcpServers, mcpTools, mcpPrompts, mcpResources, mcpInstructions int
	targets := make([]jsonTarget, 0, len(result.Targets))
	for _, t := range result.Targets {
		targetKinds[string(t.Kind)] = true
		targets = append(targets, jsonTarget{Kind: string(t.Kind), Name: t.Name, Path: t.Path, Error: t.Error})
		if t.Kind == model.TargetMCP && t.Meta.MCP != nil {
			mcpServers++
			mcpTools += t.Meta.MCP.ToolCount
			mcpPrompts += t.Meta.MCP.PromptCount
			mcpResources += t.Meta.MCP.ResourceCount
			if t.Meta.MCP.HasInstructions {
				mcpInstructions++
			}
		}
	}

	sources := map[string]bool{}
	rules := map[string]bool{}
	categories := map[string]bool{}
	findings := make([]jsonFinding, 0, len(result.Findings))
	for _, f := range result.Findings {
		sources[string(f.Source)] = true
		rules[f.RuleID] = true
		if f.Category != "" {
			categories[f.Category] = true
		}
		findings = append(findings, jsonFinding{
			ID:               f.ID,
			RuleID:           f.RuleID,
			Severity:         f.Severity.String(),
			Message:          f.Message,
			File:             f.File,
			Line:             f.Line,
			Category:         f.Category,
			Remediation:      f.Remediation,
			Source:           string(f.Source),
			Confidence:       f.Confidence,
			ConfidenceReason: f.ConfidenceReason,
		})
	}

	detected := jsonDetected{
		TargetKinds: sortedKeys(targetKinds),
		Sources:     sortedKeys(sources),
		Rules:       sortedKeys(rules),
		Categories:  sortedKeys(categories),
	}
	if mcpServers > 0 {
		detected.MCP = &jsonMCPDetected{
			Servers: mcpServers,
			Objects: jsonMCPObjects{
				Tools:        mcpTools,
				Prompts:      mcpPrompts,
				Resources:    mcpResources,
				Instructions: mcpInstructions,
			},
		}
	}

	return jsonEnvelope{
		Summary: jsonSummary{
			ScannedFiles: result.ScannedFiles,
			ElapsedMS:    result.ElapsedMS,
			FindingCount: len(result.Findings),
			Severities:   severities,
		},
		Detected: detected,
		Targets:  targets,
		Findings: findings,
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
