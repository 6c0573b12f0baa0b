package reportwriter

import (
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/agentwarden/warden/internal/model"
)

const (
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifVersion   = "2.1.0"
	sarifToolName  = "Security Scanner"
)

// SARIFWriter renders a ScanResult as a single-run SARIF 2.1.0 log.
type SARIFWriter struct{}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func (SARIFWriter) Write(w io.Writer, result model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildSARIF(result))
}

func buildSARIF(result model.ScanResult) sarifLog {
	seenRules := map[string]bool{}
	var rules []sarifRule
	results := make([]sarifResult, 0, len(result.Findings))

	for _, f := range result.Findings {
		if !seenRules[f.RuleID] {
			seenRules[f.RuleID] = true
			rules = append(rules, sarifRule{ID: f.RuleID})
		}
		results = append(results, sarifResult{
			RuleID:    f.RuleID,
			Level:     sarifLevel(f.Severity),
			Message:   sarifMessage{Text: f.Message},
			Locations: []sarifLocation{sarifLocationFor(f)},
		})
	}

	return sarifLog{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: sarifToolName, Rules: rules}},
			Results: results,
		}},
	}
}

// sarifLevel maps CRITICAL/HIGH to "error", MEDIUM to "warning", and
// everything else (LOW) to "note".
func sarifLevel(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func sarifLocationFor(f model.Finding) sarifLocation {
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: f.File},
		},
	}
	if f.HasLine() {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: f.Line}
	}
	return loc
}
