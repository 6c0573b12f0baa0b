// Package rulecatalog parses the YAML rule catalog, compiles each pattern
// with regexp2 (for its native MatchTimeout and PCRE-flag support), and
// indexes rules by file type for fast lookup. Invalid entries are skipped
// rather than failing the whole load.
package rulecatalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/dlclark/regexp2"
	"go.yaml.in/yaml/v3"

	"github.com/agentwarden/warden/internal/model"
)

// rawRule is the YAML document shape.
type rawRule struct {
	ID              string   `yaml:"id"`
	Category        string   `yaml:"category"`
	Severity        string   `yaml:"severity"`
	Patterns        []string `yaml:"patterns"`
	FileTypes       []string `yaml:"file_types"`
	Description     string   `yaml:"description"`
	Remediation     string   `yaml:"remediation"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// LoadResult bundles the compiled rules, the rule-version hash of their raw
// YAML source, and the IDs of the rules Load dropped. A dropped rule is
// absent from Rules; no heuristic cross-check restores it.
type LoadResult struct {
	Rules       []model.Rule
	RuleVersion string
	Dropped     []string // rule IDs skipped for missing required fields, an unknown severity, or zero compiled patterns
}

// LoadFile reads and parses a YAML rule catalog file.
func LoadFile(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule catalog %s: %w", path, err)
	}
	return Load(data)
}

// Load parses raw YAML bytes into a LoadResult. Entries missing id,
// category, severity, a non-empty patterns list, or file_types, and entries
// with an unknown severity, are skipped silently; patterns that fail to
// compile are dropped per-pattern, and a rule left with zero compiled
// patterns is dropped entirely. Every skipped or dropped rule that has an
// ID is listed in Dropped. No rule is kept on account of a heuristic
// sharing its ID.
func Load(data []byte) (*LoadResult, error) {
	var raws []rawRule
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parsing rule catalog YAML: %w", err)
	}

	result := &LoadResult{RuleVersion: versionHash(data)}

	for _, raw := range raws {
		if raw.ID == "" || raw.Category == "" || raw.Severity == "" || len(raw.Patterns) == 0 || len(raw.FileTypes) == 0 {
			if raw.ID != "" {
				result.Dropped = append(result.Dropped, raw.ID)
			}
			continue
		}

		severity, ok := model.ParseSeverity(raw.Severity)
		if !ok {
			result.Dropped = append(result.Dropped, raw.ID)
			continue
		}

		rule := model.Rule{
			ID:          raw.ID,
			Category:    raw.Category,
			Severity:    severity,
			FileTypes:   raw.FileTypes,
			Description: raw.Description,
			Remediation: raw.Remediation,
		}

		for _, p := range raw.Patterns {
			if cp, err := compilePattern(p); err == nil {
				rule.Patterns = append(rule.Patterns, cp)
			}
		}
		for _, p := range raw.ExcludePatterns {
			if cp, err := compilePattern(p); err == nil {
				rule.ExcludePatterns = append(rule.ExcludePatterns, cp)
			}
		}

		if len(rule.Patterns) == 0 {
			// Inert with no patterns; dropped whether or not a heuristic uses the ID.
			result.Dropped = append(result.Dropped, rule.ID)
			continue
		}

		result.Rules = append(result.Rules, rule)
	}

	return result, nil
}

// compilePattern translates a leading/embedded (?i) PCRE flag into
// regexp2's RegexOptions.IgnoreCase and compiles with global-iteration
// semantics (regexp2 itself is find-next-match based, which naturally
// supports non-overlapping iteration via repeated FindNextMatch calls).
func compilePattern(source string) (model.CompiledPattern, error) {
	pattern := source
	opts := regexp2.None

	if strings.Contains(pattern, "(?i)") {
		pattern = strings.ReplaceAll(pattern, "(?i)", "")
		opts |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return model.CompiledPattern{}, err
	}

	return model.CompiledPattern{Source: source, Compiled: re}, nil
}

func versionHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
