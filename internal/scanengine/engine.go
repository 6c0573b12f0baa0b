package scanengine

import (
	"time"

	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/rulecatalog"
)

// Defaults for the engine's match-loop bounds.
const (
	DefaultRegexTimeoutMS          = 1000
	DefaultCumulativeMultiplier    = 5
	DefaultMaxFindingsPerRulePerFile = 20
)

// Options configures a single Engine's bounds. All fields have sane
// zero-value-safe defaults applied by NewEngine.
type Options struct {
	RegexTimeout       time.Duration
	CumulativeBudget   time.Duration // per-pattern cumulative cap (default 5x RegexTimeout)
	MaxFindingsPerRule int
}

// Engine runs the indexed rule catalog against file content.
type Engine struct {
	idx  *rulecatalog.IndexedRuleEngine
	opts Options
}

// NewEngine constructs an Engine with the given rule index and options,
// filling in defaults for any zero-valued option.
func NewEngine(idx *rulecatalog.IndexedRuleEngine, opts Options) *Engine {
	if opts.RegexTimeout <= 0 {
		opts.RegexTimeout = DefaultRegexTimeoutMS * time.Millisecond
	}
	if opts.CumulativeBudget <= 0 {
		opts.CumulativeBudget = DefaultCumulativeMultiplier * opts.RegexTimeout
	}
	if opts.MaxFindingsPerRule <= 0 {
		opts.MaxFindingsPerRule = DefaultMaxFindingsPerRulePerFile
	}
	return &Engine{idx: idx, opts: opts}
}

// ScanFileResult is a single file's signature-matching output (heuristic
// findings come separately from RunHeuristics).
type ScanFileResult struct {
	Findings []model.Finding
	Warnings []string
}

// ScanContent runs every rule indexed for fileType against content, honoring
// the ReDoS timeout, cumulative budget, zero-length-match cursor advance,
// exclude patterns, and per-rule finding cap.
func (e *Engine) ScanContent(path, content, fileType string) ScanFileResult {
	rules := e.idx.RulesFor(fileType)
	li := BuildLineIndex(content)

	var out ScanFileResult

	for _, rule := range rules {
		count := 0
	patternLoop:
		for _, cp := range rule.Patterns {
			cp.Compiled.MatchTimeout = e.opts.RegexTimeout

			deadline := time.Now().Add(e.opts.CumulativeBudget)
			pos := 0

			for pos <= len(content) {
				if time.Now().After(deadline) {
					out.Warnings = append(out.Warnings, "regex timeout: "+rule.ID+" on "+path)
					break patternLoop
				}
				if count >= e.opts.MaxFindingsPerRule {
					break patternLoop
				}

				m, err := cp.Compiled.FindStringMatchStartingAt(content, pos)
				if err != nil {
					out.Warnings = append(out.Warnings, "regex timeout: "+rule.ID+" on "+path)
					break patternLoop
				}
				if m == nil {
					break
				}

				matched := m.String()
				if excluded(rule, matched) {
					pos = advance(m.Index, m.Length)
					continue
				}

				line := li.LineAt(m.Index)
				out.Findings = append(out.Findings, model.Finding{
					RuleID:      rule.ID,
					Severity:    rule.Severity,
					Message:     findingMessage(rule, matched),
					File:        path,
					Line:        line,
					Category:    rule.Category,
					Remediation: rule.Remediation,
					Source:      model.SourceSignature,
					MatchLength: len(matched),
					FileType:    fileType,
				})
				count++

				pos = advance(m.Index, m.Length)
			}
		}
	}

	return out
}

func advance(index, length int) int {
	if length <= 0 {
		return index + 1
	}
	return index + length
}

func excluded(rule model.Rule, matched string) bool {
	for _, ex := range rule.ExcludePatterns {
		if m, err := ex.Compiled.FindStringMatch(matched); err == nil && m != nil {
			return true
		}
	}
	return false
}

func findingMessage(rule model.Rule, matched string) string {
	if rule.Description != "" {
		return rule.Description
	}
	return rule.ID + " matched: " + truncate(matched, 120)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
