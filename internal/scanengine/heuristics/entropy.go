// Package heuristics implements the behavioral detectors the scan engine
// runs alongside plain rule matching: entropy-based secret detection,
// supply-chain script inspection, extension-manifest inspection, a
// string-aware JS/TS analyzer, and Python/shell command heuristics.
package heuristics

import (
	"math"
	"unicode"

	"github.com/agentwarden/warden/internal/model"
)

const (
	CategoryHeuristicSecrets = "heuristic_secrets"

	minTokenLength      = 20
	maxTokenCandidates  = 2000
	entropyThreshold    = 4.2
	maxHeuristicPerFile = 10
)

// ScanEntropy extracts long letter/digit/+/_/=/- tokens from content and
// flags any whose base-2 Shannon entropy is at or above the threshold as a
// probable secret.
func ScanEntropy(path, content string) []model.Finding {
	tokens := extractTokens(content)
	li := newOffsetLineLocator(content)

	var findings []model.Finding
	for _, tok := range tokens {
		if len(findings) >= maxHeuristicPerFile {
			break
		}
		e := shannonEntropy(tok.text)
		if e < entropyThreshold {
			continue
		}
		findings = append(findings, model.Finding{
			RuleID:      CategoryHeuristicSecrets,
			Severity:    model.SeverityHigh,
			Message:     "high-entropy string resembles a secret",
			File:        path,
			Line:        li.lineAt(tok.offset),
			Category:    CategoryHeuristicSecrets,
			Source:      model.SourceHeuristic,
			MatchLength: len(tok.text),
			Entropy:     e,
			HasEntropy:  true,
		})
	}
	return findings
}

type token struct {
	text   string
	offset int
}

// extractTokens scans content for runs of letters, digits, and +/_=- that
// are at least minTokenLength runes long, stopping once maxTokenCandidates
// have been collected.
func extractTokens(content string) []token {
	var out []token
	runes := []rune(content)

	start := -1
	byteOffset := 0
	runeByteOffsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		runeByteOffsets[i] = off
		off += utf8RuneLen(r)
	}
	runeByteOffsets[len(runes)] = off
	_ = byteOffset

	flush := func(endIdx int) {
		if start < 0 {
			return
		}
		if endIdx-start >= minTokenLength {
			text := string(runes[start:endIdx])
			out = append(out, token{text: text, offset: runeByteOffsets[start]})
		}
		start = -1
	}

	for i, r := range runes {
		if len(out) >= maxTokenCandidates {
			break
		}
		if isTokenRune(r) {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(runes))

	return out
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '/' || r == '_' || r == '=' || r == '-'
}

func utf8RuneLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// shannonEntropy computes base-2 Shannon entropy over s's bytes.
func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	var counts [256]int
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	total := float64(len(s))
	var entropy float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
