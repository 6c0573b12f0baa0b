package scanengine

import (
	"strings"

	"github.com/agentwarden/warden/internal/scanengine/heuristics"
)

// Confidence bands map a clamped [0,1] score to a human-readable reason.
const (
	BandHigh     = "high"
	BandMedium   = "medium"
	BandLow      = "low"
	BandVeryLow  = "very-low"
)

// EntropyCategory is the rule/heuristic category confidence scoring treats
// as an entropy-based secret detector for the purposes of its entropy bonus.
const EntropyCategory = heuristics.CategoryHeuristicSecrets

var testPathMarkers = []string{"/test/", "/tests/", "/__tests__/", ".test.", ".spec."}

// ConfidenceInput bundles everything ScoreConfidence needs beyond the
// model.Finding itself, since entropy and category context aren't stored on
// the finding.
type ConfidenceInput struct {
	IsSignature bool
	IsHeuristic bool
	Severity    string // "CRITICAL", "HIGH", "MEDIUM", "LOW"
	InComment   bool
	FilePath    string
	Category    string
	Entropy     float64 // only meaningful when Category == EntropyCategory
	HasEntropy  bool
	MatchLength int
	FileType    string // e.g. "json", "bash"
}

// ScoreConfidence applies every adjustment in order, clamps to [0,1], and
// returns the score plus its band reason string.
func ScoreConfidence(in ConfidenceInput) (score float64, reason string) {
	score = 0.5

	if in.IsSignature {
		score += 0.3
	} else if in.IsHeuristic {
		score += 0.1
	}

	switch strings.ToUpper(in.Severity) {
	case "CRITICAL":
		score += 0.1
	case "HIGH":
		score += 0.05
	}

	if in.InComment {
		score -= 0.3
	}
	if isTestPath(in.FilePath) {
		score -= 0.2
	}

	if in.Category == EntropyCategory && in.HasEntropy {
		switch {
		case in.Entropy >= 4.5:
			score += 0.2
		case in.Entropy >= 4.2:
			score += 0.1
		default:
			score -= 0.1
		}
	}

	switch {
	case in.MatchLength > 50:
		score += 0.1
	case in.MatchLength < 10 && in.MatchLength > 0:
		score -= 0.1
	}

	category := strings.ToLower(in.Category)
	if strings.Contains(category, "supply") && in.FileType == "json" {
		score += 0.1
	}
	if (strings.Contains(category, "command") || strings.Contains(category, "shell") || strings.Contains(category, "exec")) && in.FileType == "bash" {
		score += 0.1
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	return score, band(score)
}

func isTestPath(path string) bool {
	lower := strings.ToLower(path)
	for _, marker := range testPathMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func band(score float64) string {
	switch {
	case score >= 0.8:
		return BandHigh
	case score >= 0.6:
		return BandMedium
	case score >= 0.4:
		return BandLow
	default:
		return BandVeryLow
	}
}
