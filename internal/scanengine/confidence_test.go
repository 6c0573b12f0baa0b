package scanengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreConfidence_SignatureCriticalLongMatch(t *testing.T) {
	score, reason := ScoreConfidence(ConfidenceInput{
		IsSignature: true,
		Severity:    "CRITICAL",
		MatchLength: 80,
	})
	// 0.5 + 0.3 (signature) + 0.1 (critical) + 0.1 (long match) = 1.0
	assert.InDelta(t, 1.0, score, 0.001)
	assert.Equal(t, BandHigh, reason)
}

func TestScoreConfidence_HeuristicInCommentTestPath(t *testing.T) {
	score, reason := ScoreConfidence(ConfidenceInput{
		IsHeuristic: true,
		Severity:    "LOW",
		InComment:   true,
		FilePath:    "/repo/tests/fixture.py",
	})
	// 0.5 + 0.1 (heuristic) - 0.3 (comment) - 0.2 (test path) = 0.1
	assert.InDelta(t, 0.1, score, 0.001)
	assert.Equal(t, BandVeryLow, reason)
}

func TestScoreConfidence_EntropySecretHighEntropy(t *testing.T) {
	score, _ := ScoreConfidence(ConfidenceInput{
		IsHeuristic: true,
		Severity:    "HIGH",
		Category:    EntropyCategory,
		Entropy:     4.8,
		HasEntropy:  true,
	})
	// 0.5 + 0.1 + 0.05 + 0.2 = 0.85
	assert.InDelta(t, 0.85, score, 0.001)
}

func TestScoreConfidence_ClampsToUnitRange(t *testing.T) {
	score, reason := ScoreConfidence(ConfidenceInput{
		IsSignature: true,
		Severity:    "CRITICAL",
		MatchLength: 200,
		Category:    "supply-chain",
		FileType:    "json",
	})
	assert.LessOrEqual(t, score, 1.0)
	assert.Equal(t, BandHigh, reason)
}

func TestScoreConfidence_ShortMatchPenalty(t *testing.T) {
	score, _ := ScoreConfidence(ConfidenceInput{
		IsHeuristic: true,
		Severity:    "LOW",
		MatchLength: 4,
	})
	// 0.5 + 0.1 - 0.1 = 0.5
	assert.InDelta(t, 0.5, score, 0.001)
}

func TestBandBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.8, BandHigh},
		{0.6, BandMedium},
		{0.4, BandLow},
		{0.39, BandVeryLow},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, band(c.score))
	}
}
