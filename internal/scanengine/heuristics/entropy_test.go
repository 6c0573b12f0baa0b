package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShannonEntropy_LowForRepeatedChar(t *testing.T) {
	e := shannonEntropy("aaaaaaaaaaaaaaaaaaaa")
	assert.Less(t, e, 1.0)
}

func TestShannonEntropy_HighForRandomLooking(t *testing.T) {
	e := shannonEntropy("aZ3kQ9mP2xR7vL1nB8wT")
	assert.Greater(t, e, 4.0)
}

func TestScanEntropy_FlagsHighEntropyToken(t *testing.T) {
	content := "token = \"aZ3kQ9mP2xR7vL1nB8wTc6yH5dS\"\n"
	findings := ScanEntropy("secrets.env", content)
	assert.NotEmpty(t, findings)
	assert.Equal(t, CategoryHeuristicSecrets, findings[0].Category)
}

func TestScanEntropy_IgnoresShortTokens(t *testing.T) {
	content := "x = \"short\"\n"
	findings := ScanEntropy("f.txt", content)
	assert.Empty(t, findings)
}

func TestScanEntropy_CapsAtMaxHeuristicPerFile(t *testing.T) {
	var content string
	for i := 0; i < 20; i++ {
		content += "secret_value_" + string(rune('a'+i)) + "_aZ3kQ9mP2xR7vL1nB8wTc6yH5dS\n"
	}
	findings := ScanEntropy("many.txt", content)
	assert.LessOrEqual(t, len(findings), maxHeuristicPerFile)
}
