package mcpvfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeSegment_ReplacesUnsafeChars(t *testing.T) {
	assert.Equal(t, "a_b_c", SafeSegment("a/b c"))
	assert.Equal(t, "tool-name_v1.2", SafeSegment("tool-name_v1.2"))
	assert.Equal(t, "___", SafeSegment("://"))
}

func TestSafeSegment_TruncatesTo120(t *testing.T) {
	long := strings.Repeat("a", 200)
	out := SafeSegment(long)
	assert.Len(t, out, 120)
}

func TestSafeSegment_Empty(t *testing.T) {
	assert.Equal(t, "", SafeSegment(""))
}

func TestURLSafeBase64_StripsPadding(t *testing.T) {
	out := URLSafeBase64("file:///a")
	assert.NotContains(t, out, "=")
	assert.NotContains(t, out, "+")
	assert.NotContains(t, out, "/")
}

func TestURLSafeBase64_DifferentURIsDifferentSegments(t *testing.T) {
	a := URLSafeBase64("file:///a.txt")
	b := URLSafeBase64("file:///b.txt")
	assert.NotEqual(t, a, b)
}
