package scanengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIndex(t *testing.T) {
	content := "line one\nline two\nline three"
	li := BuildLineIndex(content)

	assert.Equal(t, 1, li.LineAt(0))
	assert.Equal(t, 1, li.LineAt(7))
	assert.Equal(t, 2, li.LineAt(9))
	assert.Equal(t, 2, li.LineAt(17))
	assert.Equal(t, 3, li.LineAt(18))
	assert.Equal(t, 3, li.LineAt(len(content)-1))
}

func TestLineIndex_EmptyContent(t *testing.T) {
	li := BuildLineIndex("")
	assert.Equal(t, 1, li.LineAt(0))
}

func TestLineIndex_TrailingNewline(t *testing.T) {
	content := "a\nb\n"
	li := BuildLineIndex(content)
	assert.Equal(t, 1, li.LineAt(0))
	assert.Equal(t, 2, li.LineAt(2))
}
