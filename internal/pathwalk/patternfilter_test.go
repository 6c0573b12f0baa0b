package pathwalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternFilter_NoFilters(t *testing.T) {
	f := NewPatternFilter(PatternFilterOptions{})
	assert.False(t, f.HasFilters())
	assert.True(t, f.Matches("anything.go"))
	assert.True(t, f.Matches("src/nested/file.ts"))
}

func TestPatternFilter_ExtensionFilter(t *testing.T) {
	f := NewPatternFilter(PatternFilterOptions{Extensions: []string{".go", "ts"}})
	assert.True(t, f.HasFilters())

	assert.True(t, f.Matches("main.go"))
	assert.True(t, f.Matches("src/app.ts"))
	assert.False(t, f.Matches("README.md"))
}

func TestPatternFilter_IncludePattern(t *testing.T) {
	f := NewPatternFilter(PatternFilterOptions{Includes: []string{"src/**"}})

	assert.True(t, f.Matches("src/app.go"))
	assert.True(t, f.Matches("src/nested/util.go"))
	assert.False(t, f.Matches("docs/guide.md"))
}

func TestPatternFilter_ExcludeWinsOverInclude(t *testing.T) {
	f := NewPatternFilter(PatternFilterOptions{
		Includes: []string{"**/*.go"},
		Excludes: []string{"**/*_test.go"},
	})

	assert.True(t, f.Matches("main.go"))
	assert.False(t, f.Matches("main_test.go"))
}

func TestPatternFilter_ExcludeAloneDoesNotRestrictPassthrough(t *testing.T) {
	f := NewPatternFilter(PatternFilterOptions{Excludes: []string{"vendor/**"}})
	assert.False(t, f.HasFilters())

	assert.True(t, f.Matches("main.go"))
	assert.False(t, f.Matches("vendor/lib.go"))
}

func TestPatternFilter_EmptyPath(t *testing.T) {
	f := NewPatternFilter(PatternFilterOptions{})
	assert.False(t, f.Matches(""))
}

func TestPatternFilter_IncludeOrExtensionOR(t *testing.T) {
	f := NewPatternFilter(PatternFilterOptions{
		Includes:   []string{"src/**"},
		Extensions: []string{"md"},
	})

	assert.True(t, f.Matches("src/app.go"), "matches include pattern")
	assert.True(t, f.Matches("README.md"), "matches extension filter")
	assert.False(t, f.Matches("docs/guide.txt"), "matches neither")
}
