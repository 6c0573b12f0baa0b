package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentwarden/warden/internal/history"
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanerrors"
)

// isolateHistoryDir points DefaultHistoryDir at a throwaway temp directory
// for the duration of a test, so history commands never touch the real
// user config directory.
func isolateHistoryDir(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func execRoot(t *testing.T, args ...string) (string, int) {
	t.Helper()
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	return buf.String(), code
}

func TestHistoryListEmpty(t *testing.T) {
	isolateHistoryDir(t)

	out, code := execRoot(t, "history", "list")
	assert.Equal(t, int(scanerrors.ExitSuccess), code)
	assert.Contains(t, out, "no saved scans")
}

func TestHistorySaveListShowDelete(t *testing.T) {
	isolateHistoryDir(t)

	dir, err := history.DefaultHistoryDir()
	require.NoError(t, err)
	store, err := history.NewJSONStore(dir)
	require.NoError(t, err)

	id, err := store.Save(history.Record{
		Tag: "nightly",
		Result: model.ScanResult{
			ScannedFiles: 3,
			Findings:     []model.Finding{{RuleID: "R", Severity: model.SeverityLow, Message: "m", File: "f"}},
		},
	})
	require.NoError(t, err)

	out, code := execRoot(t, "history", "list")
	assert.Equal(t, int(scanerrors.ExitSuccess), code)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "nightly")

	out, code = execRoot(t, "history", "show", id)
	assert.Equal(t, int(scanerrors.ExitSuccess), code)
	assert.Contains(t, out, "R")

	out, code = execRoot(t, "history", "delete", id)
	assert.Equal(t, int(scanerrors.ExitSuccess), code)
	assert.Contains(t, out, "deleted "+id)

	out, code = execRoot(t, "history", "list")
	assert.Equal(t, int(scanerrors.ExitSuccess), code)
	assert.Contains(t, out, "no saved scans")
}

func TestHistoryShowMissingIDFails(t *testing.T) {
	isolateHistoryDir(t)

	_, code := execRoot(t, "history", "show", "does-not-exist")
	assert.NotEqual(t, int(scanerrors.ExitSuccess), code)
}

func TestHistoryCompareRendersDiff(t *testing.T) {
	isolateHistoryDir(t)

	dir, err := history.DefaultHistoryDir()
	require.NoError(t, err)
	store, err := history.NewJSONStore(dir)
	require.NoError(t, err)

	before, err := store.Save(history.Record{Result: model.ScanResult{
		Findings: []model.Finding{{RuleID: "RESOLVED_RULE", Severity: model.SeverityLow, Message: "gone now", File: "f"}},
	}})
	require.NoError(t, err)

	after, err := store.Save(history.Record{Result: model.ScanResult{
		Findings: []model.Finding{{RuleID: "NEW_RULE", Severity: model.SeverityHigh, Message: "just appeared", File: "g"}},
	}})
	require.NoError(t, err)

	out, code := execRoot(t, "history", "compare", before, after)
	assert.Equal(t, int(scanerrors.ExitSuccess), code)
	assert.Contains(t, out, "1 new finding(s), 1 resolved finding(s)")
	assert.Contains(t, out, "NEW_RULE")
	assert.Contains(t, out, "RESOLVED_RULE")
}

func TestHistoryDeleteMissingIDFails(t *testing.T) {
	isolateHistoryDir(t)

	_, code := execRoot(t, "history", "delete", "does-not-exist")
	assert.NotEqual(t, int(scanerrors.ExitSuccess), code)
}
