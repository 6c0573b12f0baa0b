package scanlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		quiet    bool
		envDebug string
		want     slog.Level
	}{
		{name: "default is info", want: slog.LevelInfo},
		{name: "verbose sets debug", verbose: true, want: slog.LevelDebug},
		{name: "quiet sets error", quiet: true, want: slog.LevelError},
		{name: "verbose wins over quiet", verbose: true, quiet: true, want: slog.LevelDebug},
		{name: "DEBUG=1 overrides default", envDebug: "1", want: slog.LevelDebug},
		{name: "DEBUG=1 overrides quiet", quiet: true, envDebug: "1", want: slog.LevelDebug},
		{name: "DEBUG non-1 value ignored", envDebug: "true", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEBUG", tt.envDebug)
			assert.Equal(t, tt.want, ResolveLevel(tt.verbose, tt.quiet))
		})
	}
}

func TestSetupWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(slog.LevelInfo, "text", &buf)

	slog.Info("test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key=value")
	assert.NotContains(t, output, `"msg"`)
}

func TestSetupWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(slog.LevelInfo, "json", &buf)

	slog.Info("test message", "key", "value")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "test message", parsed["msg"])
	assert.Equal(t, "value", parsed["key"])
}

func TestSetupWithWriter_JSONFormatCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(slog.LevelInfo, "JSON", &buf)
	slog.Info("case test")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "case test", parsed["msg"])
}

func TestSetup_WritesToStderrNotStdout(t *testing.T) {
	origStderr := os.Stderr
	origStdout := os.Stdout
	defer func() {
		os.Stderr = origStderr
		os.Stdout = origStdout
	}()

	stderrR, stderrW, err := os.Pipe()
	require.NoError(t, err)
	defer stderrR.Close()
	stdoutR, stdoutW, err := os.Pipe()
	require.NoError(t, err)
	defer stdoutR.Close()

	os.Stderr = stderrW
	os.Stdout = stdoutW

	Setup(slog.LevelInfo, "text")
	slog.Info("stderr test message")

	stderrW.Close()
	stdoutW.Close()

	var stderrBuf, stdoutBuf bytes.Buffer
	_, _ = stderrBuf.ReadFrom(stderrR)
	_, _ = stdoutBuf.ReadFrom(stdoutR)

	assert.Contains(t, stderrBuf.String(), "stderr test message")
	assert.Empty(t, stdoutBuf.String())
}

func TestNew_SetsComponentAttribute(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(slog.LevelInfo, "json", &buf)

	New("discovery").Info("walking directory", "root", "/tmp/repo")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "discovery", parsed["component"])
	assert.Equal(t, "/tmp/repo", parsed["root"])
}

func TestNew_MultipleComponentsEachTagged(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(slog.LevelInfo, "text", &buf)

	New("discovery").Info("discovery event")
	New("security").Info("security event")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "component=discovery")
	assert.Contains(t, lines[1], "component=security")
}

func TestSuppressWarnings(t *testing.T) {
	assert.True(t, SuppressWarnings("json"))
	assert.True(t, SuppressWarnings("JSON"))
	assert.True(t, SuppressWarnings("sarif"))
	assert.False(t, SuppressWarnings("table"))
	assert.False(t, SuppressWarnings(""))
}

func TestWarn_DemotedToDebugWhenSuppressed(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(slog.LevelDebug, "text", &buf)

	Warn("json", "suppressed warning")
	assert.Contains(t, buf.String(), "suppressed warning")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestWarn_PassesThroughWhenNotSuppressed(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(slog.LevelInfo, "text", &buf)

	Warn("table", "visible warning")
	assert.Contains(t, buf.String(), "visible warning")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestWarn_SuppressedAndBelowDebugLevelIsDropped(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(slog.LevelInfo, "json", &buf)

	Warn("json", "never seen")
	assert.Empty(t, buf.String())
}
