package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/agentwarden/warden/internal/scanerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandUse(t *testing.T) {
	assert.Equal(t, "warden", rootCmd.Use)
}

func TestRootCommandSilenceUsage(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage, "SilenceUsage must be true to avoid printing usage on errors")
}

func TestRootCommandSilenceErrors(t *testing.T) {
	assert.True(t, rootCmd.SilenceErrors, "SilenceErrors must be true for manual error handling")
}

func TestRootCommandHasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag, "root command must have --verbose persistent flag")
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCommandHasQuietFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("quiet")
	require.NotNil(t, flag, "root command must have --quiet persistent flag")
	assert.Equal(t, "q", flag.Shorthand)
}

func TestRootCommandHasOutputFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("output")
	require.NotNil(t, flag, "root command must have --output persistent flag")
	assert.Equal(t, "o", flag.Shorthand)
	assert.Equal(t, "", flag.DefValue)
}

func TestRootCommandHasFormatFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("format")
	require.NotNil(t, flag, "root command must have --format persistent flag")
	assert.Equal(t, "table", flag.DefValue)
}

func TestRootCommandHasFailOnFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("fail-on")
	require.NotNil(t, flag, "root command must have --fail-on persistent flag")
}

func TestRootCommandHasScanDirectoryFlags(t *testing.T) {
	for _, name := range []string{"skills-dir", "extensions-dir", "ide-extensions-dir"} {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(name)
			require.NotNil(t, flag, "root command must have --%s persistent flag", name)
		})
	}
}

func TestRootCommandHasBooleanFlags(t *testing.T) {
	boolFlags := map[string]string{
		"extensions":      "true",
		"ide-extensions":  "true",
		"full-depth":      "false",
		"use-behavioral":  "true",
		"enable-meta":     "true",
		"fix":             "false",
		"save":            "false",
		"show-confidence": "false",
		"tui":             "true",
		"read-resources":  "false",
	}
	for name, want := range boolFlags {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(name)
			require.NotNil(t, flag, "root command must have --%s persistent flag", name)
			assert.Equal(t, want, flag.DefValue)
		})
	}
}

func TestRootCommandHasMCPFlags(t *testing.T) {
	for _, name := range []string{"bearer-token", "header", "scan", "mime-types", "max-resource-bytes", "connect"} {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(name)
			require.NotNil(t, flag, "root command must have --%s persistent flag", name)
		})
	}
}

func TestExecuteWithHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(scanerrors.ExitSuccess), code)
	assert.Contains(t, buf.String(), "Warden inspects skill bundles")
}

func TestExecuteHelpShowsAllFlags(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(scanerrors.ExitSuccess), code)

	output := buf.String()
	expectedFlags := []string{
		"--output", "--format", "--fail-on", "--fail-on-findings",
		"--skills-dir", "--extensions-dir", "--ide-extensions-dir",
		"--full-depth", "--enable-meta", "--fix", "--save", "--tag",
		"--compare-with", "--show-confidence", "--min-confidence", "--tui",
		"--bearer-token", "--header", "--read-resources", "--verbose", "--quiet",
	}
	for _, flag := range expectedFlags {
		assert.Contains(t, output, flag, "help output should show %s flag", flag)
	}
}

func TestExecuteWithUnknownFlag(t *testing.T) {
	rootCmd.SetArgs([]string{"--nonexistent-flag"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetErr(buf)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, int(scanerrors.ExitUsageError), code)
}

func TestRootCmdReturnsCommand(t *testing.T) {
	cmd := RootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "warden", cmd.Use)
}

func TestRootCommandLongDescription(t *testing.T) {
	assert.Contains(t, rootCmd.Long, "Model Context Protocol servers")
}

func TestCodeOfViaExecute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns ExitSuccess", err: nil, want: int(scanerrors.ExitSuccess)},
		{name: "generic error returns ExitUsageError", err: errors.New("boom"), want: int(scanerrors.ExitUsageError)},
		{name: "usage error returns ExitUsageError", err: scanerrors.Usage("bad flag"), want: int(scanerrors.ExitUsageError)},
		{name: "findings threshold returns ExitFindingsFailed", err: scanerrors.FindingsThreshold("threshold met"), want: int(scanerrors.ExitFindingsFailed)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := int(scanerrors.CodeOf(tt.err))
			assert.Equal(t, tt.want, got)
		})
	}
}
