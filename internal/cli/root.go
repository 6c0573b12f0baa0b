// Package cli implements the Cobra command hierarchy for the warden CLI
// tool: scanning skill bundles, browser/IDE extensions, and MCP servers for
// risky or malicious patterns.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agentwarden/warden/internal/scanconfig"
	"github.com/agentwarden/warden/internal/scanerrors"
	"github.com/agentwarden/warden/internal/scanlog"
)

// globalFlags holds every persistent flag value, populated by bindGlobalFlags
// during command initialization.
var globalFlags = &GlobalFlags{}

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Scan skill bundles, browser/IDE extensions, and MCP servers for risk.",
	Long: `Warden inspects skill bundles, installed browser and IDE extensions, and
Model Context Protocol servers for risky or malicious patterns.

It matches a YAML-authored rule catalog against text content, optionally runs
a small set of language-aware behavioral heuristics, and renders results to
the terminal or exports them as JSON or SARIF.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := globalFlags.Validate(); err != nil {
			return scanerrors.Usage(err.Error())
		}

		level := scanlog.ResolveLevel(globalFlags.Verbose, globalFlags.Quiet)
		scanlog.Setup(level, globalFlags.Format)

		slog.Debug("logging initialized", "level", level, "format", globalFlags.Format)
		return nil
	},
}

func init() {
	bindGlobalFlags(rootCmd)

	rootCmd.RegisterFlagCompletionFunc("format", completeFormat)
	rootCmd.RegisterFlagCompletionFunc("fail-on", completeSeverity)
}

func completeFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"table", "json", "sarif"}, cobra.ShellCompDirectiveNoFileComp
}

func completeSeverity(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}, cobra.ShellCompDirectiveNoFileComp
}

// Execute runs the root command and returns the process exit code: 0 on
// success, 1 on a usage or connection error, 2 when findings met or
// exceeded --fail-on.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return int(scanerrors.CodeOf(err))
	}
	return int(scanerrors.ExitSuccess)
}

// RootCmd returns the root cobra.Command, for tests and subcommand wiring.
func RootCmd() *cobra.Command {
	return rootCmd
}

// resolveConfig layers scanconfig's defaults/files/env with the CLI flags
// this invocation actually changed.
func resolveConfig(cmd *cobra.Command, targetDir string) (scanconfig.Config, error) {
	changed := scanconfig.CollectChangedFlags(cmd.Root().PersistentFlags(), scanconfig.ConfigFlagBindings)
	resolved, err := scanconfig.Resolve(scanconfig.ResolveOptions{
		TargetDir: targetDir,
		CLIFlags:  changed,
	})
	if err != nil {
		return scanconfig.Config{}, fmt.Errorf("resolving configuration: %w", err)
	}
	return resolved.Config, nil
}

func fatalf(format string, args ...any) error {
	return scanerrors.Usage(fmt.Sprintf(format, args...))
}
