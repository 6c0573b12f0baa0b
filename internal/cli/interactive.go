package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentwarden/warden/internal/targets"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive [path]",
	Aliases: []string{"i"},
	Short:   "Scan path with a live progress view, prompting for a path if omitted",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// runInteractive is scan with the TUI progress view forced on, prompting for
// a target path on stdin when none was given positionally.
func runInteractive(cmd *cobra.Command, args []string) error {
	path, err := interactiveTargetPath(cmd, args)
	if err != nil {
		return err
	}

	globalFlags.TUI = true

	cfg, err := resolveConfig(cmd, path)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return fatalf("%v", err)
	}
	defer rt.closeCache()

	fsOpts := targets.FilesystemOptions{
		UseGitignore:    !globalFlags.FullDepth,
		UseWardenignore: !globalFlags.FullDepth,
		ExtraExcludes:   cfg.ExtraSkipDirs,
	}

	built, err := collectTargets(path, fsOpts)
	if err != nil {
		return fatalf("%v", err)
	}
	if len(built) == 0 {
		return fatalf("no scan targets found under %s", path)
	}

	return runBuiltTargets(cmd, rt, built)
}

// interactiveTargetPath returns args[0] if given, else prompts on stdin.
func interactiveTargetPath(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "Path to scan: ")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return "", fatalf("no path provided")
	}
	path := strings.TrimSpace(scanner.Text())
	if path == "" {
		return "", fatalf("no path provided")
	}
	return path, nil
}
