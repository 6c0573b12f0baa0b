package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanpipeline"
	"github.com/agentwarden/warden/internal/targets"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-scan <path> on an interval until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch re-runs a scan on --interval until the context is cancelled (via
// WithSignalCancel), printing each run's table summary in sequence. It does
// not hold a filesystem watch open -- a plain re-scan timer, since neither
// the teacher nor the rest of the pack already carry an fsnotify dependency
// for this purpose.
func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]

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

	ctx, stop := scanpipeline.WithSignalCancel(cmd.Context(), rt.closeCache)
	defer stop()

	out := cmd.OutOrStdout()
	ticker := time.NewTicker(globalFlags.WatchInterval)
	defer ticker.Stop()

	for {
		built, err := collectTargets(path, fsOpts)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		} else if len(built) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: no scan targets found under %s\n", path)
		} else {
			scanTargets := make([]scanpipeline.Target, 0, len(built))
			modelTargets := make([]model.Target, 0, len(built))
			for _, b := range built {
				scanTargets = append(scanTargets, b.Scan)
				modelTargets = append(modelTargets, b.Model)
			}

			runID := uuid.NewString()
			result, runErr := rt.run(ctx, runID, scanTargets, modelTargets, nil)
			if runErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", runErr)
			} else {
				fmt.Fprintf(out, "--- scan at %s ---\n", time.Now().Format(time.RFC3339))
				if err := writeResult(out, globalFlags.Format, result); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
