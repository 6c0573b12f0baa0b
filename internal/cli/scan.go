package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentwarden/warden/internal/history"
	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/reportwriter"
	"github.com/agentwarden/warden/internal/scanerrors"
	"github.com/agentwarden/warden/internal/targets"
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a skill bundle, extension, or plain directory for risky patterns",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan(false),
}

var scanAllCmd = &cobra.Command{
	Use:   "scan-all <path>",
	Short: "Scan <path> ignoring .gitignore/.wardenignore (forces --full-depth)",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan(true),
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(scanAllCmd)
}

// runScan returns the RunE for scan/scan-all; forceFullDepth is true only
// for scan-all, which is scan with --full-depth pinned regardless of the
// flag's own value.
func runScan(forceFullDepth bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path := args[0]
		fullDepth := forceFullDepth || globalFlags.FullDepth

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
			UseGitignore:    !fullDepth,
			UseWardenignore: !fullDepth,
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
}

// collectTargets builds the target list for a scan invocation: the primary
// path (auto-detected as a skill bundle or a plain directory), plus one
// target per immediate subdirectory of each --skills-dir/--extensions-dir/
// --ide-extensions-dir. --extensions and --ide-extensions gate the
// extension and IDE-extension directory groups; --skills-dir entries are
// always honored and --system is not read here. Actual root discovery stays with
// the caller-supplied directories, since enumerating OS-specific browser
// and IDE profile locations is out of scope for the core.
func collectTargets(path string, fsOpts targets.FilesystemOptions) ([]targets.Built, error) {
	var built []targets.Built

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		var b targets.Built
		if targets.HasSkillManifest(path) {
			b, err = targets.Skill(path, fsOpts)
		} else {
			b, err = targets.Path(path, fsOpts)
		}
		if err != nil {
			return nil, err
		}
		built = append(built, b)
	}

	if globalFlags.Extensions {
		for _, dir := range globalFlags.ExtensionsDirs {
			subs, err := subdirectories(dir)
			if err != nil {
				return nil, err
			}
			for _, sub := range subs {
				b, err := targets.Extension(sub, "", "", fsOpts)
				if err != nil {
					return nil, err
				}
				built = append(built, b)
			}
		}
	}

	if globalFlags.IDEExtensions {
		for _, dir := range globalFlags.IDEExtDirs {
			subs, err := subdirectories(dir)
			if err != nil {
				return nil, err
			}
			for _, sub := range subs {
				b, err := targets.IDEExtension(sub, "", fsOpts)
				if err != nil {
					return nil, err
				}
				built = append(built, b)
			}
		}
	}

	for _, dir := range globalFlags.SkillsDirs {
		subs, err := subdirectories(dir)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			b, err := targets.Skill(sub, fsOpts)
			if err != nil {
				return nil, err
			}
			built = append(built, b)
		}
	}

	return built, nil
}

// subdirectories lists dir's immediate subdirectories, each becoming one
// scan target.
func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// finishScan renders the result, writes any requested extra reports, saves
// to history, diffs against --compare-with, and resolves the final process
// error (carrying the right scanerrors.ExitCoder for --fail-on).
func finishScan(cmd *cobra.Command, rt *runtime, result model.ScanResult) error {
	out := cmd.OutOrStdout()
	if globalFlags.Output != "" {
		f, err := os.Create(globalFlags.Output)
		if err != nil {
			return fatalf("creating %s: %v", globalFlags.Output, err)
		}
		defer f.Close()
		out = f
	}

	if err := writeResult(out, globalFlags.Format, result); err != nil {
		return fatalf("%v", err)
	}

	if err := writeExtraReports(result); err != nil {
		return fatalf("%v", err)
	}

	if globalFlags.CompareWith != "" {
		prev, err := rt.history.Load(globalFlags.CompareWith)
		if err != nil {
			return fatalf("loading %s for comparison: %v", globalFlags.CompareWith, err)
		}
		diff := history.Compare(prev.Result, result)
		printDiff(cmd.ErrOrStderr(), diff)
	}

	if globalFlags.Save {
		id, err := rt.history.Save(history.Record{Tag: globalFlags.Tag, Notes: globalFlags.Notes, Result: result})
		if err != nil {
			return fatalf("saving scan: %v", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved scan as %s\n", id)
	}

	return exitForFindings(result)
}

// exitForFindings applies --fail-on/--fail-on-findings to result, returning
// a scanerrors.FindingsThreshold error (exit code 2) when they match, or nil.
func exitForFindings(result model.ScanResult) error {
	if globalFlags.FailOnAny && len(result.Findings) > 0 {
		return scanerrors.FindingsThreshold(fmt.Sprintf("%d finding(s) present", len(result.Findings)))
	}
	if globalFlags.FailOn == "" {
		return nil
	}
	threshold, _ := model.ParseSeverity(globalFlags.FailOn)
	for _, f := range result.Findings {
		if f.Severity >= threshold {
			return scanerrors.FindingsThreshold(fmt.Sprintf("finding at or above %s present", threshold))
		}
	}
	return nil
}

// writeResult renders result to w in format, either via reportwriter (json,
// sarif) or the built-in plain-text table.
func writeResult(w io.Writer, format string, result model.ScanResult) error {
	if writer, ok := reportwriter.ForFormat(format); ok {
		return writer.Write(w, result)
	}
	return writeTable(w, result)
}

// writeExtraReports writes --report-format outputs into --report-dir,
// independent of the primary --format/--output destination.
func writeExtraReports(result model.ScanResult) error {
	if len(globalFlags.ReportFormat) == 0 {
		return nil
	}
	dir := globalFlags.ReportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir %s: %w", dir, err)
	}
	for _, format := range globalFlags.ReportFormat {
		writer, ok := reportwriter.ForFormat(format)
		if !ok {
			// csv/html are external-collaborator formats consuming the JSON
			// envelope; nothing for the core to write here.
			continue
		}
		f, err := os.Create(filepath.Join(dir, "warden-report."+format))
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		err = writer.Write(f, result)
		f.Close()
		if err != nil {
			return fmt.Errorf("writing %s report: %w", format, err)
		}
	}
	return nil
}

// writeTable renders a compact human-readable summary, the teacher's own
// plain-tabwriter reporting style rather than a dedicated table library.
func writeTable(w io.Writer, result model.ScanResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SEVERITY\tRULE\tFILE\tLINE\tMESSAGE\n")
	for _, f := range result.Findings {
		line := "-"
		if f.HasLine() {
			line = fmt.Sprintf("%d", f.Line)
		}
		extra := ""
		if globalFlags.ShowConfidence && f.Confidence != nil {
			extra = fmt.Sprintf(" (confidence %.2f)", *f.Confidence)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%s\n", f.Severity, f.RuleID, f.File, line, f.Message, extra)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := result.SeveritySummary()
	fmt.Fprintf(w, "\n%d finding(s) across %d file(s) in %dms (low=%d medium=%d high=%d critical=%d)\n",
		len(result.Findings), result.ScannedFiles, result.ElapsedMS,
		summary[model.SeverityLow], summary[model.SeverityMedium], summary[model.SeverityHigh], summary[model.SeverityCritical])

	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

// printDiff renders a history diff to w: stderr for --compare-with, keeping
// it out of the primary report stream, and stdout for history compare.
func printDiff(w io.Writer, diff history.Diff) {
	fmt.Fprintf(w, "%d new finding(s), %d resolved finding(s)\n", len(diff.New), len(diff.Resolved))
	for _, f := range diff.New {
		fmt.Fprintf(w, "  + [%s] %s: %s\n", f.Severity, f.RuleID, f.Message)
	}
	for _, f := range diff.Resolved {
		fmt.Fprintf(w, "  - [%s] %s: %s\n", f.Severity, f.RuleID, f.Message)
	}
}
