package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentwarden/warden/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, inspect, compare, and delete saved scans",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scans",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved scan's full findings",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCompareCmd = &cobra.Command{
	Use:   "compare <id1> <id2>",
	Short: "Diff two saved scans' findings",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryCompare,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyCompareCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistoryStore(cmd *cobra.Command) (history.Store, error) {
	cfg, err := resolveConfig(cmd, ".")
	if err != nil {
		return nil, err
	}
	return newHistoryStore(cfg)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	summaries, err := store.List()
	if err != nil {
		return fatalf("%v", err)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved scans")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tCREATED\tTAG\tFILES\tFINDINGS\n")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", s.ID, s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), s.Tag, s.ScannedFiles, s.FindingCount)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	rec, err := store.Load(args[0])
	if err != nil {
		return fatalf("%v", err)
	}
	return writeResult(cmd.OutOrStdout(), globalFlags.Format, rec.Result)
}

func runHistoryCompare(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	prev, err := store.Load(args[0])
	if err != nil {
		return fatalf("loading %s: %v", args[0], err)
	}
	curr, err := store.Load(args[1])
	if err != nil {
		return fatalf("loading %s: %v", args[1], err)
	}
	diff := history.Compare(prev.Result, curr.Result)
	printDiff(cmd.OutOrStdout(), diff)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Delete(args[0]); err != nil {
		return fatalf("%v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
