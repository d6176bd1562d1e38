package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synclab/postsync"
	"github.com/synclab/postsync/internal/cmd/output"
	"github.com/synclab/postsync/pkg/reconcile"
)

var (
	syncDryRun        bool
	syncDiff          bool
	syncNoPush        bool
	syncNoStage       bool
	syncRetentionDays int
	syncFormat        string
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the collection document with the extracted routes",
	Long: `Sync runs the full pipeline: scan the route files, merge the extracted
routes into the collection document, write it back, then push it to the
Postman API and stage it in git as configured.

New routes become new requests, existing requests are refreshed in
place, and routes that no longer exist are marked deprecated. Requests
deprecated for longer than the retention window are removed.

A merge failure leaves the collection file untouched.`,
	Example: `  postsync sync
  postsync sync --dry-run
  postsync sync --diff              # preview as a unified diff
  postsync sync --no-push --no-stage
  postsync sync --retention-days 14`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Merge and report without writing, pushing or staging")
	syncCmd.Flags().BoolVar(&syncDiff, "diff", false, "Show a unified diff of the document instead of writing (implies --dry-run)")
	syncCmd.Flags().BoolVar(&syncNoPush, "no-push", false, "Skip the push to the Postman API")
	syncCmd.Flags().BoolVar(&syncNoStage, "no-stage", false, "Skip git staging")
	syncCmd.Flags().IntVar(&syncRetentionDays, "retention-days", 0, "Days a deprecated request is kept (default from config)")
	syncCmd.Flags().StringVarP(&syncFormat, "format", "f", "", "Report format: table, json, yaml (default: detect)")
}

func runSync(cmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(syncFormat)
	if err != nil {
		return err
	}
	if format == "" {
		format = output.DetectFormat(os.Stdout)
	}

	var opts []postsync.Option
	if syncRetentionDays > 0 {
		opts = append(opts, postsync.WithRetentionDays(syncRetentionDays))
	}
	s, err := newSyncer(opts...)
	if err != nil {
		return err
	}

	// The diff needs the on-disk bytes from before the merge.
	var before []byte
	if syncDiff {
		syncDryRun = true
		if before, err = os.ReadFile(effectiveCollectionFile()); err != nil {
			return err
		}
	}

	var syncOpts []postsync.SyncOption
	if syncDryRun {
		syncOpts = append(syncOpts, postsync.WithDryRun())
	}
	if syncNoPush {
		syncOpts = append(syncOpts, postsync.WithNoPush())
	}
	if syncNoStage {
		syncOpts = append(syncOpts, postsync.WithNoStage())
	}

	cs, runErr := s.Sync(cmd.Context(), syncOpts...)
	if cs == nil && runErr != nil {
		return runErr
	}

	if syncDiff {
		if err := printDiff(before, s); err != nil {
			return err
		}
	}

	fmt.Fprintln(os.Stderr, cs.Summary())
	if cs.HasChanges() || cs.HasErrors() {
		if err := output.FormatChangeset(os.Stdout, cs, format); err != nil {
			return err
		}
	}

	return runErr
}

// printDiff renders a unified diff between the document as it was on
// disk and the merged result.
func printDiff(before []byte, s postsync.Syncer) error {
	doc := s.Document()
	if doc == nil {
		return nil
	}
	after, err := doc.Encode()
	if err != nil {
		return err
	}

	path := effectiveCollectionFile()
	text, err := reconcile.Differ{}.Diff(before, after, path, path+" (merged)")
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "No document changes")
		return nil
	}
	fmt.Print(text)
	return nil
}
