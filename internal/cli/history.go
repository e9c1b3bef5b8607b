package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/palettecam/internal/colour"
	"github.com/jmylchreest/palettecam/internal/record"
)

type historyOptions struct {
	session int64
	format  string
	preview bool
}

func newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history <database>",
		Short: "Show palettes recorded by capture sessions",
		Long: `Show palettes recorded with "palettecam session --record".

Without --session, lists the recorded sessions, newest first. With --session,
prints that session's palettes in the same format the session command used.

Examples:
  palettecam history palettes.db
  palettecam history --session 3 --format json palettes.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, args[0])
		},
	}

	cmd.Flags().Int64Var(&opts.session, "session", 0, "session ID to print (0 lists sessions)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format for palettes (text, json)")
	cmd.Flags().BoolVar(&opts.preview, "preview", colour.SupportsANSIColours(os.Stdout), "show colour previews in terminal")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *historyOptions, dbPath string) error {
	logger := newLogger(cmd)

	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unsupported format: %s (supported: text, json)", opts.format)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("failed to access recording database: %w", err)
	}

	store, err := record.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open recording database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.session == 0 {
		sessions, err := store.Sessions(ctx)
		if err != nil {
			return err
		}
		logger.Debug("listing sessions", "count", len(sessions))
		for _, s := range sessions {
			fmt.Fprintf(out, "%d\t%s\t%s\t%d swatches\t%d palettes\t%s\n",
				s.ID, s.StartedAt.Format(time.RFC3339), s.Algorithm, s.SwatchCount, s.Snapshots, s.Source)
		}
		return nil
	}

	snapshots, err := store.Snapshots(ctx, opts.session)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no palettes recorded for session %d", opts.session)
	}
	for _, snap := range snapshots {
		if err := writeSnapshot(out, snap, opts.format, opts.preview); err != nil {
			return err
		}
	}
	return nil
}
