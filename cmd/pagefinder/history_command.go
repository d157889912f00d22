package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pagefinder/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded search attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Journal.Enabled {
				fmt.Fprintln(out, "Search journal is disabled (journal.enabled = false)")
				return nil
			}

			j, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()

			var entries []journal.Entry
			if id := strings.TrimSpace(runID); id != "" {
				entries, err = j.ForRun(cmd.Context(), id)
			} else {
				entries, err = j.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No search attempts recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(cmd, entries, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Number of recent attempts to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show every attempt of one run")
	return cmd
}

func renderHistoryTable(cmd *cobra.Command, entries []journal.Entry, now time.Time) string {
	headers := []string{"When", "Run", "Series", "Backend", "Strategy", "Status", "Detail"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.URL
		if detail == "" {
			detail = e.Error
		}
		rows = append(rows, []string{
			humanize.RelTime(e.CreatedAt, now, "ago", "from now"),
			shortRunID(e.RunID),
			e.SeriesKey,
			e.Backend,
			e.Strategy,
			e.Status,
			detail,
		})
	}
	return renderTable(cmd.OutOrStdout(), headers, rows, nil)
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
