package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pagefinder/internal/finder"
	"pagefinder/internal/journal"
	"pagefinder/internal/logging"
)

// errNothingResolved is returned when a run matched no video at all.
var errNothingResolved = errors.New("no videos matched a product page")

type findFlags struct {
	forceRefresh bool
	table        bool
}

func runFind(cmd *cobra.Command, ctx *commandContext, args []string, flags findFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	var rec finder.Recorder
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			logging.WarnWithContext(logger, "search journal unavailable", "journal_open_failed",
				logging.String("path", cfg.Journal.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "search attempts from this run are not recorded"),
			)
		} else {
			defer j.Close()
			rec = j
		}
	}

	f, err := finder.NewFromConfig(cfg, logger, rec, finder.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	summary, err := f.Run(cmd.Context(), finder.Options{
		Paths:        args,
		ForceRefresh: flags.forceRefresh,
	})
	if errors.Is(err, context.Canceled) && summary.Resolved() {
		fmt.Fprintf(cmd.OutOrStdout(), "Interrupted: results found so far are saved in %s\n", summary.StorePath)
		err = nil
	}
	if err != nil {
		return err
	}
	if flags.table {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummaryTable(cmd, summary))
	}
	if !summary.Resolved() {
		return errNothingResolved
	}
	return nil
}

func renderSummaryTable(cmd *cobra.Command, summary finder.Summary) string {
	headers := []string{"Series", "Videos", "Status", "Backend", "URL"}
	rows := make([][]string, 0, len(summary.Groups))
	for _, g := range summary.Groups {
		title := g.Title
		if title == "" {
			title = g.Representative
		}
		rows = append(rows, []string{
			title,
			strconv.Itoa(len(g.Files)),
			string(g.Status),
			g.Backend,
			g.URL,
		})
	}
	return renderTable(cmd.OutOrStdout(), headers, rows, []columnAlignment{alignLeft, alignRight})
}
