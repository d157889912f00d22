package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool
	var forceRefresh bool
	var showTable bool

	ctx := newCommandContext(&configFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:   "pagefinder [flags] <video-or-directory>...",
		Short: "Find catalog product pages for instructional video files",
		Long: "pagefinder parses instructor and series names from video filenames, " +
			"searches the catalog for matching product pages, and records each match " +
			"in product-pages.txt next to the videos.\n\n" +
			"Exit status is 0 when at least one video was matched and 1 otherwise. " +
			"An interrupted run (Ctrl-C) stops after the series being searched and " +
			"exits 0 if it had already matched a video.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, ctx, args, findFlags{forceRefresh: forceRefresh, table: showTable})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "Ignore existing results and search all series again")
	rootCmd.Flags().BoolVar(&showTable, "table", false, "Print a per-series table after the summary")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newStoreCommand(ctx))

	return rootCmd
}
