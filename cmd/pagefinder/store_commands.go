package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagefinder/internal/discovery"
	"pagefinder/internal/finder"
	"pagefinder/internal/logging"
	"pagefinder/internal/store"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and maintain product-pages.txt result files",
	}

	storeCmd.AddCommand(newStorePathCommand(ctx))
	storeCmd.AddCommand(newStoreCompactCommand(ctx))

	return storeCmd
}

// storeLocation resolves the result file a run over paths would use.
func storeLocation(cmd *cobra.Command, ctx *commandContext, paths []string) (string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return "", err
	}
	found, err := discovery.Discover(paths, logger)
	if err != nil {
		return "", err
	}
	if len(found.Files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No video files found in the specified paths")
		return "", finder.ErrNoVideos
	}
	return store.Location(discovery.Paths(found.Files), cfg.Store.FileName), nil
}

func newStorePathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path <video-or-directory>...",
		Short: "Print the result file used for the given videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := storeLocation(cmd, ctx, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}
}

func newStoreCompactCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compact <video-or-directory>...",
		Short: "Rewrite the result file with one unique URL per line",
		Long: "compact rewrites product-pages.txt in the current one-URL-per-line format, " +
			"dropping duplicates, comments and numbered legacy prefixes.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := storeLocation(cmd, ctx, args)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			s, err := store.Open(location, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			urls := s.URLs()
			if err := s.Overwrite(urls); err != nil {
				return fmt.Errorf("rewrite %s: %w", location, err)
			}
			logger.Info("result file compacted",
				logging.String("path", location),
				logging.Int("urls", len(urls)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %s (%d URLs)\n", location, len(urls))
			return nil
		},
	}
}
