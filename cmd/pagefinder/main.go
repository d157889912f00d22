package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pagefinder/internal/finder"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if shouldReport(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// shouldReport hides errors whose message was already printed to stdout.
func shouldReport(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, errNothingResolved),
		errors.Is(err, finder.ErrNoVideos):
		return false
	default:
		return true
	}
}
