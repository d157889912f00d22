// Package logging assembles structured slog loggers and formatting helpers used
// across pagefinder.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes context-aware helpers so cascade and orchestrator code can tag log
// lines with the run ID and series key. Output goes to stderr by default;
// stdout belongs to the command's results.
package logging
