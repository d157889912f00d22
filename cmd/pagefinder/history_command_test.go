package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagefinder/internal/journal"
	"pagefinder/internal/testsupport"
)

func TestHistoryShowsRecordedAttempts(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history on empty journal: %v", err)
	}
	requireContains(t, out, "No search attempts recorded")

	testsupport.WriteVideos(t, env.videoDir, "JustStandUpbyCraigJones1.mp4")
	if _, _, err := runCLI(t, []string{env.videoDir}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err = runCLI(t, []string{"history", "--limit", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "craig jones|just stand up")
	requireContains(t, out, "catalog")
	requireContains(t, out, "full_series")
	requireContains(t, out, "accepted")
}

func TestHistoryFiltersByRun(t *testing.T) {
	env := setupCLITestEnv(t, false)

	j, err := journal.Open(env.cfg.Journal.Path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	ctx := context.Background()
	for _, e := range []journal.Entry{
		{RunID: "run-a", SeriesKey: "craig jones|leg locks", Backend: "duckduckgo", Strategy: "key_series", Status: "fault", Error: "blocked: rate limited"},
		{RunID: "run-b", SeriesKey: "john danaher|guard", Backend: "catalog", Strategy: "instructor", Status: "empty"},
	} {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--run", "run-a"}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, out, "blocked: rate limited")
	if strings.Contains(out, "john danaher") {
		t.Fatalf("expected only run-a attempts, got %q", out)
	}
}

func TestShortRunID(t *testing.T) {
	if got := shortRunID("0b1f5a8e-2d7c-4a51-9f0e-7d3c2b1a0f9e"); got != "0b1f5a8e" {
		t.Fatalf("shortRunID = %q", got)
	}
	if got := shortRunID("run-1"); got != "run-1" {
		t.Fatalf("shortRunID = %q", got)
	}
}

func TestRenderHistoryTableFallsBackToError(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cmd := newRootCommand()
	out := renderHistoryTable(cmd, []journal.Entry{{
		RunID:     "run-1",
		SeriesKey: "craig jones|z guard",
		Backend:   "google",
		Strategy:  "full_series",
		Status:    "fault",
		Error:     "http 429",
		CreatedAt: now.Add(-3 * time.Minute),
	}}, now)
	requireContains(t, out, "http 429")
	requireContains(t, out, "3 minutes ago")
}

func TestHistoryWithJournalDisabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := testsupport.NewConfig(t, testsupport.WithJournal(false))
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	out, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Search journal is disabled")
	if _, err := os.Stat(cfg.Journal.Path); !os.IsNotExist(err) {
		t.Fatalf("expected no journal database, stat err = %v", err)
	}
}
