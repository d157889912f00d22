package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{RunID: "r1", SeriesKey: "craig jones|just stand up", Backend: "duckduckgo", Strategy: "key_series", Query: `"craig jones" just stand`, Status: "fault", Error: "http 503", CreatedAt: base},
		{RunID: "r1", SeriesKey: "craig jones|just stand up", Backend: "catalog", Strategy: "full_series", Query: `"craig jones" just stand up`, Status: "accepted", URL: "https://bjjfanatics.com/products/just-stand-up-by-craig-jones", CreatedAt: base.Add(time.Second)},
		{RunID: "r2", SeriesKey: "john danaher|guard", Backend: "duckduckgo", Strategy: "instructor", Query: `"john danaher"`, Status: "empty"},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].RunID != "r2" || recent[1].Status != "accepted" {
		t.Fatalf("unexpected recent entries %+v", recent)
	}
	if recent[1].URL != entries[1].URL || !recent[1].CreatedAt.Equal(entries[1].CreatedAt) {
		t.Fatalf("round trip mismatch: %+v", recent[1])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt defaulted")
	}

	run, err := j.ForRun(ctx, "r1")
	if err != nil {
		t.Fatalf("ForRun: %v", err)
	}
	if len(run) != 2 || run[0].Error != "http 503" || run[0].URL != "" {
		t.Fatalf("unexpected run entries %+v", run)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := j.Record(context.Background(), Entry{RunID: "r", SeriesKey: "k", Backend: "b", Strategy: "s", Query: "q", Status: "empty"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.Recent(context.Background(), 10)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry after reopen, got %d (%v)", len(entries), err)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := j.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = j.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	if !isSQLiteBusy(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Fatal("expected busy detection")
	}
	if isSQLiteBusy(errors.New("no such table")) || isSQLiteBusy(nil) {
		t.Fatal("unexpected busy detection")
	}
}
