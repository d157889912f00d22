package finder_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagefinder/internal/catalog"
	"pagefinder/internal/config"
	"pagefinder/internal/finder"
	"pagefinder/internal/identity"
	"pagefinder/internal/journal"
	"pagefinder/internal/logging"
	"pagefinder/internal/reconcile"
	"pagefinder/internal/search"
	"pagefinder/internal/store"
	"pagefinder/internal/testsupport"
)

const (
	standUpURL = "https://bjjfanatics.com/products/just-stand-up-by-craig-jones"
	guardURL   = "https://bjjfanatics.com/products/guard-by-john-danaher"
	escapesURL = "https://bjjfanatics.com/products/escapes-by-gordon-ryan"
)

type harness struct {
	cfg     *config.Config
	out     bytes.Buffer
	sleeps  []time.Duration
	backend *testsupport.StubBackend
}

func newHarness(t *testing.T, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	return &harness{
		cfg:     testsupport.NewConfig(t, opts...),
		backend: testsupport.NewStubBackend("stub"),
	}
}

func (h *harness) finder(t *testing.T, searcher finder.Searcher, opts ...finder.Option) *finder.Finder {
	t.Helper()
	c, err := catalog.FromConfig(h.cfg)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if searcher == nil {
		searcher = search.NewCascade([]search.Backend{h.backend})
	}
	base := []finder.Option{
		finder.WithOutput(&h.out),
		finder.WithSleep(func(_ context.Context, d time.Duration) error {
			h.sleeps = append(h.sleeps, d)
			return nil
		}),
		finder.WithRunID(func() string { return "run-1" }),
	}
	return finder.New(h.cfg, searcher, reconcile.New(c, logging.NewNop()), logging.NewNop(), append(base, opts...)...)
}

func TestRunPropagatesOneResultToWholeGroup(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "JustStandUpbyCraigJones1.mp4", "JustStandUpbyCraigJones2.mp4")
	h.backend.Always(search.Found(standUpURL))

	summary, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Groups) != 1 || len(summary.Groups[0].Files) != 2 {
		t.Fatalf("expected one group of two files, got %+v", summary.Groups)
	}
	if g := summary.Groups[0]; g.Status != finder.GroupFound || g.URL != standUpURL || !g.Saved {
		t.Fatalf("unexpected group result %+v", g)
	}
	if summary.MatchedFiles != 2 || !summary.Resolved() {
		t.Fatalf("expected both files matched, got %d", summary.MatchedFiles)
	}
	if len(h.backend.Calls()) != 1 {
		t.Fatalf("expected a single search for the group, got %d", len(h.backend.Calls()))
	}

	out := h.out.String()
	for _, want := range []string{
		"Found 2 video files to process",
		"Grouped into 1 unique series",
		"Need to search 1 new series",
		"Processing series 1/1: JustStandUpbyCraigJones1.mp4 (represents 2 videos)",
		"  JustStandUpbyCraigJones1.mp4 -> " + standUpURL + "\n",
		"  JustStandUpbyCraigJones2.mp4 -> " + standUpURL + "\n",
		"  ✓ Saved to product-pages.txt",
		"Summary: 1/1 series found (0 cached, 1 new), 2/2 total videos matched",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	lines := testsupport.ReadLines(t, filepath.Join(dir, store.DefaultFileName))
	if len(lines) != 1 || lines[0] != standUpURL {
		t.Fatalf("result file = %v", lines)
	}
	if len(h.sleeps) != 0 {
		t.Fatalf("no pacing expected after the last search, got %v", h.sleeps)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	h := newHarness(t)
	summary, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{t.TempDir()}})
	if !errors.Is(err, finder.ErrNoVideos) {
		t.Fatalf("expected ErrNoVideos, got %v", err)
	}
	if summary.Resolved() {
		t.Fatal("empty run must not be resolved")
	}
	if !strings.Contains(h.out.String(), "No video files found in the specified paths") {
		t.Fatalf("missing notice:\n%s", h.out.String())
	}
}

func TestRunMissingPathIsSkipped(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "GuardbyJohnDanaher.mp4")
	h.backend.Always(search.Found(guardURL))
	missing := filepath.Join(dir, "does-not-exist")

	summary, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{missing, dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Missing) != 1 || summary.SeriesFound() != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunReusesStoredResults(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "JustStandUpbyCraigJones1.mp4", "GuardbyJohnDanaher.mp4")
	testsupport.SeedStore(t, dir, standUpURL, guardURL)
	h.backend.Always(search.Found(standUpURL))

	summary, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.backend.Calls()) != 0 {
		t.Fatalf("cached groups must not be searched, got %d calls", len(h.backend.Calls()))
	}
	if summary.Cached != 2 || summary.New != 0 {
		t.Fatalf("expected 2 cached, got %+v", summary)
	}
	out := h.out.String()
	for _, want := range []string{
		"Found 2 series already cached in product-pages.txt",
		"All series already have results! Use --force-refresh to search again.",
		"  GuardbyJohnDanaher.mp4 -> " + guardURL + " (cached)",
		"Summary: 2/2 series found (2 cached, 0 new), 2/2 total videos matched",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunForceRefreshSearchesAgainWithoutDuplicating(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "JustStandUpbyCraigJones1.mp4")
	path := testsupport.SeedStore(t, dir, standUpURL)
	h.backend.Always(search.Found(standUpURL))

	summary, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{dir}, ForceRefresh: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.backend.Calls()) == 0 || summary.New != 1 || summary.Cached != 0 {
		t.Fatalf("force refresh should search, got %+v", summary)
	}
	if lines := testsupport.ReadLines(t, path); len(lines) != 1 {
		t.Fatalf("result file should still hold one line, got %v", lines)
	}
}

func TestRunPacesOnlyBetweenNewSearches(t *testing.T) {
	h := newHarness(t, testsupport.WithPacing(10, 15))
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir,
		"JustStandUpbyCraigJones1.mp4",
		"GuardbyJohnDanaher.mp4",
		"EscapesbyGordonRyan.mp4",
		"ArmbarsbyMikeyMusumeci.mp4",
	)
	testsupport.SeedStore(t, dir, standUpURL)
	h.backend.On(search.StrategyInstructor, search.Found(guardURL, escapesURL))

	summary, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.sleeps) != 2 {
		t.Fatalf("expected 2 pauses for 3 new searches, got %v", h.sleeps)
	}
	for _, d := range h.sleeps {
		if d < 10*time.Second || d > 15*time.Second {
			t.Fatalf("pause %v outside window", d)
		}
	}
	if summary.Cached != 1 || summary.New != 2 || summary.Count(finder.GroupNotFound) != 1 {
		t.Fatalf("unexpected summary %s (%+v)", summary.Line(), summary.Groups)
	}
	if !strings.Contains(h.out.String(), "  ArmbarsbyMikeyMusumeci.mp4 -> NOT FOUND") {
		t.Fatalf("missing NOT FOUND line:\n%s", h.out.String())
	}
}

type searchFunc func(ctx context.Context, id identity.Identity) search.Outcome

func (f searchFunc) Find(ctx context.Context, id identity.Identity) search.Outcome { return f(ctx, id) }

func TestRunInterruptFinishesInFlightGroup(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "EscapesbyGordonRyan.mp4", "GuardbyJohnDanaher.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	searcher := searchFunc(func(sctx context.Context, id identity.Identity) search.Outcome {
		calls++
		cancel()
		if sctx.Err() != nil {
			t.Error("in-flight search must not observe cancellation")
		}
		return search.Outcome{URL: escapesURL, Backend: "stub"}
	})

	summary, err := h.finder(t, searcher, finder.WithSleep(func(ctx context.Context, _ time.Duration) error {
		return ctx.Err()
	})).Run(ctx, finder.Options{Paths: []string{dir}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 || !summary.Interrupted {
		t.Fatalf("expected one search then stop, calls=%d interrupted=%v", calls, summary.Interrupted)
	}
	if summary.Count(finder.GroupSkipped) != 1 || summary.New != 1 {
		t.Fatalf("unexpected summary %+v", summary.Groups)
	}
	if lines := testsupport.ReadLines(t, filepath.Join(dir, store.DefaultFileName)); len(lines) != 1 || lines[0] != escapesURL {
		t.Fatalf("in-flight result not persisted: %v", lines)
	}
}

func TestRunPersistenceFaultDoesNotAbort(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "GuardbyJohnDanaher.mp4", "EscapesbyGordonRyan.mp4")
	if err := os.Mkdir(filepath.Join(dir, store.DefaultFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	h.backend.On(search.StrategyInstructor, search.Found(guardURL, escapesURL))

	summary, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.New != 2 || summary.PersistFailures != 2 {
		t.Fatalf("expected both found and both unsaved, got %+v", summary)
	}
	if !strings.Contains(h.out.String(), "✗ Could not save to product-pages.txt") {
		t.Fatalf("missing save failure line:\n%s", h.out.String())
	}
}

func TestRunUnresolvableGroupNotSearched(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "the_of_and.mp4")
	h.backend.Always(search.Found(standUpURL))

	summary, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{dir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.backend.Calls()) != 0 || summary.Count(finder.GroupUnresolvable) != 1 || summary.Resolved() {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !strings.Contains(h.out.String(), "the_of_and.mp4 -> NOT FOUND (no instructor in filename)") {
		t.Fatalf("missing unresolvable line:\n%s", h.out.String())
	}
}

func TestRunLockedStoreFails(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "GuardbyJohnDanaher.mp4")
	testsupport.MustOpenStore(t, filepath.Join(dir, store.DefaultFileName))

	_, err := h.finder(t, nil).Run(context.Background(), finder.Options{Paths: []string{dir}})
	if !errors.Is(err, store.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestJournalObserverRecordsAttempts(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "GuardbyJohnDanaher.mp4")
	h.backend.Fail(search.StrategyFullSeries, errors.New("timeout"))
	h.backend.On(search.StrategyInstructor, search.Found(guardURL))

	j, err := journal.Open(h.cfg.Journal.Path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	defer j.Close()

	cascade := search.NewCascade([]search.Backend{h.backend},
		search.WithObserver(finder.JournalObserver(j, logging.NewNop())))
	if _, err := h.finder(t, cascade).Run(context.Background(), finder.Options{Paths: []string{dir}}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := j.ForRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("ForRun: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected fault and accepted entries, got %+v", entries)
	}
	if entries[0].Status != "fault" || !strings.Contains(entries[0].Error, "timeout") {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Status != "accepted" || entries[1].URL != guardURL || entries[1].SeriesKey != "john danaher|guard" {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestBackendsFollowConfiguredOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackends("google", "duckduckgo"))
	c, err := catalog.FromConfig(cfg)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	backends, err := finder.Backends(cfg, c, nil)
	if err != nil {
		t.Fatalf("Backends: %v", err)
	}
	if len(backends) != 2 || backends[0].Name() != "google" || backends[1].Name() != "duckduckgo" {
		t.Fatalf("unexpected backends %v", backends)
	}
}

func TestPacerWindow(t *testing.T) {
	p := finder.NewPacer(2, 1)
	if p.Min != 2*time.Second || p.Max != 2*time.Second || p.Next() != 2*time.Second {
		t.Fatalf("inverted window should collapse to min, got %+v", p)
	}
	if finder.NewPacer(0, 0).Next() != 0 {
		t.Fatal("zero window should not pause")
	}
}
