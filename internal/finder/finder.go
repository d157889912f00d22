package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"pagefinder/internal/config"
	"pagefinder/internal/discovery"
	"pagefinder/internal/identity"
	"pagefinder/internal/logging"
	"pagefinder/internal/reconcile"
	"pagefinder/internal/search"
	"pagefinder/internal/series"
	"pagefinder/internal/store"
)

// ErrNoVideos is returned when the input paths contain no video files.
var ErrNoVideos = errors.New("no video files found in the specified paths")

// Searcher resolves one identity to a product URL.
type Searcher interface {
	Find(ctx context.Context, id identity.Identity) search.Outcome
}

// Options selects the inputs of one run.
type Options struct {
	Paths []string
	// ForceRefresh skips reconciliation against the result file. New results
	// are still appended.
	ForceRefresh bool
}

// Finder runs the discovery, reconciliation and search pipeline.
type Finder struct {
	cfg        *config.Config
	searcher   Searcher
	reconciler *reconcile.Reconciler
	logger     *slog.Logger
	out        io.Writer
	pacer      Pacer
	sleep      func(context.Context, time.Duration) error
	newRunID   func() string
}

// Option customizes a Finder.
type Option func(*Finder)

// WithOutput sets where progress lines and the summary are printed.
func WithOutput(w io.Writer) Option {
	return func(f *Finder) {
		if w != nil {
			f.out = w
		}
	}
}

// WithPacer overrides the pacing window from the config.
func WithPacer(p Pacer) Option {
	return func(f *Finder) {
		f.pacer = p
	}
}

// WithSleep overrides how pacing delays are waited out (useful for tests).
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(f *Finder) {
		if fn != nil {
			f.sleep = fn
		}
	}
}

// WithRunID overrides run identifier generation.
func WithRunID(fn func() string) Option {
	return func(f *Finder) {
		if fn != nil {
			f.newRunID = fn
		}
	}
}

// New constructs a Finder.
func New(cfg *config.Config, searcher Searcher, reconciler *reconcile.Reconciler, logger *slog.Logger, opts ...Option) *Finder {
	f := &Finder{
		cfg:        cfg,
		searcher:   searcher,
		reconciler: reconciler,
		logger:     logging.NewComponentLogger(logger, "finder"),
		out:        io.Discard,
		pacer:      NewPacer(cfg.Search.PacingMinSeconds, cfg.Search.PacingMaxSeconds),
		sleep:      sleepContext,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run processes opts.Paths. It returns ErrNoVideos when nothing was
// discovered and ctx.Err() when the run stopped early; the summary is valid
// in both cases.
func (f *Finder) Run(ctx context.Context, opts Options) (Summary, error) {
	runID := f.newRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, f.logger)
	summary := Summary{RunID: runID}

	found, err := discovery.Discover(opts.Paths, logger)
	if err != nil {
		return summary, fmt.Errorf("discover videos: %w", err)
	}
	summary.Missing = found.Missing
	summary.Unreadable = found.Unreadable
	if len(found.Files) == 0 {
		f.printf("No video files found in the specified paths\n")
		return summary, ErrNoVideos
	}
	f.printf("Found %d video files to process\n", len(found.Files))

	groups := series.GroupFiles(found.Files)
	f.printf("Grouped into %d unique series\n", groups.Len())
	logger.Info("run started",
		logging.Int("videos", len(found.Files)),
		logging.Int("series", groups.Len()),
		logging.Bool("force_refresh", opts.ForceRefresh),
	)

	summary.StorePath = store.Location(discovery.Paths(found.Files), f.cfg.Store.FileName)
	storeName := filepath.Base(summary.StorePath)
	results, storeErr := store.Open(summary.StorePath, logger)
	switch {
	case errors.Is(storeErr, store.ErrLocked):
		return summary, fmt.Errorf("open result file: %w", storeErr)
	case storeErr != nil:
		logging.WarnWithContext(logger, "result file unavailable", "store_open_failed",
			logging.String("path", summary.StorePath),
			logging.Error(storeErr),
			logging.String(logging.FieldImpact, "new results are reported but not saved"),
			logging.String(logging.FieldErrorHint, "check permissions on the video directory"),
		)
		results = nil
	default:
		defer results.Close()
	}

	byKey := make(map[identity.SeriesKey]*GroupResult, groups.Len())
	summary.Groups = make([]GroupResult, groups.Len())
	for i, g := range groups.All() {
		summary.Groups[i] = newGroupResult(g)
		byKey[g.Key] = &summary.Groups[i]
	}

	cached := f.reconcile(groups, results, opts, storeName)

	var pending, unresolvable []*series.Group
	for _, g := range groups.All() {
		if url, ok := cached[g.Key]; ok {
			byKey[g.Key].Status = GroupCached
			byKey[g.Key].URL = url
			continue
		}
		if !g.Identity.Resolvable() {
			byKey[g.Key].Status = GroupUnresolvable
			unresolvable = append(unresolvable, g)
			continue
		}
		pending = append(pending, g)
	}

	if len(pending) == 0 && len(unresolvable) == 0 {
		f.printf("All series already have results! Use --force-refresh to search again.\n")
		for _, g := range groups.All() {
			f.printFiles(g, cached[g.Key], true)
		}
	} else {
		f.printf("Need to search %d new series\n", len(pending))
		for _, g := range groups.All() {
			if url, ok := cached[g.Key]; ok {
				f.printFiles(g, url, true)
			}
		}
		for _, g := range unresolvable {
			logging.WarnWithContext(logger, "series has no instructor in filename", "identity_unresolvable",
				logging.String(logging.FieldSeriesKey, string(g.Key)),
				logging.String("file", g.Representative().Name),
				logging.String(logging.FieldImpact, "series is not searched"),
				logging.String(logging.FieldErrorHint, "rename the file to include \"by <Instructor>\""),
			)
			for _, file := range g.Files {
				f.printf("  %s -> NOT FOUND (no instructor in filename)\n", file.Name)
			}
		}
		f.searchPending(ctx, logger, pending, byKey, results, storeName, &summary)
	}

	summary.tally()
	f.printf("\n%s\n", summary.Line())
	logger.Info("run finished",
		logging.Int("series_found", summary.SeriesFound()),
		logging.Int("series_total", summary.TotalSeries()),
		logging.Int("videos_matched", summary.MatchedFiles),
		logging.Bool("interrupted", summary.Interrupted),
	)
	if summary.Interrupted {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		return summary, context.Canceled
	}
	return summary, nil
}

func (f *Finder) reconcile(groups *series.Groups, results *store.Store, opts Options, storeName string) map[identity.SeriesKey]string {
	cached := make(map[identity.SeriesKey]string)
	if opts.ForceRefresh || !f.cfg.Search.Reconcile || results == nil || f.reconciler == nil {
		return cached
	}
	urls := results.URLs()
	if len(urls) == 0 {
		return cached
	}
	for _, m := range f.reconciler.Assign(groups.All(), urls) {
		cached[m.Key] = m.URL
	}
	f.printf("Found %d series already cached in %s\n", len(cached), storeName)
	return cached
}

func (f *Finder) searchPending(ctx context.Context, logger *slog.Logger, pending []*series.Group, byKey map[identity.SeriesKey]*GroupResult, results *store.Store, storeName string, summary *Summary) {
	for i, g := range pending {
		if ctx.Err() != nil {
			summary.Interrupted = true
			return
		}
		rep := g.Representative()
		f.printf("Processing series %d/%d: %s (represents %d videos)\n", i+1, len(pending), rep.Name, g.Size())

		// The in-flight group always completes; per-request timeouts bound it.
		gctx := logging.WithSeriesKey(context.WithoutCancel(ctx), string(g.Key))
		outcome := f.searcher.Find(gctx, g.Identity)

		result := byKey[g.Key]
		result.Attempts = len(outcome.Attempts)
		if outcome.Found() {
			result.Status = GroupFound
			result.URL = outcome.URL
			result.Backend = outcome.Backend
		} else {
			result.Status = GroupNotFound
			logger.Info("series not found",
				logging.String(logging.FieldSeriesKey, string(g.Key)),
				logging.Int("attempts", len(outcome.Attempts)),
			)
		}
		f.printFiles(g, outcome.URL, false)

		if outcome.Found() {
			if err := appendResult(results, outcome.URL); err != nil {
				summary.PersistFailures++
				logging.WarnWithContext(logger, "failed to save result", "store_append_failed",
					logging.String(logging.FieldSeriesKey, string(g.Key)),
					logging.String("url", outcome.URL),
					logging.Error(err),
					logging.String(logging.FieldImpact, "result is reported but will be searched again next run"),
					logging.String(logging.FieldErrorHint, "check disk space and permissions on "+storeName),
				)
				f.printf("  ✗ Could not save to %s: %v\n", storeName, err)
			} else {
				result.Saved = true
				f.printf("  ✓ Saved to %s\n", storeName)
			}
		}

		if i == len(pending)-1 {
			continue
		}
		delay := f.pacer.Next()
		if delay > 0 {
			f.printf("Waiting %.1f seconds before next series... (%d/%d series completed)\n", delay.Seconds(), i+1, len(pending))
		}
		if err := f.sleep(ctx, delay); err != nil {
			summary.Interrupted = true
			return
		}
	}
}

var errNoStore = errors.New("result file is not open")

func appendResult(results *store.Store, url string) error {
	if results == nil {
		return errNoStore
	}
	return results.Append(url)
}

func (f *Finder) printFiles(g *series.Group, url string, cached bool) {
	for _, file := range g.Files {
		switch {
		case url == "":
			f.printf("  %s -> NOT FOUND\n", file.Name)
		case cached:
			f.printf("  %s -> %s (cached)\n", file.Name, url)
		default:
			f.printf("  %s -> %s\n", file.Name, url)
		}
	}
}

func (f *Finder) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(f.out, format, args...)
}

func newGroupResult(g *series.Group) GroupResult {
	files := make([]string, len(g.Files))
	for i, file := range g.Files {
		files[i] = file.Name
	}
	return GroupResult{
		Key:            g.Key,
		Title:          g.Identity.String(),
		Representative: g.Representative().Name,
		Files:          files,
		Status:         GroupSkipped,
	}
}
