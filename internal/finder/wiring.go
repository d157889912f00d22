package finder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pagefinder/internal/catalog"
	"pagefinder/internal/config"
	"pagefinder/internal/httpx"
	"pagefinder/internal/identity"
	"pagefinder/internal/journal"
	"pagefinder/internal/logging"
	"pagefinder/internal/reconcile"
	"pagefinder/internal/search"
	"pagefinder/internal/search/catalogsearch"
	"pagefinder/internal/search/duckduckgo"
	"pagefinder/internal/search/google"
)

// Recorder persists search attempts.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Backends builds every known backend and returns those named in
// search.backends, in that order.
func Backends(cfg *config.Config, c *catalog.Catalog, client *http.Client) ([]search.Backend, error) {
	registry, err := search.NewRegistry(
		duckduckgo.New(cfg.DuckDuckGo, c, client),
		catalogsearch.New(cfg.CatalogSearch, c, client),
		google.New(cfg.Google, c, client),
	)
	if err != nil {
		return nil, err
	}
	return registry.Ordered(cfg.Search.Backends)
}

// JournalObserver records every cascade attempt under the run ID carried by
// ctx. Record failures are logged and otherwise ignored.
func JournalObserver(rec Recorder, logger *slog.Logger) search.Observer {
	logger = logging.NewComponentLogger(logger, "journal")
	return func(ctx context.Context, id identity.Identity, a search.Attempt) {
		runID, _ := logging.RunIDFromContext(ctx)
		entry := journal.Entry{
			RunID:     runID,
			SeriesKey: string(id.Key()),
			Backend:   a.Backend,
			Strategy:  string(a.Strategy),
			Query:     a.Query,
			Status:    string(a.Status),
			URL:       a.URL,
		}
		if a.Err != nil {
			entry.Error = a.Err.Error()
		}
		if err := rec.Record(ctx, entry); err != nil {
			logging.WarnWithContext(logger, "failed to record search attempt", "journal_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "history for this run is incomplete"),
			)
		}
	}
}

// NewFromConfig wires the catalog, HTTP client, backends, reconciler and
// optional journal into a Finder.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, rec Recorder, opts ...Option) (*Finder, error) {
	c, err := catalog.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	client, err := httpx.NewClient(httpx.Options{
		Timeout:  time.Duration(cfg.SearchTimeout()) * time.Second,
		RetryMax: cfg.Search.RetryMax,
		ProxyURL: cfg.Search.ProxyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	backends, err := Backends(cfg, c, client)
	if err != nil {
		return nil, fmt.Errorf("search backends: %w", err)
	}

	cascadeOpts := []search.Option{
		search.WithMaxResults(cfg.Search.MaxResults),
		search.WithLogger(logger),
	}
	if rec != nil {
		cascadeOpts = append(cascadeOpts, search.WithObserver(JournalObserver(rec, logger)))
	}
	cascade := search.NewCascade(backends, cascadeOpts...)
	return New(cfg, cascade, reconcile.New(c, logger), logger, opts...), nil
}
