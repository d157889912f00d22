// Package duckduckgo searches the catalog through DuckDuckGo's HTML endpoint.
package duckduckgo

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pagefinder/internal/catalog"
	"pagefinder/internal/config"
	"pagefinder/internal/search"
)

// Name is the backend name used in search.backends.
const Name = config.BackendDuckDuckGo

// Backend queries html.duckduckgo.com with a site: restriction and keeps
// product links on the catalog host.
type Backend struct {
	baseURL string
	enabled bool
	catalog *catalog.Catalog
	client  *http.Client
}

// New builds the backend from the [duckduckgo] section.
func New(cfg config.DuckDuckGo, c *catalog.Catalog, client *http.Client) *Backend {
	return &Backend{
		baseURL: strings.TrimSpace(cfg.BaseURL),
		enabled: cfg.Enabled,
		catalog: c,
		client:  client,
	}
}

func (b *Backend) Name() string { return Name }

// Strategies skips the full-series form; long quoted queries rarely match.
func (b *Backend) Strategies() []search.Strategy {
	return []search.Strategy{search.StrategyKeySeries, search.StrategyInstructor}
}

// Search runs one query. A 202 response or an anomaly page is reported as a
// *search.BlockedError.
func (b *Backend) Search(ctx context.Context, q search.Query, maxResults int) (search.Result, error) {
	if !b.enabled || b.baseURL == "" || b.client == nil {
		return search.Unavailable(), nil
	}
	endpoint := b.searchURL(q.Text)
	body, status, err := search.Fetch(ctx, b.client, endpoint, http.Header{"Accept-Language": {"en-US,en;q=0.9"}})
	if err != nil {
		return search.Result{}, err
	}
	if status == http.StatusAccepted {
		return search.Result{}, &search.BlockedError{URL: endpoint, Reason: "rate limited"}
	}
	urls, err := ParseResults(body, b.catalog, maxResults)
	if err != nil {
		return search.Result{}, err
	}
	return search.Found(urls...), nil
}

func (b *Backend) searchURL(text string) string {
	query := "site:" + b.catalog.Host() + " " + text
	sep := "?"
	if strings.Contains(b.baseURL, "?") {
		sep = "&"
	}
	return b.baseURL + sep + "q=" + url.QueryEscape(query)
}

// ParseResults extracts product URLs from a DuckDuckGo HTML results page.
func ParseResults(html []byte, c *catalog.Catalog, maxResults int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	if doc.Find(".anomaly-modal__title, #challenge-form").Length() > 0 {
		return nil, &search.BlockedError{Reason: "anomaly challenge"}
	}

	var hrefs []string
	doc.Find("a.result__a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, unwrapRedirect(href))
		}
	})
	return search.Collect(hrefs, maxResults, c.Accepts), nil
}

// unwrapRedirect returns the target of a DuckDuckGo "/l/?uddg=" link, or href
// unchanged.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}
