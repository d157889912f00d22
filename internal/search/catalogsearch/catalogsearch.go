// Package catalogsearch queries the catalog site's own search page.
package catalogsearch

import (
	"bytes"
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"pagefinder/internal/catalog"
	"pagefinder/internal/config"
	"pagefinder/internal/search"
)

// Name is the backend name used in search.backends.
const Name = config.BackendCatalogSearch

// Backend fetches {base}/search?q= and collects product links.
type Backend struct {
	enabled bool
	catalog *catalog.Catalog
	client  *http.Client
}

// New builds the backend from the [catalog_search] section.
func New(cfg config.CatalogSearch, c *catalog.Catalog, client *http.Client) *Backend {
	return &Backend{enabled: cfg.Enabled, catalog: c, client: client}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Strategies() []search.Strategy {
	return search.Strategies()
}

func (b *Backend) Search(ctx context.Context, q search.Query, maxResults int) (search.Result, error) {
	if !b.enabled || b.catalog == nil || b.client == nil {
		return search.Unavailable(), nil
	}
	body, _, err := search.Fetch(ctx, b.client, b.catalog.SearchURL(q.Text), nil)
	if err != nil {
		return search.Result{}, err
	}
	urls, err := ParseResults(body, b.catalog, maxResults)
	if err != nil {
		return search.Result{}, err
	}
	return search.Found(urls...), nil
}

// ParseResults returns product links from a catalog search page in document
// order. Relative links resolve against the catalog base URL.
func ParseResults(html []byte, c *catalog.Catalog, maxResults int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	var hrefs []string
	doc.Find(`a[href*="` + c.ProductPath() + `"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return search.Collect(hrefs, maxResults, c.Accepts), nil
}
