// Package google queries the Google Custom Search JSON API. The backend is
// unavailable until an API key and engine ID are configured.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pagefinder/internal/catalog"
	"pagefinder/internal/config"
	"pagefinder/internal/search"
)

// Name is the backend name used in search.backends.
const Name = config.BackendGoogle

// maxPerRequest is the API's upper bound for the num parameter.
const maxPerRequest = 10

// Backend is the last-resort backend; the API is quota-limited, so it runs a
// single query per identity.
type Backend struct {
	apiKey   string
	engineID string
	baseURL  string
	catalog  *catalog.Catalog
	client   *http.Client
}

// New builds the backend from the [google] section.
func New(cfg config.Google, c *catalog.Catalog, client *http.Client) *Backend {
	return &Backend{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		engineID: strings.TrimSpace(cfg.EngineID),
		baseURL:  strings.TrimSpace(cfg.BaseURL),
		catalog:  c,
		client:   client,
	}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Strategies() []search.Strategy {
	return []search.Strategy{search.StrategyFullSeries}
}

type response struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

func (b *Backend) Search(ctx context.Context, q search.Query, maxResults int) (search.Result, error) {
	if b.apiKey == "" || b.engineID == "" || b.baseURL == "" || b.client == nil {
		return search.Unavailable(), nil
	}
	num := maxResults
	if num <= 0 || num > maxPerRequest {
		num = maxPerRequest
	}

	params := url.Values{}
	params.Set("key", b.apiKey)
	params.Set("cx", b.engineID)
	params.Set("q", "site:"+b.catalog.Host()+" "+q.Text)
	params.Set("num", strconv.Itoa(num))
	endpoint := b.baseURL + "?" + params.Encode()

	body, _, err := search.Fetch(ctx, b.client, endpoint, http.Header{"Accept": {"application/json"}})
	if err != nil {
		return search.Result{}, redact(err, b.apiKey)
	}
	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return search.Result{}, fmt.Errorf("decode google response: %w", err)
	}

	links := make([]string, 0, len(payload.Items))
	titles := make(map[string]string, len(payload.Items))
	for _, item := range payload.Items {
		links = append(links, item.Link)
		titles[item.Link] = item.Title
	}
	urls := search.Collect(links, num, b.catalog.Accepts)
	result := search.Found(urls...)
	for i := range result.Candidates {
		result.Candidates[i].Title = titles[result.Candidates[i].URL]
	}
	return result, nil
}

const redacted = "REDACTED"

// redact removes the API key from err. Status errors and transport errors both
// carry the request URL, which includes the key.
func redact(err error, key string) error {
	if err == nil || key == "" {
		return err
	}
	escaped := url.QueryEscape(key)
	scrub := func(s string) string {
		s = strings.ReplaceAll(s, escaped, redacted)
		return strings.ReplaceAll(s, key, redacted)
	}

	var statusErr *search.HTTPStatusError
	if errors.As(err, &statusErr) {
		clean := *statusErr
		clean.URL = scrub(clean.URL)
		return &clean
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		clean := *urlErr
		clean.URL = scrub(clean.URL)
		if !strings.Contains(clean.Error(), key) && !strings.Contains(clean.Error(), escaped) {
			return &clean
		}
	}
	if msg := err.Error(); strings.Contains(msg, key) || strings.Contains(msg, escaped) {
		return errors.New(scrub(msg))
	}
	return err
}
