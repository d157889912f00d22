package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSearch() error {
	if len(c.Search.Backends) == 0 {
		return errors.New("search.backends must list at least one backend")
	}
	for _, name := range c.Search.Backends {
		switch name {
		case BackendDuckDuckGo, BackendCatalogSearch, BackendGoogle:
		default:
			return fmt.Errorf("search.backends: unknown backend %q (valid: %s)", name, strings.Join(DefaultBackends(), ", "))
		}
	}
	if err := ensurePositiveMap(map[string]int{
		"search.max_results":     c.Search.MaxResults,
		"search.timeout_seconds": c.Search.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Search.PacingMaxSeconds < c.Search.PacingMinSeconds {
		return errors.New("search.pacing_max_seconds must be >= search.pacing_min_seconds")
	}
	if c.Search.ProxyURL != "" {
		if _, err := url.Parse(c.Search.ProxyURL); err != nil {
			return fmt.Errorf("search.proxy_url: %w", err)
		}
	}
	return nil
}

func (c *Config) validateCatalog() error {
	parsed, err := url.Parse(c.Catalog.BaseURL)
	if err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("catalog.base_url must be an absolute URL, got %q", c.Catalog.BaseURL)
	}
	if strings.Trim(c.Catalog.ProductPath, "/") == "" {
		return errors.New("catalog.product_path must not be empty")
	}
	return nil
}

func (c *Config) validateStore() error {
	if strings.ContainsAny(c.Store.FileName, `/\`) {
		return fmt.Errorf("store.file_name must be a bare file name, got %q", c.Store.FileName)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
