package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSearch()
	c.normalizeCatalog()
	c.normalizeStore()
	c.normalizeBackends()
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSearch() {
	if len(c.Search.Backends) == 0 {
		c.Search.Backends = DefaultBackends()
	} else {
		names := make([]string, 0, len(c.Search.Backends))
		seen := make(map[string]struct{}, len(c.Search.Backends))
		for _, name := range c.Search.Backends {
			normalized := strings.ToLower(strings.TrimSpace(name))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			names = append(names, normalized)
		}
		c.Search.Backends = names
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaultSearchMaxResults
	}
	if c.Search.TimeoutSeconds <= 0 {
		c.Search.TimeoutSeconds = defaultSearchTimeoutSeconds
	}
	if c.Search.RetryMax < 0 {
		c.Search.RetryMax = 0
	}
	if c.Search.PacingMinSeconds < 0 {
		c.Search.PacingMinSeconds = 0
	}
	if c.Search.PacingMaxSeconds < 0 {
		c.Search.PacingMaxSeconds = 0
	}
	c.Search.ProxyURL = strings.TrimSpace(c.Search.ProxyURL)
}

func (c *Config) normalizeCatalog() {
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	c.Catalog.ProductPath = strings.TrimSpace(c.Catalog.ProductPath)
	if c.Catalog.ProductPath == "" {
		c.Catalog.ProductPath = defaultCatalogProductPath
	}
	if !strings.HasPrefix(c.Catalog.ProductPath, "/") {
		c.Catalog.ProductPath = "/" + c.Catalog.ProductPath
	}
	if !strings.HasSuffix(c.Catalog.ProductPath, "/") {
		c.Catalog.ProductPath += "/"
	}
	excluded := make([]string, 0, len(c.Catalog.ExcludedProducts))
	for _, slug := range c.Catalog.ExcludedProducts {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug != "" {
			excluded = append(excluded, slug)
		}
	}
	c.Catalog.ExcludedProducts = excluded
}

func (c *Config) normalizeStore() {
	c.Store.FileName = strings.TrimSpace(c.Store.FileName)
	if c.Store.FileName == "" {
		c.Store.FileName = defaultStoreFileName
	}
}

func (c *Config) normalizeBackends() {
	c.DuckDuckGo.BaseURL = strings.TrimSpace(c.DuckDuckGo.BaseURL)
	if c.DuckDuckGo.BaseURL == "" {
		c.DuckDuckGo.BaseURL = defaultDuckDuckGoBaseURL
	}

	c.Google.APIKey = strings.TrimSpace(c.Google.APIKey)
	if c.Google.APIKey == "" {
		if value, ok := os.LookupEnv("GOOGLE_API_KEY"); ok {
			c.Google.APIKey = strings.TrimSpace(value)
		}
	}
	c.Google.EngineID = strings.TrimSpace(c.Google.EngineID)
	if c.Google.EngineID == "" {
		if value, ok := os.LookupEnv("GOOGLE_CSE_ID"); ok {
			c.Google.EngineID = strings.TrimSpace(value)
		}
	}
	c.Google.BaseURL = strings.TrimSpace(c.Google.BaseURL)
	if c.Google.BaseURL == "" {
		c.Google.BaseURL = defaultGoogleBaseURL
	}
}

func (c *Config) normalizeJournal() error {
	var err error
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = filepath.Join(c.Paths.StateDir, defaultJournalFile)
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
