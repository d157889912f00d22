package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Search contains cascade and pacing configuration shared by every backend.
type Search struct {
	// Backends lists backend names in priority order (most reliable first).
	Backends         []string `toml:"backends"`
	MaxResults       int      `toml:"max_results"`
	TimeoutSeconds   int      `toml:"timeout_seconds"`
	RetryMax         int      `toml:"retry_max"`
	PacingMinSeconds float64  `toml:"pacing_min_seconds"`
	PacingMaxSeconds float64  `toml:"pacing_max_seconds"`
	Reconcile        bool     `toml:"reconcile"`
	ProxyURL         string   `toml:"proxy_url"`
}

// Catalog describes the external catalog site product pages live on.
type Catalog struct {
	BaseURL          string   `toml:"base_url"`
	ProductPath      string   `toml:"product_path"`
	ExcludedProducts []string `toml:"excluded_products"`
}

// Store contains configuration for the persisted result file.
type Store struct {
	FileName string `toml:"file_name"`
}

// DuckDuckGo contains configuration for the DuckDuckGo HTML backend.
type DuckDuckGo struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

// CatalogSearch contains configuration for the catalog's own search page.
type CatalogSearch struct {
	Enabled bool `toml:"enabled"`
}

// Google contains configuration for the Google Custom Search JSON API.
type Google struct {
	APIKey   string `toml:"api_key"`
	EngineID string `toml:"engine_id"`
	BaseURL  string `toml:"base_url"`
}

// Journal contains configuration for the search attempt journal.
type Journal struct {
	Enabled bool   `toml:"enabled"` // Default: true
	Path    string `toml:"path"`    // Default: <state_dir>/journal.db
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for pagefinder.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - Search: backend priority, pacing, timeouts, reconciliation toggle
//   - Catalog: catalog host, product path marker, promo exclusions
//   - Store: persisted result file name
//   - DuckDuckGo / CatalogSearch / Google: per-backend settings
//   - Journal: SQLite attempt journal
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Search        Search        `toml:"search"`
	Catalog       Catalog       `toml:"catalog"`
	Store         Store         `toml:"store"`
	DuckDuckGo    DuckDuckGo    `toml:"duckduckgo"`
	CatalogSearch CatalogSearch `toml:"catalog_search"`
	Google        Google        `toml:"google"`
	Journal       Journal       `toml:"journal"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pagefinder.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and, when the journal is
// enabled, the journal's parent directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Journal.Path), 0o755); err != nil {
			return fmt.Errorf("create journal directory: %w", err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SearchTimeout returns the per-request timeout in seconds, never below one.
func (c *Config) SearchTimeout() int {
	if c.Search.TimeoutSeconds <= 0 {
		return defaultSearchTimeoutSeconds
	}
	return c.Search.TimeoutSeconds
}

// GoogleConfigured reports whether Google Custom Search credentials are present.
func (c *Config) GoogleConfigured() bool {
	return strings.TrimSpace(c.Google.APIKey) != "" && strings.TrimSpace(c.Google.EngineID) != ""
}
