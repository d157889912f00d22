package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"pagefinder/internal/config"
)

func TestLoadDefaultConfigUsesEnvGoogleKeysAndExpandsPaths(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key-from-env")
	t.Setenv("GOOGLE_CSE_ID", "cse-from-env")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "pagefinder")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Journal.Path != filepath.Join(wantState, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.Journal.Path)
	}
	if cfg.Google.APIKey != "key-from-env" || cfg.Google.EngineID != "cse-from-env" {
		t.Fatalf("expected google credentials from env, got %q/%q", cfg.Google.APIKey, cfg.Google.EngineID)
	}
	if !cfg.GoogleConfigured() {
		t.Fatal("expected google to report configured")
	}
	if got := strings.Join(cfg.Search.Backends, ","); got != "duckduckgo,catalog,google" {
		t.Fatalf("unexpected backend order: %q", got)
	}
	if cfg.Store.FileName != "product-pages.txt" {
		t.Fatalf("unexpected store file name: %q", cfg.Store.FileName)
	}
	if cfg.Search.PacingMinSeconds != 10 || cfg.Search.PacingMaxSeconds != 15 {
		t.Fatalf("unexpected pacing window: %v-%v", cfg.Search.PacingMinSeconds, cfg.Search.PacingMaxSeconds)
	}
	if !cfg.Search.Reconcile {
		t.Fatal("expected reconcile enabled by default")
	}
	if len(cfg.Catalog.ExcludedProducts) != 6 {
		t.Fatalf("unexpected excluded products: %v", cfg.Catalog.ExcludedProducts)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_CSE_ID", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "pagefinder.toml")

	type payload struct {
		Search struct {
			Backends         []string `toml:"backends"`
			PacingMinSeconds float64  `toml:"pacing_min_seconds"`
			PacingMaxSeconds float64  `toml:"pacing_max_seconds"`
		} `toml:"search"`
		Catalog struct {
			BaseURL     string `toml:"base_url"`
			ProductPath string `toml:"product_path"`
		} `toml:"catalog"`
		Journal struct {
			Path string `toml:"path"`
		} `toml:"journal"`
	}
	custom := payload{}
	custom.Search.Backends = []string{" Catalog ", "duckduckgo", "catalog"}
	custom.Search.PacingMinSeconds = 1
	custom.Search.PacingMaxSeconds = 2
	custom.Catalog.BaseURL = "https://shop.example.com/"
	custom.Catalog.ProductPath = "products"
	custom.Journal.Path = filepath.Join(tempDir, "j.db")

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if got := strings.Join(cfg.Search.Backends, ","); got != "catalog,duckduckgo" {
		t.Fatalf("expected normalized deduplicated backends, got %q", got)
	}
	if cfg.Catalog.BaseURL != "https://shop.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.ProductPath != "/products/" {
		t.Fatalf("expected product path normalized, got %q", cfg.Catalog.ProductPath)
	}
	if cfg.Search.PacingMaxSeconds != 2 {
		t.Fatalf("unexpected pacing max: %v", cfg.Search.PacingMaxSeconds)
	}
	if cfg.Journal.Path != filepath.Join(tempDir, "j.db") {
		t.Fatalf("unexpected journal path: %q", cfg.Journal.Path)
	}
	if cfg.GoogleConfigured() {
		t.Fatal("expected google unconfigured without credentials")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown backend",
			content: "[search]\nbackends = [\"bing\"]\n",
			wantErr: "unknown backend",
		},
		{
			name:    "inverted pacing",
			content: "[search]\npacing_min_seconds = 5.0\npacing_max_seconds = 1.0\n",
			wantErr: "pacing_max_seconds",
		},
		{
			name:    "relative catalog url",
			content: "[catalog]\nbase_url = \"bjjfanatics.com\"\n",
			wantErr: "absolute URL",
		},
		{
			name:    "store file with directory",
			content: "[store]\nfile_name = \"sub/pages.txt\"\n",
			wantErr: "bare file name",
		},
		{
			name:    "malformed toml",
			content: "[search\n",
			wantErr: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pagefinder.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	defaults := config.Default()
	if cfg.Search.MaxResults != defaults.Search.MaxResults {
		t.Fatalf("sample max_results %d differs from default %d", cfg.Search.MaxResults, defaults.Search.MaxResults)
	}
	if cfg.DuckDuckGo.BaseURL != defaults.DuckDuckGo.BaseURL {
		t.Fatalf("sample duckduckgo url %q differs from default", cfg.DuckDuckGo.BaseURL)
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/videos")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "videos") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
