package testsupport

import (
	"path/filepath"
	"testing"

	"pagefinder/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Pacing is zeroed and Google credentials are cleared so tests never wait or
// reach the network by accident.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Journal.Path = filepath.Join(base, "state", "journal.db")
	cfgVal.Search.PacingMinSeconds = 0
	cfgVal.Search.PacingMaxSeconds = 0
	cfgVal.Google.APIKey = ""
	cfgVal.Google.EngineID = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackends overrides the backend priority list.
func WithBackends(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.Backends = append([]string(nil), names...)
	}
}

// WithPacing sets the pacing window in seconds.
func WithPacing(minSeconds, maxSeconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.PacingMinSeconds = minSeconds
		b.cfg.Search.PacingMaxSeconds = maxSeconds
	}
}

// WithJournal enables or disables the attempt journal.
func WithJournal(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = enabled
	}
}

// WithCatalogBaseURL points the catalog (and its search backend) at baseURL.
func WithCatalogBaseURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BaseURL = baseURL
	}
}
