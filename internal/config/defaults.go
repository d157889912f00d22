package config

const (
	defaultConfigPath           = "~/.config/pagefinder/config.toml"
	defaultStateDir             = "~/.local/share/pagefinder"
	defaultLogDir               = "~/.local/share/pagefinder/logs"
	defaultJournalFile          = "journal.db"
	defaultStoreFileName        = "product-pages.txt"
	defaultCatalogBaseURL       = "https://bjjfanatics.com"
	defaultCatalogProductPath   = "/products/"
	defaultDuckDuckGoBaseURL    = "https://html.duckduckgo.com/html/"
	defaultGoogleBaseURL        = "https://www.googleapis.com/customsearch/v1"
	defaultSearchMaxResults     = 5
	defaultSearchTimeoutSeconds = 10
	defaultSearchRetryMax       = 2
	defaultPacingMinSeconds     = 10
	defaultPacingMaxSeconds     = 15
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Backend names recognised in search.backends.
const (
	BackendDuckDuckGo    = "duckduckgo"
	BackendCatalogSearch = "catalog"
	BackendGoogle        = "google"
)

// DefaultBackends is the built-in priority order: least rate-limited first,
// most brittle last.
func DefaultBackends() []string {
	return []string{BackendDuckDuckGo, BackendCatalogSearch, BackendGoogle}
}

func defaultExcludedProducts() []string {
	return []string{
		"atos2025",
		"gift-card",
		"retreat",
		"insiders-club",
		"vip-retreat",
		"fanatics-retreat",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Search: Search{
			Backends:         DefaultBackends(),
			MaxResults:       defaultSearchMaxResults,
			TimeoutSeconds:   defaultSearchTimeoutSeconds,
			RetryMax:         defaultSearchRetryMax,
			PacingMinSeconds: defaultPacingMinSeconds,
			PacingMaxSeconds: defaultPacingMaxSeconds,
			Reconcile:        true,
		},
		Catalog: Catalog{
			BaseURL:          defaultCatalogBaseURL,
			ProductPath:      defaultCatalogProductPath,
			ExcludedProducts: defaultExcludedProducts(),
		},
		Store: Store{
			FileName: defaultStoreFileName,
		},
		DuckDuckGo: DuckDuckGo{
			Enabled: true,
			BaseURL: defaultDuckDuckGoBaseURL,
		},
		CatalogSearch: CatalogSearch{
			Enabled: true,
		},
		Google: Google{
			BaseURL: defaultGoogleBaseURL,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
