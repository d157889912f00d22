package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"pagefinder/internal/config"
	"pagefinder/internal/testsupport"
)

const catalogPage = `<html><body><ul>
<li><a href="/products/gift-card">Gift Card</a></li>
<li><a href="/products/just-stand-up-by-craig-jones?_pos=1">Just Stand Up by Craig Jones</a></li>
</ul></body></html>`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	videoDir   string
	server     *httptest.Server
	searches   *atomic.Int32
	// onSearch, when set, runs inside the handler for every search request.
	onSearch func()
}

// setupCLITestEnv points the catalog backend at a local server that answers
// every search with catalogPage, or with an empty page when empty is set.
func setupCLITestEnv(t *testing.T, empty bool) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_CSE_ID", "")

	env := &cliTestEnv{
		videoDir: filepath.Join(base, "videos"),
		searches: new(atomic.Int32),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		env.searches.Add(1)
		if env.onSearch != nil {
			env.onSearch()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if empty {
			fmt.Fprint(w, "<html><body><p>No results</p></body></html>")
			return
		}
		fmt.Fprint(w, catalogPage)
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t,
		testsupport.WithBackends(config.BackendCatalogSearch),
		testsupport.WithCatalogBaseURL(server.URL),
	)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	env.cfg = cfg
	env.configPath = configPath
	env.server = server
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args, configPath)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	quoted := make([]string, len(cfg.Search.Backends))
	for i, name := range cfg.Search.Backends {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[search]
backends = [%s]
pacing_min_seconds = %.1f
pacing_max_seconds = %.1f

[catalog]
base_url = %q

[journal]
enabled = %t
path = %q
`,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		strings.Join(quoted, ", "),
		cfg.Search.PacingMinSeconds,
		cfg.Search.PacingMaxSeconds,
		cfg.Catalog.BaseURL,
		cfg.Journal.Enabled,
		cfg.Journal.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
