package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagefinder/internal/finder"
	"pagefinder/internal/store"
	"pagefinder/internal/testsupport"
)

func TestStorePathUsesCommonDirectory(t *testing.T) {
	env := setupCLITestEnv(t, false)
	videos := testsupport.WriteVideos(t, env.videoDir,
		filepath.Join("vol1", "GuardbyJohnDanaher1.mp4"),
		filepath.Join("vol2", "GuardbyJohnDanaher2.mp4"),
	)

	out, _, err := runCLI(t, append([]string{"store", "path"}, videos...), env.configPath)
	if err != nil {
		t.Fatalf("store path: %v", err)
	}
	want := filepath.Join(env.videoDir, store.DefaultFileName)
	if strings.TrimSpace(out) != want {
		t.Fatalf("store path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestStorePathWithoutVideos(t *testing.T) {
	env := setupCLITestEnv(t, false)
	_, _, err := runCLI(t, []string{"store", "path", filepath.Join(env.videoDir, "missing")}, env.configPath)
	if !errors.Is(err, finder.ErrNoVideos) {
		t.Fatalf("expected ErrNoVideos, got %v", err)
	}
}

func TestStoreCompactRewritesLegacyLines(t *testing.T) {
	env := setupCLITestEnv(t, false)
	testsupport.WriteVideos(t, env.videoDir, "LegLocksbyCraigJones.mp4")
	path := filepath.Join(env.videoDir, store.DefaultFileName)
	legacy := "# kept by hand\n" +
		"1→https://bjjfanatics.com/products/leg-locks-by-craig-jones\n" +
		"2 -> https://bjjfanatics.com/products/guard-by-john-danaher\n" +
		"https://bjjfanatics.com/products/leg-locks-by-craig-jones\n"
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, _, err := runCLI(t, []string{"store", "compact", env.videoDir}, env.configPath)
	if err != nil {
		t.Fatalf("store compact: %v", err)
	}
	requireContains(t, out, "(2 URLs)")

	lines := testsupport.ReadLines(t, path)
	want := []string{
		"https://bjjfanatics.com/products/leg-locks-by-craig-jones",
		"https://bjjfanatics.com/products/guard-by-john-danaher",
	}
	if len(lines) != len(want) {
		t.Fatalf("compacted file = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
