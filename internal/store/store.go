package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"pagefinder/internal/logging"
)

// DefaultFileName is the result file written beside the videos.
const DefaultFileName = "product-pages.txt"

// legacySeparators mark older "<index><arrow><url>" lines.
var legacySeparators = []string{"→", "->"}

// ErrLocked reports that another process holds the result file.
var ErrLocked = errors.New("result file is locked by another pagefinder process")

// Store is the append-only record of accepted product URLs. Every Append is
// flushed to disk before it returns; a crash loses nothing already appended.
type Store struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger

	mu    sync.Mutex
	urls  []string
	known map[string]struct{}
}

// Open acquires the single-writer lock beside path and loads existing
// records. A missing file is an empty store; it is created on first Append.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}
	logger = logging.NewComponentLogger(logger, "store")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	lock := flock.New(lockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	s := &Store{
		path:   path,
		lock:   lock,
		logger: logger,
		known:  make(map[string]struct{}),
	}
	if _, err := s.Load(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return s, nil
}

func lockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}

// Path returns the result file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the single-writer lock.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release store lock: %w", err)
	}
	return nil
}

// Load re-reads the result file and returns the known URLs in file order,
// each once. Current-format lines, legacy "N→URL" lines, blank lines and
// "#" comments are all accepted.
func (s *Store) Load() ([]string, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.reset(nil)
			s.logger.Debug("no existing result file", logging.String("path", s.path))
			return nil, nil
		}
		return nil, fmt.Errorf("open result file: %w", err)
	}
	defer file.Close()

	urls, skipped, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read result file: %w", err)
	}
	if skipped > 0 {
		logging.WarnWithContext(s.logger, "ignored unrecognized lines in result file", "store_lines_ignored",
			logging.String("path", s.path),
			logging.Int("skipped", skipped),
			logging.String(logging.FieldImpact, "those lines are not reused"),
			logging.String(logging.FieldErrorHint, "run `pagefinder store compact` to rewrite the file"),
		)
	}
	s.reset(urls)
	s.logger.Debug("loaded result file", logging.String("path", s.path), logging.Int("urls", len(urls)))
	return append([]string(nil), urls...), nil
}

func (s *Store) reset(urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append([]string(nil), urls...)
	s.known = make(map[string]struct{}, len(urls))
	for _, u := range urls {
		s.known[u] = struct{}{}
	}
}

// URLs returns the known URLs in file order.
func (s *Store) URLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.urls...)
}

// Contains reports whether url is already recorded.
func (s *Store) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.known[strings.TrimSpace(url)]
	return ok
}

// Append writes url plus a newline and fsyncs before returning. Prior content
// is never read or truncated. A URL already present is not written again.
func (s *Store) Append(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("append: empty url")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.known[url]; ok {
		s.logger.Debug("url already recorded", logging.String("url", url))
		return nil
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open result file for append: %w", err)
	}
	if _, err := io.WriteString(file, url+"\n"); err != nil {
		file.Close()
		return fmt.Errorf("append result: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("sync result file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close result file: %w", err)
	}

	s.urls = append(s.urls, url)
	s.known[url] = struct{}{}
	s.logger.Debug("appended result", logging.String("url", url), logging.String("path", s.path))
	return nil
}

// Overwrite replaces the file with urls in the current format, each URL once,
// via a synced temp file and rename.
func (s *Store) Overwrite(urls []string) error {
	unique := dedupe(urls)

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	writer := bufio.NewWriter(tmp)
	for _, u := range unique {
		if _, err := writer.WriteString(u + "\n"); err != nil {
			cleanup()
			return fmt.Errorf("write temp file: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.urls = unique
	s.known = make(map[string]struct{}, len(unique))
	for _, u := range unique {
		s.known[u] = struct{}{}
	}
	s.logger.Debug("rewrote result file", logging.String("path", s.path), logging.Int("urls", len(unique)))
	return nil
}

// Read parses result-file content, returning URLs in order without
// duplicates and the count of non-empty, non-comment lines it could not use.
func Read(r io.Reader) ([]string, int, error) {
	var lines []string
	skipped := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		url, ok := ParseLine(line)
		if !ok {
			skipped++
			continue
		}
		lines = append(lines, url)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return dedupe(lines), skipped, nil
}

// ParseLine extracts the URL from one result-file line in either the current
// or the legacy format.
func ParseLine(line string) (string, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
	if strings.HasPrefix(line, "http") {
		return line, true
	}
	for _, sep := range legacySeparators {
		if _, rest, found := strings.Cut(line, sep); found {
			rest = strings.TrimSpace(rest)
			if strings.HasPrefix(rest, "http") {
				return rest, true
			}
		}
	}
	return "", false
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
