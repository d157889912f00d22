package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pagefinder/internal/logging"
)

// VideoFile is a discovered video on disk.
type VideoFile struct {
	Path string // absolute
	Name string // base name including extension
}

// Result carries discovered files plus the inputs that could not be used.
// Unreadable inputs exist but could not be stat'ed or listed.
type Result struct {
	Files      []VideoFile
	Missing    []string
	Unreadable []string
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".avi":  {},
	".mkv":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
}

// IsVideo reports whether name carries a recognized video extension.
func IsVideo(name string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Discover expands paths into video files. Directories are walked
// recursively; plain files are kept when their extension is recognized.
// Missing and unreadable inputs are logged and reported in the Result rather
// than failing the call. Output is sorted by path and free of duplicates.
func Discover(paths []string, logger *slog.Logger) (Result, error) {
	logger = logging.NewComponentLogger(logger, "discovery")

	var result Result
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		result.Files = append(result.Files, VideoFile{Path: path, Name: filepath.Base(path)})
	}

	for _, raw := range paths {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		abs, err := filepath.Abs(raw)
		if err != nil {
			return Result{}, fmt.Errorf("resolve %q: %w", raw, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.WarnWithContext(logger, "input path not found", "path_missing",
					logging.String("path", abs),
					logging.String(logging.FieldImpact, "path skipped"),
					logging.String(logging.FieldErrorHint, "check the path spelling"),
				)
				result.Missing = append(result.Missing, abs)
				continue
			}
			skipUnreadable(logger, &result, abs, err)
			continue
		}

		if !info.IsDir() {
			if IsVideo(abs) {
				add(abs)
			} else {
				logger.Debug("skipping non-video input", logging.String("path", abs))
			}
			continue
		}

		logger.Debug("scanning directory", logging.String("path", abs))
		walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == abs {
					skipUnreadable(logger, &result, abs, err)
					return filepath.SkipDir
				}
				logging.WarnWithContext(logger, "unreadable entry during scan", "scan_entry_error",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldImpact, "entry skipped"),
				)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if IsVideo(d.Name()) {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return Result{}, fmt.Errorf("scan %q: %w", abs, walkErr)
		}
	}

	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })
	return result, nil
}

func skipUnreadable(logger *slog.Logger, result *Result, path string, err error) {
	logging.WarnWithContext(logger, "input path unreadable", "path_unreadable",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldImpact, "path skipped"),
		logging.String(logging.FieldErrorHint, "check permissions on the path"),
	)
	if len(result.Unreadable) == 0 || result.Unreadable[len(result.Unreadable)-1] != path {
		result.Unreadable = append(result.Unreadable, path)
	}
}

// Paths returns the absolute paths of files in order.
func Paths(files []VideoFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
