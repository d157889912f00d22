package store

import (
	"os"
	"path/filepath"
	"strings"
)

// Location derives the result file path from the discovered video paths: a
// single video uses its own directory; several videos use the deepest
// directory containing all of them. Without paths, the working directory is
// used.
func Location(videoPaths []string, fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return filepath.Join(commonDir(videoPaths), fileName)
}

func commonDir(videoPaths []string) string {
	var common []string
	var root string
	for i, p := range videoPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		dir := filepath.Dir(abs)
		vol := filepath.VolumeName(dir)
		parts := splitDir(dir[len(vol):])
		if i == 0 || root == "" {
			root = vol + string(filepath.Separator)
			common = parts
			continue
		}
		if vol+string(filepath.Separator) != root {
			return workingDir()
		}
		common = commonPrefix(common, parts)
	}
	if root == "" {
		return workingDir()
	}
	return filepath.Join(append([]string{root}, common...)...)
}

func splitDir(dir string) []string {
	var parts []string
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func commonPrefix(a, b []string) []string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
