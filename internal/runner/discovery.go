package runner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindTests resolves the caller-supplied paths to the ordered list of test
// files to run. Directories are walked recursively for non-hidden ".t"
// files (sorted within each directory argument); explicitly named files
// must be regular ".t" files but are accepted even when hidden. The
// result preserves first-occurrence order and contains each path once.
func FindTests(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("no such test: %w", err)
		}
		switch {
		case info.Mode().IsRegular():
			if filepath.Ext(path) != ".t" {
				return nil, fmt.Errorf("not a test file: %s", path)
			}
			add(path)
		case info.IsDir():
			found, err := collectDir(path)
			if err != nil {
				return nil, err
			}
			for _, p := range found {
				add(p)
			}
		default:
			return nil, fmt.Errorf("not a test file: %s", path)
		}
	}
	return out, nil
}

// collectDir walks dir for non-hidden ".t" regular files, sorted.
func collectDir(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && filepath.Ext(path) == ".t" && d.Type().IsRegular() {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(found)
	return found, nil
}

// hidden reports whether a single path component is hidden: it starts
// with a dot and is not the "." or ".." pseudo-entry.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
