package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/prysk/prysk/internal/runner"
)

// debounceInterval is the delay after an fsnotify event before rerunning,
// so editors that write in several steps trigger a single run.
const debounceInterval = 100 * time.Millisecond

// watchLoop runs the tests once, then again every time a watched file
// changes, until the context is cancelled.
func watchLoop(ctx context.Context, paths []string, runOnce func() (*runner.Summary, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	slog.Info("watching for changes", "dirs", dirs)

	if _, err := runOnce(); err != nil {
		return err
	}

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if filepath.Ext(event.Name) != ".t" {
				continue
			}
			slog.Debug("change detected", "file", event.Name, "op", event.Op.String())
			// Collapse bursts of events into one rerun.
			if debounce == nil {
				debounce = time.AfterFunc(debounceInterval, func() {
					select {
					case rerun <- struct{}{}:
					default:
					}
				})
			} else {
				debounce.Reset(debounceInterval)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-rerun:
			debounce = nil
			slog.Debug("rerunning tests")
			if _, err := runOnce(); err != nil {
				return err
			}
		}
	}
}

// watchDirs maps the test arguments to the set of directories to watch:
// directories themselves, plus the parent of every named file.
func watchDirs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("no such test: %w", err)
		}
		dir := path
		if !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
