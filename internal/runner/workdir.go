package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// CwdGuard is a scoped working-directory change. Cwd is process-global
// state, so the runner executes tests sequentially and restores the
// previous directory on every exit path via a deferred Restore.
type CwdGuard struct {
	prev string
}

// EnterDir changes into dir and returns a guard restoring the previous
// working directory.
func EnterDir(dir string) (*CwdGuard, error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("reading working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return nil, fmt.Errorf("entering %s: %w", dir, err)
	}
	return &CwdGuard{prev: prev}, nil
}

// Restore returns to the directory that was current when the guard was
// created.
func (g *CwdGuard) Restore() error {
	if err := os.Chdir(g.prev); err != nil {
		return fmt.Errorf("restoring working directory: %w", err)
	}
	return nil
}

// testWorkDir creates a unique scratch directory for one test under the
// run's base temp dir.
func testWorkDir(base, testName string) (string, error) {
	dir := filepath.Join(base, testName, ulid.Make().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating work directory: %w", err)
	}
	return dir, nil
}
