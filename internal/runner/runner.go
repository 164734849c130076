package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Outcome classifies one executed test file.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	Skipped
	Empty
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	case Empty:
		return "empty"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// TestOutcome pairs a test path with its classification and result.
type TestOutcome struct {
	Path    string
	Outcome Outcome
	// Result is nil for empty tests.
	Result *Result
}

// Summary aggregates a whole run.
type Summary struct {
	Tests   []TestOutcome
	Total   int
	Failed  int
	Skipped int
	Empty   int
}

// Runner executes a set of test files sequentially, each in its own
// scratch directory, firing lifecycle events along the way.
type Runner struct {
	opts     Options
	registry *Registry
	// KeepTmp leaves the per-test scratch directories behind after the
	// run for post-mortem inspection.
	KeepTmp bool
}

// New returns a Runner executing tests with opts.
func New(opts Options) *Runner {
	return &Runner{opts: opts, registry: NewRegistry()}
}

// Events exposes the runner's event registry for hook and observer
// registration.
func (r *Runner) Events() *Registry { return r.registry }

// Run discovers, executes and classifies every test reachable from paths.
// Event-hook panics are collected and returned alongside the summary; an
// execution error aborts the run.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	files, err := FindTests(paths)
	if err != nil {
		return nil, err
	}

	base, err := os.MkdirTemp("", "prysk-tests-")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	if !r.KeepTmp {
		defer os.RemoveAll(base)
	}

	var hookErrs []error
	trigger := func(event, path string, res *Result) {
		if err := r.registry.Trigger(event, path, res); err != nil {
			hookErrs = append(hookErrs, err)
		}
	}

	summary := &Summary{}
	trigger(EventPreRun, "", nil)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trigger(EventPreTest, path, nil)
		outcome, err := r.runOne(ctx, base, path)
		if err != nil {
			return nil, fmt.Errorf("running %s: %w", path, err)
		}
		summary.Tests = append(summary.Tests, outcome)
		summary.Total++
		switch outcome.Outcome {
		case Empty:
			summary.Empty++
			trigger(EventEmptyTest, path, nil)
		case Skipped:
			summary.Skipped++
			trigger(EventSkippedTest, path, outcome.Result)
		case Succeeded:
			trigger(EventSucceededTest, path, outcome.Result)
		case Failed:
			summary.Failed++
			trigger(EventFailedTest, path, outcome.Result)
		}
		trigger(EventPostTest, path, outcome.Result)
	}
	trigger(EventPostRun, "", nil)
	return summary, errors.Join(hookErrs...)
}

func (r *Runner) runOne(ctx context.Context, base, path string) (TestOutcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return TestOutcome{}, err
	}
	if info.Size() == 0 {
		return TestOutcome{Path: path, Outcome: Empty}, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return TestOutcome{}, err
	}
	workdir, err := testWorkDir(base, filepath.Base(path))
	if err != nil {
		return TestOutcome{}, err
	}

	guard, err := EnterDir(workdir)
	if err != nil {
		return TestOutcome{}, err
	}
	defer guard.Restore()

	opts := r.opts
	opts.TestName = path
	res, err := TestFile(ctx, abs, opts)
	if err != nil {
		return TestOutcome{}, err
	}

	outcome := TestOutcome{Path: path, Result: res}
	switch {
	case res.Skipped():
		outcome.Outcome = Skipped
	case res.Failed():
		outcome.Outcome = Failed
	default:
		outcome.Outcome = Succeeded
	}
	return outcome, nil
}
