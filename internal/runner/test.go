// Package runner glues the transcript engine together: it prepares the
// environment, drives the shell, reconstructs the transcript, diffs it
// against the original and classifies the outcome.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prysk/prysk/internal/diff"
	"github.com/prysk/prysk/internal/shell"
	"github.com/prysk/prysk/internal/transcript"
)

// Options is the per-run configuration surface.
type Options struct {
	// Shell is the argv of the shell to drive. Defaults to ["/bin/sh"].
	Shell []string
	// Indent is the transcript indent width. Defaults to 2.
	Indent int
	// Env is the base environment mapping; nil means a copy of the
	// ambient environment.
	Env map[string]string
	// CleanEnv applies the locale/timezone overrides to the child.
	CleanEnv bool
	// Debug runs the shell with inherited stdio and skips capture and
	// comparison entirely.
	Debug bool
	// TestName, when set, labels the diff output.
	TestName string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Shell:    []string{"/bin/sh"},
		Indent:   transcript.DefaultIndent,
		CleanEnv: true,
	}
}

func (o *Options) fillDefaults() {
	if len(o.Shell) == 0 {
		o.Shell = []string{"/bin/sh"}
	}
	if o.Indent <= 0 {
		o.Indent = transcript.DefaultIndent
	}
}

// Result is the outcome of running one transcript.
type Result struct {
	// Refout is the original transcript as byte-lines.
	Refout [][]byte
	// Postout is the reconstructed transcript, or nil when the test was
	// skipped via the exit-80 sentinel (or run in debug mode).
	Postout [][]byte
	// Diff is the pattern-aware unified diff between Refout and Postout;
	// empty on success and on skips.
	Diff [][]byte
}

// Skipped reports whether the run hit the skip sentinel. Debug runs have
// no reference lines either and are not considered skipped.
func (r *Result) Skipped() bool { return r != nil && r.Postout == nil && r.Refout != nil }

// Failed reports whether the comparison produced differences.
func (r *Result) Failed() bool { return r != nil && len(r.Diff) > 0 }

// Test runs the transcript given as raw byte-lines and returns the
// reference lines, the reconstructed lines and their diff.
func Test(ctx context.Context, lines [][]byte, opts Options) (*Result, error) {
	opts.fillDefaults()
	t := transcript.Parse(lines, opts.Indent)
	env := shell.Environ(opts.Env, opts.Shell[0], opts.CleanEnv)

	if opts.Debug {
		if err := shell.RunDebug(ctx, opts.Shell, shell.DebugScript(t), env); err != nil {
			return nil, err
		}
		return &Result{}, nil
	}

	salt := shell.Salt(time.Now())
	res, err := shell.Run(ctx, opts.Shell, shell.Script(t, salt), env)
	if err != nil {
		return nil, err
	}
	if res.ExitCode == shell.SkipCode {
		return &Result{Refout: t.Lines}, nil
	}

	postout := transcript.Reconstruct(t, res.Output, salt)
	postout = diff.KeepMatching(t.Lines, postout)

	fromFile, toFile := "", ""
	if opts.TestName != "" {
		fromFile = opts.TestName
		toFile = opts.TestName + ".err"
	}
	return &Result{
		Refout:  t.Lines,
		Postout: postout,
		Diff:    diff.Unified(t.Lines, postout, fromFile, toFile),
	}, nil
}

// TestBytes runs a transcript given as one byte string.
func TestBytes(ctx context.Context, b []byte, opts Options) (*Result, error) {
	return Test(ctx, transcript.SplitLines(b), opts)
}

// TestFile runs the transcript at path. TESTDIR and TESTFILE are exported
// to the child on top of the base environment, and the file's path labels
// the diff unless the caller chose another name.
func TestFile(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.fillDefaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving test file path: %w", err)
	}
	env := opts.Env
	if env == nil {
		env = shell.EnvironMap()
	} else {
		copied := make(map[string]string, len(env)+2)
		for k, v := range env {
			copied[k] = v
		}
		env = copied
	}
	env["TESTDIR"] = filepath.Dir(abs)
	env["TESTFILE"] = filepath.Base(abs)
	opts.Env = env

	if opts.TestName == "" {
		opts.TestName = path
	}
	return Test(ctx, transcript.SplitLines(b), opts)
}
