package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/prysk/prysk/internal/runner"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
	addColor  = color.New(color.FgGreen)
	delColor  = color.New(color.FgRed)
	hdrColor  = color.New(color.FgCyan)
)

// reporter prints test progress, diffs for failures, and maintains the
// .err file next to each test: written on failure, removed once the test
// passes again.
type reporter struct {
	runner.NopObserver

	out     io.Writer
	verbose bool
	quiet   bool
	dots    bool // a dot line is open and needs a newline before a diff
}

func newReporter(out io.Writer, verbose, quiet bool) *reporter {
	return &reporter{out: out, verbose: verbose, quiet: quiet}
}

func (r *reporter) SucceededTest(path string) {
	r.status(path, okColor, "ok", ".")
	if err := os.Remove(path + ".err"); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove stale err file", "path", path+".err", "error", err)
	}
}

func (r *reporter) SkippedTest(path string) {
	r.status(path, skipColor, "skipped", "s")
}

func (r *reporter) EmptyTest(path string) {
	r.status(path, skipColor, "empty", "s")
}

func (r *reporter) FailedTest(path string, res *runner.Result) {
	r.status(path, failColor, "FAILED", "!")
	if res == nil {
		return
	}
	if err := writeErrFile(path, res); err != nil {
		slog.Warn("failed to write err file", "path", path+".err", "error", err)
	}
	if r.quiet {
		return
	}
	r.breakDots()
	for _, line := range res.Diff {
		printDiffLine(r.out, line)
	}
}

func (r *reporter) status(path string, c *color.Color, word, dot string) {
	if r.verbose {
		fmt.Fprintf(r.out, "%s: %s\n", path, c.Sprint(word))
		return
	}
	fmt.Fprint(r.out, dot)
	r.dots = true
}

func (r *reporter) breakDots() {
	if r.dots {
		fmt.Fprintln(r.out)
		r.dots = false
	}
}

// Summarize prints the closing tally.
func (r *reporter) Summarize(s *runner.Summary) {
	r.breakDots()
	line := fmt.Sprintf("# Ran %d tests, %d skipped, %d failed.", s.Total, s.Skipped, s.Failed)
	if s.Failed > 0 {
		failColor.Fprintln(r.out, line)
		return
	}
	fmt.Fprintln(r.out, line)
}

// writeErrFile stores the reconstructed transcript next to the test so
// the author can inspect it or copy it over the .t file.
func writeErrFile(path string, res *runner.Result) error {
	var buf bytes.Buffer
	for _, line := range res.Postout {
		buf.Write(line)
	}
	if err := os.WriteFile(path+".err", buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s.err: %w", path, err)
	}
	return nil
}

func printDiffLine(out io.Writer, line []byte) {
	switch {
	case bytes.HasPrefix(line, []byte("--- ")), bytes.HasPrefix(line, []byte("+++ ")), bytes.HasPrefix(line, []byte("@@")):
		hdrColor.Fprint(out, string(line))
	case bytes.HasPrefix(line, []byte("+")):
		addColor.Fprint(out, string(line))
	case bytes.HasPrefix(line, []byte("-")):
		delColor.Fprint(out, string(line))
	default:
		fmt.Fprint(out, string(line))
	}
}
