// Command prysk runs transcript-style functional tests for command line
// applications: each .t file interleaves shell commands with their
// expected output, and prysk replays the commands through a real shell
// and diffs what actually happened against the transcript.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/prysk/prysk/internal/config"
	"github.com/prysk/prysk/internal/runner"
	"github.com/prysk/prysk/internal/shell"
)

type cli struct {
	app *kingpin.Application

	shell      *string
	indent     *int
	cleanEnv   *bool
	debug      *bool
	keepTmpdir *bool
	verbose    *bool
	quiet      *bool
	colorMode  *string
	watch      *bool
	tests      *[]string
}

// newCLI builds the flag surface with defaults taken from the resolved
// configuration, so flags override environment which overrides the YAML
// file.
func newCLI(cfg *config.Config) *cli {
	app := kingpin.New("prysk", "Functional tests for command line applications.")
	return &cli{
		app: app,

		shell: app.Flag("shell", "Shell to run tests in (may include arguments).").
			Default(cfg.Shell).String(),
		indent: app.Flag("indent", "Transcript indent width.").
			Default(strconv.Itoa(cfg.Indent)).Int(),
		cleanEnv: app.Flag("clean-env", "Sanitize locale, timezone and terminal geometry for tests.").
			Default(strconv.FormatBool(cfg.CleanEnv)).Bool(),
		debug: app.Flag("debug", "Run test shells with inherited stdio and skip comparison.").
			Default("false").Bool(),
		keepTmpdir: app.Flag("keep-tmpdir", "Keep per-test scratch directories after the run.").
			Default(strconv.FormatBool(cfg.KeepTmpdir)).Bool(),
		verbose: app.Flag("verbose", "Print one status line per test instead of dots.").
			Short('v').Bool(),
		quiet: app.Flag("quiet", "Suppress diff output; status and summary only.").
			Short('q').Bool(),
		colorMode: app.Flag("color", "Colorize output.").
			Default(cfg.Color).Enum("auto", "always", "never"),
		watch: app.Flag("watch", "Rerun the tests whenever one of their files changes.").
			Bool(),
		tests: app.Arg("tests", "Test files or directories.").Required().Strings(),
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("PRYSK_CONFIG"))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}

	c := newCLI(cfg)
	if _, err := c.app.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "prysk: error: %v, try --help\n", err)
		os.Exit(2)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.Debug("configuration resolved",
		"shell", *c.shell,
		"indent", *c.indent,
		"cleanEnv", *c.cleanEnv,
		"watch", *c.watch)

	switch *c.colorMode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	os.Exit(run(c))
}

func run(c *cli) int {
	argv, err := shell.Split(*c.shell)
	if err != nil {
		slog.Error("invalid shell command line", "shell", *c.shell, "error", err)
		fmt.Fprintf(os.Stderr, "prysk: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := runner.Options{
		Shell:    argv,
		Indent:   *c.indent,
		CleanEnv: *c.cleanEnv,
		Debug:    *c.debug,
	}

	runOnce := func() (*runner.Summary, error) {
		r := runner.New(opts)
		r.KeepTmp = *c.keepTmpdir
		reporter := newReporter(os.Stdout, *c.verbose, *c.quiet)
		r.Events().Add(reporter)
		summary, err := r.Run(ctx, *c.tests)
		if err != nil {
			return summary, err
		}
		reporter.Summarize(summary)
		return summary, nil
	}

	if *c.watch {
		if err := watchLoop(ctx, *c.tests, runOnce); err != nil && ctx.Err() == nil {
			slog.Error("watch loop aborted", "error", err)
			fmt.Fprintf(os.Stderr, "prysk: %v\n", err)
			return 2
		}
		return 0
	}

	summary, err := runOnce()
	if err != nil {
		slog.Error("test run aborted", "error", err)
		fmt.Fprintf(os.Stderr, "prysk: %v\n", err)
		return 2
	}
	if summary.Failed > 0 {
		return 1
	}
	return 0
}
