// Package shell runs all of a transcript's commands through one
// persistent shell subprocess and captures the combined output.
//
// The driver never parses what the shell prints. Correlation of output to
// commands happens later, via the salt-bearing probe lines the script
// interleaves with the commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sourcegraph/conc"
	mvshell "mvdan.cc/sh/v3/shell"

	"github.com/prysk/prysk/internal/transcript"
)

// SkipCode is the reserved exit code that converts a whole run to skipped.
const SkipCode = 80

// Salt derives the per-run probe delimiter from the wall clock. Five
// decimals of unix time make an accidental collision with user output
// effectively impossible while keeping the probe a plain shell word.
func Salt(now time.Time) []byte {
	return fmt.Appendf(nil, "PRYSK%.5f", float64(now.UnixNano())/1e9)
}

// Split breaks a shell command-line string into an argv, honoring quoting
// and backslash escapes the way a POSIX shell would.
func Split(cmdline string) ([]string, error) {
	argv, err := mvshell.Fields(cmdline, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid shell command line %q: %w", cmdline, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty shell command line")
	}
	return argv, nil
}

// Script assembles the stdin fed to the shell: before each command an
// "echo <salt> <index> $?" probe reporting the previous command's exit
// status, then the command and its continuations, and one trailing probe
// so the last command's status is captured too. The trailing probe's
// index is one past the final source line, an index no command occupies.
func Script(t *transcript.Transcript, salt []byte) []byte {
	var buf bytes.Buffer
	for _, cmd := range t.Commands {
		fmt.Fprintf(&buf, "echo %s %d $?\n", salt, cmd.Pos)
		buf.Write(cmd.Input)
		for _, cont := range cmd.Continuations {
			buf.Write(cont)
		}
	}
	fmt.Fprintf(&buf, "echo %s %d $?\n", salt, len(t.Lines))
	return buf.Bytes()
}

// DebugScript assembles the bare command stream with no probes, for runs
// where output is left on the caller's stdout.
func DebugScript(t *transcript.Transcript) []byte {
	var buf bytes.Buffer
	for _, cmd := range t.Commands {
		buf.Write(cmd.Input)
		for _, cont := range cmd.Continuations {
			buf.Write(cont)
		}
	}
	return buf.Bytes()
}

// SpawnError reports that the shell process could not be started.
type SpawnError struct {
	Argv []string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn shell %v: %v", e.Argv, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Result is the raw outcome of one shell invocation.
type Result struct {
	Output   []byte
	ExitCode int
}

// Run spawns argv with "-" appended, writes stdin to it in full, and
// reads the merged stdout+stderr to completion. The write happens on its
// own goroutine so neither pipe can fill up against the other. A non-zero
// exit from the shell is not an error; it is reported in the Result.
func Run(ctx context.Context, argv []string, stdin []byte, env []string) (Result, error) {
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], "-")...)
	cmd.Env = env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	in, err := cmd.StdinPipe()
	if err != nil {
		return Result{}, &SpawnError{Argv: argv, Err: err}
	}
	if err := cmd.Start(); err != nil {
		in.Close()
		return Result{}, &SpawnError{Argv: argv, Err: err}
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		defer in.Close()
		in.Write(stdin)
	})

	err = cmd.Wait()
	wg.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("waiting for shell: %w", err)
		}
	}
	return Result{Output: out.Bytes(), ExitCode: cmd.ProcessState.ExitCode()}, nil
}

// RunDebug spawns argv with "-" appended and the caller's stdio attached;
// nothing is captured or compared.
func RunDebug(ctx context.Context, argv []string, stdin []byte, env []string) error {
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], "-")...)
	cmd.Env = env
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return &SpawnError{Argv: argv, Err: err}
		}
	}
	return nil
}
