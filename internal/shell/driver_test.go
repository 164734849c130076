package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/prysk/prysk/internal/transcript"
)

func TestSaltFormat(t *testing.T) {
	salt := Salt(time.Unix(1700000000, 123450000))
	want := regexp.MustCompile(`^PRYSK\d+\.\d{5}$`)
	if !want.Match(salt) {
		t.Errorf("Salt = %q, want match for %s", salt, want)
	}
	if got, wantPrefix := string(salt), "PRYSK1700000000.12345"; got != wantPrefix {
		t.Errorf("Salt = %q, want %q", got, wantPrefix)
	}
}

func TestSaltUniquePerRun(t *testing.T) {
	a := Salt(time.Unix(1700000000, 0))
	b := Salt(time.Unix(1700000000, 20000))
	if bytes.Equal(a, b) {
		t.Errorf("salts for distinct times are equal: %q", a)
	}
}

func TestScript(t *testing.T) {
	tr := transcript.ParseBytes([]byte(
		"  $ echo one\n"+
			"  one\n"+
			"  $ cat <<EOF\n"+
			"  > hey\n"+
			"  > EOF\n"+
			"  hey\n"), 2)
	salt := []byte("SALT")

	want := "echo SALT 0 $?\n" +
		"echo one\n" +
		"echo SALT 2 $?\n" +
		"cat <<EOF\n" +
		"hey\n" +
		"EOF\n" +
		"echo SALT 6 $?\n"
	if got := string(Script(tr, salt)); got != want {
		t.Errorf("Script mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestScriptEmptyTranscript(t *testing.T) {
	tr := transcript.ParseBytes(nil, 2)
	got := string(Script(tr, []byte("SALT")))
	if want := "echo SALT 0 $?\n"; got != want {
		t.Errorf("Script = %q, want %q", got, want)
	}
}

func TestDebugScript(t *testing.T) {
	tr := transcript.ParseBytes([]byte("  $ echo one\n  > two\n"), 2)
	if got, want := string(DebugScript(tr)), "echo one\ntwo\n"; got != want {
		t.Errorf("DebugScript = %q, want %q", got, want)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{name: "bare path", in: "/bin/sh", want: []string{"/bin/sh"}},
		{name: "with arguments", in: "bash --norc -e", want: []string{"bash", "--norc", "-e"}},
		{name: "quoted argument", in: `sh -c 'echo hi'`, want: []string{"sh", "-c", "echo hi"}},
		{name: "empty", in: "", wantErr: true},
		{name: "unbalanced quote", in: `sh "`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Split(%q) succeeded with %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split(%q): %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestRunCapturesMergedOutput(t *testing.T) {
	stdin := []byte("echo out\necho err >&2\nexit 3\n")
	res, err := Run(context.Background(), []string{"/bin/sh"}, stdin, Environ(nil, "/bin/sh", true))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := "out\nerr\n"; string(res.Output) != want {
		t.Errorf("Output = %q, want %q", res.Output, want)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRunSpawnError(t *testing.T) {
	_, err := Run(context.Background(), []string{"/nonexistent/shell"}, nil, nil)
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("Run error = %v, want *SpawnError", err)
	}
}

func TestRunLargeStdinDoesNotDeadlock(t *testing.T) {
	// A script bigger than a pipe buffer while the shell is also
	// producing output exercises the writer goroutine.
	var buf bytes.Buffer
	for i := 0; i < 20000; i++ {
		fmt.Fprintf(&buf, "echo line %d\n", i)
	}
	res, err := Run(context.Background(), []string{"/bin/sh"}, buf.Bytes(), Environ(nil, "/bin/sh", true))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !bytes.Contains(res.Output, []byte("line 19999\n")) {
		t.Errorf("output is missing the final line")
	}
}
