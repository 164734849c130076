// Package transcript parses test transcripts and rebuilds them from
// captured shell output.
//
// A transcript interleaves shell command lines (indent + "$ "),
// continuation lines (indent + "> "), expected output lines (indent, no
// sigil) and free-form prose. The package is byte-oriented: shells emit
// arbitrary bytes and every line is kept as a newline-terminated byte
// slice.
package transcript

import "bytes"

// DefaultIndent is the transcript indentation used when none is configured.
const DefaultIndent = 2

// Command is one "$ " line of a transcript together with its "> "
// continuation lines.
type Command struct {
	// Pos is the line index of the "$ " line in the source file.
	Pos int
	// Input is the command payload with the command prefix stripped,
	// newline-terminated.
	Input []byte
	// Continuations are the payloads of the "> " lines that textually
	// follow the command, each newline-terminated.
	Continuations [][]byte
}

// Transcript is a parsed test file. Lines holds every source line
// newline-terminated, so concatenating them reproduces the file, except
// that the parser supplies a final newline the file lacked; whether the
// file ended without one is not recorded.
type Transcript struct {
	indent   int
	Lines    [][]byte
	Commands []Command

	// after maps a pivot line index to the lines that must be re-emitted
	// once the probe for the following command has been consumed: the next
	// command line itself, its continuation echoes, and any prose. The key
	// -1 holds everything before the first command.
	after map[int][][]byte
}

// Indent returns the indent width the transcript was parsed with.
func (t *Transcript) Indent() int { return t.indent }

// CommandPrefix returns the indent + "$ " byte prefix for width n.
func CommandPrefix(n int) []byte {
	return append(bytes.Repeat([]byte(" "), n), '$', ' ')
}

// ContinuationPrefix returns the indent + "> " byte prefix for width n.
func ContinuationPrefix(n int) []byte {
	return append(bytes.Repeat([]byte(" "), n), '>', ' ')
}

// OutputPrefix returns the bare indent byte prefix for width n.
func OutputPrefix(n int) []byte {
	return bytes.Repeat([]byte(" "), n)
}

// afterCopy returns a shallow copy of the after map so a reconstruction
// can consume entries without mutating the transcript.
func (t *Transcript) afterCopy() map[int][][]byte {
	m := make(map[int][][]byte, len(t.after))
	for k, v := range t.after {
		m[k] = v
	}
	return m
}

// SplitLines splits b into lines, keeping the trailing newline on each.
// A final segment without a newline is returned as-is.
func SplitLines(b []byte) [][]byte {
	var lines [][]byte
	for len(b) > 0 {
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			lines = append(lines, b)
			break
		}
		lines = append(lines, b[:i+1])
		b = b[i+1:]
	}
	return lines
}
