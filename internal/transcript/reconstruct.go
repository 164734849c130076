package transcript

import (
	"bytes"
	"fmt"
	"strconv"
)

// Reconstruct rebuilds a transcript from the combined output one shell run
// produced for t. The output is partitioned at the salt probes the driver
// interleaved with the commands; everything between two probes is the
// output of one command, re-indented and escaped, with a "[<code>]" line
// appended when the probe reports a non-zero exit. The command lines and
// prose recorded during parsing are re-emitted as each probe advances the
// state machine, so the result reads as the original file with its
// expected output replaced by what actually happened.
func Reconstruct(t *Transcript, output []byte, salt []byte) [][]byte {
	indent := OutputPrefix(t.indent)
	after := t.afterCopy()
	var postout [][]byte

	// Drop the newline of the trailing probe so it does not register as an
	// extra empty segment.
	output = bytes.TrimSuffix(output, []byte("\n"))

	pos := -1
	for _, line := range SplitLines(output) {
		out, probe := line, []byte(nil)
		if i := bytes.Index(line, salt); i >= 0 {
			out, probe = line[:i], line[i+len(salt):]
		}

		if len(out) > 0 {
			if !bytes.HasSuffix(out, []byte("\n")) {
				out = append(out, []byte(" (no-eol)\n")...)
			}
			if NeedsEscape(out) {
				out = Escape(out)
			}
			postout = append(postout, concat(indent, out))
		}

		if probe != nil {
			index, code, ok := parseProbe(probe)
			if !ok {
				continue
			}
			if code != 0 {
				postout = append(postout, fmt.Appendf(nil, "%s[%d]\n", indent, code))
			}
			postout = append(postout, after[pos]...)
			delete(after, pos)
			pos = index
		}
	}
	postout = append(postout, after[pos]...)
	return postout
}

// parseProbe decodes the "<index> <exit-code>" payload following the salt.
func parseProbe(probe []byte) (index, code int, ok bool) {
	fields := bytes.Fields(probe)
	if len(fields) < 2 {
		return 0, 0, false
	}
	index, err := strconv.Atoi(string(fields[0]))
	if err != nil {
		return 0, 0, false
	}
	code, err = strconv.Atoi(string(fields[1]))
	if err != nil {
		return 0, 0, false
	}
	return index, code, true
}

func concat(prefix, line []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(line))
	return append(append(out, prefix...), line...)
}
