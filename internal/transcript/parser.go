package transcript

import "bytes"

// Parse splits the byte-lines of a test file into a Transcript.
//
// Parsing never fails: any line that is neither a command, a continuation
// nor indented output is prose and is carried through verbatim. A final
// line without a terminating newline gets one appended; Lines is therefore
// always newline-terminated.
//
// The bookkeeping mirrors the driver protocol. A probe is echoed before
// each command, so when the probe closing command i is consumed during
// reconstruction, the lines that follow command i-1 in the source (command
// i's own "$ " line, its "> " lines, prose) must be re-emitted. Command
// lines are therefore recorded against the previous command's index, and
// continuation lines against that same index (prepos), while the
// executable payload of a continuation still joins the textually current
// command.
func Parse(lines [][]byte, indent int) *Transcript {
	if indent <= 0 {
		indent = DefaultIndent
	}
	t := &Transcript{
		indent: indent,
		after:  make(map[int][][]byte),
	}
	cmdPrefix := CommandPrefix(indent)
	conPrefix := ContinuationPrefix(indent)
	outPrefix := OutputPrefix(indent)

	pos, prepos := -1, -1
	for i, line := range lines {
		if !bytes.HasSuffix(line, []byte("\n")) {
			nl := make([]byte, 0, len(line)+1)
			line = append(append(nl, line...), '\n')
		}
		t.Lines = append(t.Lines, line)
		switch {
		case bytes.HasPrefix(line, cmdPrefix):
			t.after[pos] = append(t.after[pos], line)
			prepos = pos
			pos = i
			t.Commands = append(t.Commands, Command{
				Pos:   i,
				Input: line[len(cmdPrefix):],
			})
		case bytes.HasPrefix(line, conPrefix):
			t.after[prepos] = append(t.after[prepos], line)
			if len(t.Commands) > 0 {
				last := &t.Commands[len(t.Commands)-1]
				last.Continuations = append(last.Continuations, line[len(conPrefix):])
			}
		case !bytes.HasPrefix(line, outPrefix):
			t.after[pos] = append(t.after[pos], line)
		}
	}
	return t
}

// ParseBytes splits b into lines and parses them.
func ParseBytes(b []byte, indent int) *Transcript {
	return Parse(SplitLines(b), indent)
}
