// Package diff compares an original transcript with its reconstruction,
// honoring the (re), (glob) and (esc) pattern annotations, and renders a
// unified diff of whatever remains.
package diff

import (
	"bytes"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/prysk/prysk/internal/match"
)

// KeepMatching returns a copy of post in which every actual line satisfied
// by an annotated expected line of ref is replaced by that expected line.
// On a passing test the result is byte-identical to ref, so matched
// pattern lines survive into the rewritten transcript and disappear from
// the diff.
func KeepMatching(ref, post [][]byte) [][]byte {
	kept := make([][]byte, len(post))
	copy(kept, post)

	m := difflib.NewMatcher(toStrings(ref), toStrings(post))
	for _, op := range m.GetOpCodes() {
		if op.Tag != 'r' {
			continue
		}
		n := min(op.I2-op.I1, op.J2-op.J1)
		for k := 0; k < n; k++ {
			expected := ref[op.I1+k]
			if match.Annotated(expected) && match.Line(expected, post[op.J1+k]) {
				kept[op.J1+k] = expected
			}
		}
	}
	return kept
}

// Unified renders the canonical unified diff between ref and post with
// three lines of context. The labels may be empty; the header lines are
// emitted regardless, matching the traditional python difflib output. A
// nil result means the transcripts are equal.
func Unified(ref, post [][]byte, fromFile, toFile string) [][]byte {
	a, b := toStrings(ref), toStrings(post)
	m := difflib.NewMatcher(a, b)
	groups := m.GetGroupedOpCodes(3)
	if len(groups) == 0 {
		return nil
	}

	out := [][]byte{
		fmt.Appendf(nil, "--- %s\n", fromFile),
		fmt.Appendf(nil, "+++ %s\n", toFile),
	}
	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		out = append(out, fmt.Appendf(nil, "@@ -%s +%s @@\n",
			formatRange(first.I1, last.I2),
			formatRange(first.J1, last.J2)))
		for _, op := range group {
			if op.Tag == 'e' {
				for _, line := range ref[op.I1:op.I2] {
					out = append(out, prefixed(' ', line))
				}
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				for _, line := range ref[op.I1:op.I2] {
					out = append(out, prefixed('-', line))
				}
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				for _, line := range post[op.J1:op.J2] {
					out = append(out, prefixed('+', line))
				}
			}
		}
	}
	return out
}

// formatRange renders one side of a hunk header per the unified format:
// "start,length" with the length omitted when it is exactly one.
func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

func prefixed(sigil byte, line []byte) []byte {
	out := make([]byte, 0, len(line)+1)
	return append(append(out, sigil), line...)
}

func toStrings(lines [][]byte) []string {
	s := make([]string, len(lines))
	for i, line := range lines {
		s[i] = string(line)
	}
	return s
}

// Equal reports whether ref and post are line-for-line identical.
func Equal(ref, post [][]byte) bool {
	if len(ref) != len(post) {
		return false
	}
	for i := range ref {
		if !bytes.Equal(ref[i], post[i]) {
			return false
		}
	}
	return true
}
