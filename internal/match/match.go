// Package match decides whether an expected transcript line matches an
// actual output line under the (re), (glob) and (esc) annotations.
package match

import (
	"bytes"
	"regexp"

	"github.com/prysk/prysk/internal/transcript"
)

var (
	reSuffix   = []byte(" (re)\n")
	globSuffix = []byte(" (glob)\n")
	escSuffix  = []byte(" (esc)\n")
)

// Annotated reports whether the expected line carries a pattern
// annotation, i.e. whether Line can succeed on unequal bytes.
func Annotated(expected []byte) bool {
	return bytes.HasSuffix(expected, reSuffix) ||
		bytes.HasSuffix(expected, globSuffix) ||
		bytes.HasSuffix(expected, escSuffix)
}

// Line reports whether the actual line satisfies the expected line. Both
// are full newline-terminated lines including their indent prefix. An
// annotation on the expected line selects the pattern interpretation;
// otherwise the comparison is byte-exact. Malformed patterns never match.
func Line(expected, actual []byte) bool {
	switch {
	case bytes.HasSuffix(expected, reSuffix):
		return Regexp(bytes.TrimSuffix(expected, reSuffix), actual)
	case bytes.HasSuffix(expected, globSuffix):
		return Glob(bytes.TrimSuffix(expected, globSuffix), actual)
	case bytes.HasSuffix(expected, escSuffix):
		return Esc(bytes.TrimSuffix(expected, escSuffix), actual)
	}
	return bytes.Equal(expected, actual)
}

// Regexp matches actual against pattern anchored over the whole line, the
// indent prefix included. The dialect is Go's regexp package (RE2), which
// covers the POSIX-extended constructs transcripts rely on: ., *, +, ?,
// character classes, alternation, grouping and ^/$ anchors.
func Regexp(pattern, actual []byte) bool {
	re, err := regexp.Compile(`\A(?:` + string(pattern) + `)\z`)
	if err != nil {
		return false
	}
	return re.Match(bytes.TrimSuffix(actual, []byte("\n")))
}

// Glob matches actual against a shell-style glob where ? matches exactly
// one byte, * matches any run of bytes, and \?, \* and \\ escape the
// metacharacters. The whole line (sans newline) must match.
func Glob(pattern, actual []byte) bool {
	return globMatch(pattern, bytes.TrimSuffix(actual, []byte("\n")))
}

// globMatch is an iterative byte matcher with single-star backtracking.
func globMatch(p, s []byte) bool {
	var pi, si int
	starP, starS := -1, 0
	for si < len(s) {
		if pi < len(p) {
			switch c := p[pi]; c {
			case '*':
				starP, starS = pi, si
				pi++
				continue
			case '?':
				pi++
				si++
				continue
			case '\\':
				if pi+1 < len(p) && (p[pi+1] == '*' || p[pi+1] == '?' || p[pi+1] == '\\') {
					if s[si] == p[pi+1] {
						pi += 2
						si++
						continue
					}
				} else if s[si] == c {
					pi++
					si++
					continue
				}
			default:
				if s[si] == c {
					pi++
					si++
					continue
				}
			}
		}
		if starP < 0 {
			return false
		}
		starS++
		pi, si = starP+1, starS
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

// Esc unescapes the expected body and compares it byte-for-byte with the
// actual line. This lets authors spell printable-but-awkward bytes (tabs,
// trailing spaces) in their \xNN form without forcing the captured output
// through the escaper.
func Esc(expected, actual []byte) bool {
	body := bytes.TrimSuffix(expected, []byte("\n"))
	raw, err := transcript.Unescape(body)
	if err != nil {
		return false
	}
	raw = append(raw, '\n')
	return bytes.Equal(raw, actual)
}
