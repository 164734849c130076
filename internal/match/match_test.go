package match

import "testing"

func TestLine(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     bool
	}{
		{name: "literal equal", expected: "  hi\n", actual: "  hi\n", want: true},
		{name: "literal unequal", expected: "  bye\n", actual: "  hi\n", want: false},

		{name: "regex match", expected: "  [a-z]{2} (re)\n", actual: "  hi\n", want: true},
		{name: "regex must cover whole line", expected: "  h (re)\n", actual: "  hi\n", want: false},
		{name: "regex covers prefix too", expected: "\\s+hi (re)\n", actual: "  hi\n", want: true},
		{name: "regex alternation", expected: "  (hi|bye) (re)\n", actual: "  bye\n", want: true},
		{name: "malformed regex never matches", expected: "  [unclosed (re)\n", actual: "  [unclosed (re)\n", want: false},

		{name: "glob star", expected: "  h* (glob)\n", actual: "  hello\n", want: true},
		{name: "glob star matches empty", expected: "  h* (glob)\n", actual: "  h\n", want: true},
		{name: "glob question exactly one", expected: "  h? (glob)\n", actual: "  hi\n", want: true},
		{name: "glob question not zero", expected: "  h? (glob)\n", actual: "  h\n", want: false},
		{name: "glob escaped star literal", expected: "  2 \\* 2 (glob)\n", actual: "  2 * 2\n", want: true},
		{name: "glob escaped star rejects expansion", expected: "  2 \\* 2 (glob)\n", actual: "  2 x 2\n", want: false},
		{name: "glob escaped backslash", expected: "  a\\\\b (glob)\n", actual: "  a\\b\n", want: true},
		{name: "glob multiple stars", expected: "  */bin/* (glob)\n", actual: "  /usr/bin/env\n", want: true},
		{name: "glob mismatch", expected: "  h? (glob)\n", actual: "  bye\n", want: false},

		{name: "esc match", expected: "  a\\tb (esc)\n", actual: "  a\tb\n", want: true},
		{name: "esc hex byte", expected: "  \\x01 (esc)\n", actual: "  \x01\n", want: true},
		{name: "esc mismatch", expected: "  a\\tb (esc)\n", actual: "  a b\n", want: false},
		{name: "malformed esc never matches", expected: "  a\\q (esc)\n", actual: "  a\\q\n", want: false},

		{name: "annotation must be suffix", expected: "  (re) hi\n", actual: "  x hi\n", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Line([]byte(tt.expected), []byte(tt.actual)); got != tt.want {
				t.Errorf("Line(%q, %q) = %v, want %v", tt.expected, tt.actual, got, tt.want)
			}
		})
	}
}

func TestAnnotated(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"  foo (re)\n", true},
		{"  foo (glob)\n", true},
		{"  foo (esc)\n", true},
		{"  foo (no-eol)\n", false},
		{"  foo\n", false},
		{"  (re)\n", true},
	}
	for _, tt := range tests {
		if got := Annotated([]byte(tt.line)); got != tt.want {
			t.Errorf("Annotated(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
