package shell

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// cleanVars are the overrides applied in clean mode so tests see a stable
// locale, timezone and terminal geometry.
var cleanVars = map[string]string{
	"LANG":         "C",
	"LC_ALL":       "C",
	"LANGUAGE":     "C",
	"TZ":           "GMT",
	"CDPATH":       "",
	"COLUMNS":      "80",
	"GREP_OPTIONS": "",
}

// Environ builds the child environment for a test run. The base mapping
// is copied (or snapshotted from the ambient environment when nil), so
// the parent process environment is never mutated. TESTSHELL always names
// the shell program; clean mode applies the locale/timezone overrides.
func Environ(base map[string]string, shellPath string, clean bool) []string {
	env := make(map[string]string, len(base)+len(cleanVars)+1)
	if base == nil {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
	} else {
		for k, v := range base {
			env[k] = v
		}
	}

	env["TESTSHELL"] = shellPath
	if clean {
		for k, v := range cleanVars {
			env[k] = v
		}
	}

	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(list)
	return list
}

// EnvironMap snapshots the ambient environment as a mapping, the form
// callers extend with TESTDIR/TESTFILE before handing it to Environ.
func EnvironMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
