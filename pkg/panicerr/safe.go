// Package panicerr converts panics into ordinary errors so a misbehaving
// plugin hook cannot take down a whole test run.
package panicerr

import (
	"github.com/sourcegraph/conc/panics"
)

// Run invokes fn, converting a panic into an error.
func Run(fn func()) error {
	var catcher panics.Catcher
	catcher.Try(fn)
	return catcher.Recovered().AsError()
}
