package runner

import (
	"errors"
	"fmt"

	"github.com/prysk/prysk/pkg/panicerr"
)

// The events a run emits.
const (
	EventPreRun        = "pre-run"
	EventPostRun       = "post-run"
	EventPreTest       = "pre-test"
	EventPostTest      = "post-test"
	EventEmptyTest     = "empty-test"
	EventSkippedTest   = "skipped-test"
	EventSucceededTest = "succeeded-test"
	EventFailedTest    = "failed-test"
)

// Events lists every event name a hook may register for.
var Events = []string{
	EventPreRun,
	EventPostRun,
	EventPreTest,
	EventPostTest,
	EventEmptyTest,
	EventSkippedTest,
	EventSucceededTest,
	EventFailedTest,
}

// ErrUnknownEvent is returned when registering for an unlisted event.
var ErrUnknownEvent = errors.New("unknown event")

// Observer receives run lifecycle callbacks. Embed NopObserver to only
// implement the events of interest. The run-scoped events carry no test;
// the test-scoped ones carry the test path, and FailedTest additionally
// receives the result.
type Observer interface {
	PreRun()
	PostRun()
	PreTest(path string)
	PostTest(path string)
	EmptyTest(path string)
	SkippedTest(path string)
	SucceededTest(path string)
	FailedTest(path string, res *Result)
}

// NopObserver implements Observer with no-ops.
type NopObserver struct{}

func (NopObserver) PreRun()                    {}
func (NopObserver) PostRun()                   {}
func (NopObserver) PreTest(string)             {}
func (NopObserver) PostTest(string)            {}
func (NopObserver) EmptyTest(string)           {}
func (NopObserver) SkippedTest(string)         {}
func (NopObserver) SucceededTest(string)       {}
func (NopObserver) FailedTest(string, *Result) {}

// Hook is a single event callback. path is empty for run-scoped events.
// res is the test's result on skipped-test, succeeded-test, failed-test
// and post-test; it is nil on the run-scoped events, pre-test, empty-test
// and the post-test of an empty test.
type Hook func(path string, res *Result)

// Registry fans events out to named hooks and registered observers.
type Registry struct {
	hooks     map[string][]Hook
	observers []Observer
}

// NewRegistry returns a registry accepting exactly the names in Events.
func NewRegistry() *Registry {
	r := &Registry{hooks: make(map[string][]Hook, len(Events))}
	for _, e := range Events {
		r.hooks[e] = nil
	}
	return r
}

// On registers a hook for one event. Registering for a name outside
// Events fails synchronously with ErrUnknownEvent.
func (r *Registry) On(event string, h Hook) error {
	if _, ok := r.hooks[event]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	r.hooks[event] = append(r.hooks[event], h)
	return nil
}

// Add registers an observer for all events.
func (r *Registry) Add(o Observer) {
	r.observers = append(r.observers, o)
}

// Trigger invokes every hook and observer for the event. Panicking hooks
// are contained and reported as errors; the remaining hooks still run.
func (r *Registry) Trigger(event, path string, res *Result) error {
	var errs []error
	for _, h := range r.hooks[event] {
		if err := panicerr.Run(func() { h(path, res) }); err != nil {
			errs = append(errs, fmt.Errorf("%s hook: %w", event, err))
		}
	}
	for _, o := range r.observers {
		if err := panicerr.Run(func() { dispatch(o, event, path, res) }); err != nil {
			errs = append(errs, fmt.Errorf("%s observer: %w", event, err))
		}
	}
	return errors.Join(errs...)
}

func dispatch(o Observer, event, path string, res *Result) {
	switch event {
	case EventPreRun:
		o.PreRun()
	case EventPostRun:
		o.PostRun()
	case EventPreTest:
		o.PreTest(path)
	case EventPostTest:
		o.PostTest(path)
	case EventEmptyTest:
		o.EmptyTest(path)
	case EventSkippedTest:
		o.SkippedTest(path)
	case EventSucceededTest:
		o.SucceededTest(path)
	case EventFailedTest:
		o.FailedTest(path, res)
	}
}
