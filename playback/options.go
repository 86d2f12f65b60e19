package playback

import (
	"time"

	"github.com/meysamhadeli/stepdiff/diff_engine"
	"github.com/meysamhadeli/stepdiff/playback/contracts"
	"github.com/rs/zerolog"
)

const (
	// DefaultDelay is used when neither the step nor the caller supplies a valid delay.
	DefaultDelay = 1000 * time.Millisecond
	// DefaultGraceDelay bounds the pause-out at the end of a sequence.
	DefaultGraceDelay = 500 * time.Millisecond
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDefaultDelay sets the delay used by steps without a valid delay of their own. Non-positive values are
// ignored.
func WithDefaultDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.defaultDelay = d
		}
	}
}

// WithGraceDelay sets the upper bound of the end-of-sequence pause-out. Non-positive values are ignored.
func WithGraceDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.graceDelay = d
		}
	}
}

// WithDiffer replaces the diff engine, typically with a memoizing one.
func WithDiffer(d contracts.IDiffer) Option {
	return func(s *Scheduler) {
		if d != nil {
			s.differ = d
		}
	}
}

// WithClock replaces the timer source.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithListener registers a callback invoked after every transition.
func WithListener(fn func(View)) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.listeners = append(s.listeners, fn)
		}
	}
}

// engineDiffer is the plain, non-caching diff engine.
type engineDiffer struct{}

func (engineDiffer) Diff(previous string, current string, first bool) []diff_engine.Line {
	return diff_engine.Compute(previous, current, first)
}
