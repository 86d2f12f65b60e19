package playback

import "time"

// Timer is a cancellable delayed callback.
type Timer interface {
	Stop() bool
}

// Clock arms delayed callbacks. The scheduler never holds more than one armed Timer.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
