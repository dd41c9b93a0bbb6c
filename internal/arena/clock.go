package arena

import "time"

// CancelFunc stops a scheduled continuation. Calling it after the
// continuation ran is a no-op.
type CancelFunc func()

// Scheduler produces timed continuations. The session never blocks waiting
// for time to pass; every delay is a scheduled callback that re-checks
// session state before acting.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

type realScheduler struct{}

// NewScheduler returns the wall-clock Scheduler used outside of tests.
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
