// Package clock isolates the system clock so expiry and createdAt
// stamping can be controlled in tests.
package clock

import "time"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the real system clock
func System() Clock {
	return systemClock{}
}

// Fake is a manually-advanced Clock for tests
type Fake struct {
	Current time.Time
}

// NewFake creates a Fake pinned to the given instant
func NewFake(t time.Time) *Fake {
	return &Fake{Current: t}
}

func (f *Fake) Now() time.Time { return f.Current }

// Advance moves the fake clock forward
func (f *Fake) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
