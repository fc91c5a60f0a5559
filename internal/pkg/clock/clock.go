package clock

import "time"

// Clock abstracts "now" so services can be tested against a fixed time.
type Clock interface {
	NowUTC() time.Time
}

type systemClock struct{}

func (systemClock) NowUTC() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return systemClock{}
}

// Fixed is a Clock pinned to a settable instant.
type Fixed struct {
	Now time.Time
}

func (f *Fixed) NowUTC() time.Time {
	return f.Now.UTC()
}

func (f *Fixed) Advance(d time.Duration) {
	f.Now = f.Now.Add(d)
}
