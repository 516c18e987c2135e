package clock

import "time"

// Clock supplies ledger timestamps. The core consults it exactly once
// per payment creation.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Test clock.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
