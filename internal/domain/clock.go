package domain

import "github.com/jonboulle/clockwork"

// clock supplies "today" for advisory times published without a calendar date.
// Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for date-less advisories. Pass nil to
// reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
