package ignition

import "github.com/jonboulle/clockwork"

// clock stamps assessments with their computation time. Swappable so
// tests can pin ComputedAt to a known instant.
var clock = clockwork.NewRealClock()

// SetClock replaces the assessment time source; nil restores the wall clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
