package match

import (
	"fmt"
	"time"
)

// SimBudget bounds one simulation run. Zero fields mean "no limit" for that
// axis. The budget is consulted before every tick and never mutated.
type SimBudget struct {
	MaxWallClock time.Duration `json:"max_wall_clock_ms"`
	MaxMinutes   int           `json:"max_minutes"`
	MaxEvents    int           `json:"max_events"`
}

// DefaultBudget is generous enough for a full 90-minute match.
func DefaultBudget() SimBudget {
	return SimBudget{
		MaxWallClock: 10 * time.Second,
		MaxMinutes:   130,
		MaxEvents:    20000,
	}
}

// exceeded checks all budget axes and returns a human-readable reason when
// one is hit. Checked at tick granularity: a run can overshoot a limit by at
// most one tick's worth of work.
func (b SimBudget) exceeded(elapsed time.Duration, minute, events int) (string, bool) {
	if b.MaxWallClock > 0 && elapsed >= b.MaxWallClock {
		return fmt.Sprintf("wall clock budget exhausted (%s elapsed, limit %s)", elapsed.Round(time.Millisecond), b.MaxWallClock), true
	}
	if b.MaxMinutes > 0 && minute > b.MaxMinutes {
		return fmt.Sprintf("minute budget exhausted (minute %d, limit %d)", minute, b.MaxMinutes), true
	}
	if b.MaxEvents > 0 && events >= b.MaxEvents {
		return fmt.Sprintf("event budget exhausted (%d events, limit %d)", events, b.MaxEvents), true
	}
	return "", false
}
