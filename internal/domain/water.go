package domain

import "time"

// WaterLog tracks today's water intake.
type WaterLog struct {
	GoalML    int    `json:"goal_ml"`
	DrunkML   int    `json:"drunk_ml"`
	LastReset string `json:"last_reset"` // YYYY-MM-DD
}

// Add records ml of intake; negative amounts are ignored.
func (w *WaterLog) Add(ml int) {
	if ml > 0 {
		w.DrunkML += ml
	}
}

// Reset zeroes today's counter.
func (w *WaterLog) Reset() { w.DrunkML = 0 }

// ResetIfNewDay zeroes the counter when now falls on a later day than the
// last reset. It reports whether anything changed.
func (w *WaterLog) ResetIfNewDay(now time.Time) bool {
	today := DayKey(now)
	if w.LastReset == today {
		return false
	}
	w.DrunkML = 0
	w.LastReset = today
	return true
}

func (w WaterLog) goal() int {
	if w.GoalML < 1 {
		return 1
	}
	return w.GoalML
}

// Percent of goal reached, capped at 100.
func (w WaterLog) Percent() int {
	drunk := max(0, w.DrunkML)
	return min(100, drunk*100/w.goal())
}

// Remaining ml to reach the goal.
func (w WaterLog) Remaining() int {
	return max(0, w.goal()-w.DrunkML)
}
