package core

import (
	"math"
	"time"
)

// Goal tracking math. The store guarantees TargetAmount > 0 at creation
// time, so progress is always well defined here.

// GoalSummary aggregates all goals handed to it (callers filter to
// active goals first when that is what they want).
type GoalSummary struct {
	TotalTarget     Money
	TotalCurrent    Money
	OverallProgress float64
	Count           int
}

// Progress is the funded percentage of a goal, clamped to 100 for
// display. Overshoot is allowed in the data; it just stops reading
// past 100 here.
func Progress(g Goal) float64 {
	return clampedProgress(g.CurrentAmount, g.TargetAmount)
}

// DaysRemaining is the whole days between now and the target date,
// ceiling-rounded. Negative when the goal is overdue.
func DaysRemaining(targetDate time.Time, now time.Time) int {
	return int(math.Ceil(targetDate.Sub(now).Hours() / 24))
}

// SummarizeGoals totals targets and contributions across goals and
// applies the per-goal progress formula to the sums.
func SummarizeGoals(goals []Goal) GoalSummary {
	var s GoalSummary
	for _, g := range goals {
		s.TotalTarget += g.TargetAmount
		s.TotalCurrent += g.CurrentAmount
		s.Count++
	}
	s.OverallProgress = clampedProgress(s.TotalCurrent, s.TotalTarget)
	return s
}

func clampedProgress(current, target Money) float64 {
	if target <= 0 {
		return 0
	}
	p := float64(current) / float64(target) * 100
	if p > 100 {
		return 100
	}
	return p
}
