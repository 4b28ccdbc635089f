package core

import (
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	cases := []struct {
		current, target Money
		want            float64
	}{
		{2_500_000, 10_000_000, 25},
		{10_000_000, 10_000_000, 100}, // boundary: exactly 100
		{15_000_000, 10_000_000, 100}, // overshoot clamps for display
		{0, 10_000_000, 0},
	}
	for i, tc := range cases {
		g := Goal{CurrentAmount: tc.current, TargetAmount: tc.target}
		if got := Progress(g); got != tc.want {
			t.Fatalf("case %d: progress = %v, want %v", i, got, tc.want)
		}
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		target time.Time
		want   int
	}{
		{now.AddDate(0, 0, 10), 10},
		{now.Add(36 * time.Hour), 2}, // partial day rounds up
		{now, 0},
		{now.AddDate(0, 0, -3), -3},
	}
	for i, tc := range cases {
		if got := DaysRemaining(tc.target, now); got != tc.want {
			t.Fatalf("case %d: days = %d, want %d", i, got, tc.want)
		}
	}
}

func TestSummarizeGoals(t *testing.T) {
	goals := []Goal{
		{TargetAmount: 10_000_000, CurrentAmount: 2_500_000},
		{TargetAmount: 5_000_000, CurrentAmount: 5_000_000},
	}
	s := SummarizeGoals(goals)
	if s.TotalTarget != 15_000_000 || s.TotalCurrent != 7_500_000 || s.Count != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if s.OverallProgress != 50 {
		t.Fatalf("overall progress = %v, want 50", s.OverallProgress)
	}

	empty := SummarizeGoals(nil)
	if empty.OverallProgress != 0 || empty.TotalTarget != 0 {
		t.Fatalf("empty summary = %+v, want zeros", empty)
	}
}
