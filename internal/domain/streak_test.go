package domain

import (
	"testing"
	"time"
)

func TestClassifyStreakDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	threeDaysAgo := now.AddDate(0, 0, -3)
	earlierToday := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		prev *time.Time
		want StreakTransition
	}{
		{"no record", nil, StreakStarted},
		{"same day", &earlierToday, StreakUnchanged},
		{"consecutive day", &yesterday, StreakExtended},
		{"gap", &threeDaysAgo, StreakReset},
	}

	for _, tt := range tests {
		if got := ClassifyStreakDay(tt.prev, now); got != tt.want {
			t.Errorf("%s: ClassifyStreakDay = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClassifyStreakDayUTCBoundary(t *testing.T) {
	// 23:50 UTC and 00:10 UTC fall on consecutive UTC dates even though only
	// twenty minutes apart.
	lateNight := time.Date(2025, 3, 9, 23, 50, 0, 0, time.UTC)
	earlyMorning := time.Date(2025, 3, 10, 0, 10, 0, 0, time.UTC)
	if got := ClassifyStreakDay(&lateNight, earlyMorning); got != StreakExtended {
		t.Errorf("crossing UTC midnight should extend, got %q", got)
	}

	// Local time ahead of UTC: an activity at 01:00 IST is the previous UTC
	// day, so the comparison still uses UTC dates.
	ist := time.FixedZone("IST", 5*3600+1800)
	localMorning := time.Date(2025, 3, 10, 1, 0, 0, 0, ist) // 2025-03-09 19:30 UTC
	sameUTCDay := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	if got := ClassifyStreakDay(&sameUTCDay, localMorning); got != StreakUnchanged {
		t.Errorf("same UTC day across zones should be unchanged, got %q", got)
	}
}

func TestTransitionEarned(t *testing.T) {
	if !StreakStarted.Earned() || !StreakExtended.Earned() {
		t.Error("started and extended transitions award points")
	}
	if StreakUnchanged.Earned() || StreakReset.Earned() {
		t.Error("unchanged and reset transitions do not award points")
	}
}
