package service

import (
	"context"
	"testing"
	"time"

	"github.com/notehub-gamification/internal/domain"
)

func newTestStreakService(t *testing.T) (*StreakService, *fakeStreakStore, *fakePointsStore, func(time.Time)) {
	t.Helper()
	streaks := newFakeStreakStore()
	points := newFakePointsStore()

	pointsSvc := NewPointsService(points, &fakeNotifier{}, testLogger())
	svc := NewStreakService(streaks, pointsSvc, testLogger())

	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	setClock := func(at time.Time) {
		clock = at
		svc.now = func() time.Time { return clock }
		pointsSvc.now = svc.now
	}
	setClock(clock)
	return svc, streaks, points, setClock
}

func TestRecordActivityStartsStreak(t *testing.T) {
	svc, _, points, _ := newTestStreakService(t)

	rec, transition, err := svc.RecordActivity(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if transition != domain.StreakStarted {
		t.Errorf("transition = %q, want started", transition)
	}
	if rec.CurrentStreak != 1 || rec.LongestStreak != 1 || rec.TotalActivities != 1 {
		t.Errorf("got streak %d/%d activities %d, want 1/1/1",
			rec.CurrentStreak, rec.LongestStreak, rec.TotalActivities)
	}
	if points.totals["u1"] != domain.ActionPoints[domain.ActionDailyStreak] {
		t.Errorf("points = %d, want %d", points.totals["u1"], domain.ActionPoints[domain.ActionDailyStreak])
	}
}

func TestRecordActivitySameDayNoExtraPoints(t *testing.T) {
	svc, _, points, setClock := newTestStreakService(t)
	ctx := context.Background()

	if _, _, err := svc.RecordActivity(ctx, "u1"); err != nil {
		t.Fatalf("first activity: %v", err)
	}
	setClock(time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC))

	rec, transition, err := svc.RecordActivity(ctx, "u1")
	if err != nil {
		t.Fatalf("second activity: %v", err)
	}
	if transition != domain.StreakUnchanged {
		t.Errorf("transition = %q, want unchanged", transition)
	}
	if rec.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1", rec.CurrentStreak)
	}
	if rec.TotalActivities != 2 {
		t.Errorf("activities = %d, want 2", rec.TotalActivities)
	}
	if points.totals["u1"] != 10 {
		t.Errorf("points = %d, want 10 (single daily award)", points.totals["u1"])
	}
}

func TestRecordActivityConsecutiveDaysExtend(t *testing.T) {
	svc, _, points, setClock := newTestStreakService(t)
	ctx := context.Background()

	for day := 0; day < 5; day++ {
		setClock(time.Date(2025, 3, 10+day, 8, 0, 0, 0, time.UTC))
		rec, transition, err := svc.RecordActivity(ctx, "u1")
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if rec.CurrentStreak != day+1 {
			t.Fatalf("day %d: current = %d, want %d", day, rec.CurrentStreak, day+1)
		}
		if day > 0 && transition != domain.StreakExtended {
			t.Fatalf("day %d: transition = %q, want extended", day, transition)
		}
	}
	if points.totals["u1"] != 50 {
		t.Errorf("points = %d, want 50 (5 daily awards)", points.totals["u1"])
	}
}

func TestRecordActivityGapResetsWithoutPenalty(t *testing.T) {
	svc, _, points, setClock := newTestStreakService(t)
	ctx := context.Background()

	setClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	if _, _, err := svc.RecordActivity(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	setClock(time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC))
	if _, _, err := svc.RecordActivity(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	pointsBefore := points.totals["u1"]

	// two-day gap
	setClock(time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC))
	rec, transition, err := svc.RecordActivity(ctx, "u1")
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if transition != domain.StreakReset {
		t.Errorf("transition = %q, want reset", transition)
	}
	if rec.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1", rec.CurrentStreak)
	}
	if rec.LongestStreak != 2 {
		t.Errorf("longest = %d, want 2 (preserved)", rec.LongestStreak)
	}
	if points.totals["u1"] != pointsBefore {
		t.Errorf("points changed on reset: %d -> %d", pointsBefore, points.totals["u1"])
	}
}

func TestRecordActivityUTCMidnightBoundary(t *testing.T) {
	svc, _, _, setClock := newTestStreakService(t)
	ctx := context.Background()

	// 23:30 UTC and 00:30 UTC next day are consecutive calendar dates
	setClock(time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))
	if _, _, err := svc.RecordActivity(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	setClock(time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC))
	rec, transition, err := svc.RecordActivity(ctx, "u1")
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if transition != domain.StreakExtended {
		t.Errorf("transition = %q, want extended across UTC midnight", transition)
	}
	if rec.CurrentStreak != 2 {
		t.Errorf("current = %d, want 2", rec.CurrentStreak)
	}
}

func TestGetStreakZeroState(t *testing.T) {
	svc, _, _, _ := newTestStreakService(t)

	rec, err := svc.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.CurrentStreak != 0 || rec.LastActivityDate != nil {
		t.Errorf("expected zero state, got %+v", rec)
	}
}
