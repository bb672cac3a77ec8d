package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notehub-gamification/internal/domain"
)

// StreakStore is the persistence contract for the streak tracker. The
// RecordActivity transition must be a single atomic storage operation and
// return the previous activity date for classification.
type StreakStore interface {
	RecordActivity(ctx context.Context, userID string, now time.Time) (domain.StreakRecord, *time.Time, error)
	GetStreak(ctx context.Context, userID string) (domain.StreakRecord, error)
	EnsureStreak(ctx context.Context, userID string) error
}

// StreakService tracks per-user consecutive-day activity
type StreakService struct {
	store  StreakStore
	points *PointsService
	logger *slog.Logger
	now    func() time.Time
}

// NewStreakService creates a new streak service
func NewStreakService(store StreakStore, points *PointsService, logger *slog.Logger) *StreakService {
	return &StreakService{
		store:  store,
		points: points,
		logger: logger,
		now:    time.Now,
	}
}

// RecordActivity applies one qualifying activity to the user's streak.
// Starting and extending a streak award daily-streak points; a same-day
// repeat only bumps the activity counter; a gap over one day resets the
// streak to 1 with no points penalty. Day boundaries are UTC calendar dates.
func (s *StreakService) RecordActivity(ctx context.Context, userID string) (domain.StreakRecord, domain.StreakTransition, error) {
	now := s.now()
	rec, prevDate, err := s.store.RecordActivity(ctx, userID, now)
	if err != nil {
		return rec, "", fmt.Errorf("recording streak activity: %w", err)
	}

	// longest_streak >= current_streak must hold after every transition
	if rec.LongestStreak < rec.CurrentStreak {
		return rec, "", fmt.Errorf("streak invariant violated for user %s: longest %d < current %d",
			userID, rec.LongestStreak, rec.CurrentStreak)
	}

	transition := domain.ClassifyStreakDay(prevDate, now)
	if transition.Earned() {
		if _, err := s.points.Award(ctx, userID, domain.ActionDailyStreak, nil); err != nil {
			return rec, transition, fmt.Errorf("awarding streak points: %w", err)
		}
	}

	return rec, transition, nil
}

// Get returns the user's streak record; missing records read as the zero
// state
func (s *StreakService) Get(ctx context.Context, userID string) (domain.StreakRecord, error) {
	rec, err := s.store.GetStreak(ctx, userID)
	if err != nil {
		return rec, fmt.Errorf("getting streak record: %w", err)
	}
	return rec, nil
}
