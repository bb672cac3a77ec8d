package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notehub-gamification/internal/domain"
)

// InitStores covers the lazy-initialization writes the engine performs when a
// user record is first touched
type InitStores interface {
	EnsurePoints(ctx context.Context, userID string) error
	EnsureStreak(ctx context.Context, userID string) error
}

// Engine ties the gamification pipeline together: one qualifying activity
// event flows through points, streaks, referral follow-ups, and the
// achievement evaluator in order.
type Engine struct {
	Points       *PointsService
	Streaks      *StreakService
	Achievements *AchievementService
	Referrals    *ReferralService
	Leaderboard  *LeaderboardService

	init   InitStores
	logger *slog.Logger
}

// NewEngine creates the engine aggregate
func NewEngine(
	points *PointsService,
	streaks *StreakService,
	achievements *AchievementService,
	referrals *ReferralService,
	leaderboard *LeaderboardService,
	init InitStores,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		Points:       points,
		Streaks:      streaks,
		Achievements: achievements,
		Referrals:    referrals,
		Leaderboard:  leaderboard,
		init:         init,
		logger:       logger,
	}
}

// HandleActivity processes one qualifying activity event end to end: award
// points, advance the streak, pay the referrer's first-upload bonus when
// applicable, then re-evaluate achievements against fresh stats.
func (e *Engine) HandleActivity(ctx context.Context, event domain.ActivityEvent) error {
	if event.UserID == "" {
		return fmt.Errorf("%w: missing user id", domain.ErrInvalidRequest)
	}

	if _, err := e.Points.Award(ctx, event.UserID, event.Action, nil); err != nil {
		return fmt.Errorf("awarding points for %s: %w", event.Action, err)
	}

	if _, _, err := e.Streaks.RecordActivity(ctx, event.UserID); err != nil {
		return fmt.Errorf("recording streak activity: %w", err)
	}

	if event.Action == domain.ActionUploadNote {
		if err := e.Referrals.FirstUploadReward(ctx, event.UserID); err != nil {
			return fmt.Errorf("paying first upload referral reward: %w", err)
		}
	}

	unlocked, err := e.Achievements.CheckAndUnlock(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("evaluating achievements: %w", err)
	}
	if len(unlocked) > 0 {
		e.logger.Info("achievements unlocked",
			"user_id", event.UserID,
			"count", len(unlocked),
			"action", event.Action)
	}

	return nil
}

// InitUserRecords lazily provisions a user's gamification rows. Each record
// is best-effort: a failed initialization is logged and skipped so one bad
// store never blocks the others, and every operation tolerates missing rows
// by treating them as zero state.
func (e *Engine) InitUserRecords(ctx context.Context, userID string) {
	if err := e.init.EnsurePoints(ctx, userID); err != nil {
		e.logger.Warn("failed to init points record", "user_id", userID, "error", err)
	}
	if err := e.init.EnsureStreak(ctx, userID); err != nil {
		e.logger.Warn("failed to init streak record", "user_id", userID, "error", err)
	}
	if _, err := e.Referrals.EnsureRecord(ctx, userID); err != nil {
		e.logger.Warn("failed to init referral record", "user_id", userID, "error", err)
	}
}
