package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notehub-gamification/internal/domain"
)

// AchievementStore is the persistence contract for achievement unlocks.
// TryUnlock must be insert-if-absent: concurrent evaluations may both see an
// achievement as locked, and only one insert may win.
type AchievementStore interface {
	UnlockedAchievements(ctx context.Context, userID string) (map[string]time.Time, error)
	TryUnlock(ctx context.Context, userID, achievementID string, at time.Time) (bool, error)
}

// StatsSource builds the stats snapshot achievement evaluation reads
type StatsSource interface {
	Snapshot(ctx context.Context, userID string) (domain.StatsSnapshot, error)
}

// AchievementService evaluates the static catalog against user stats and
// unlocks whatever newly qualifies
type AchievementService struct {
	store    AchievementStore
	stats    StatsSource
	points   *PointsService
	notifier Notifier
	logger   *slog.Logger
	catalog  []domain.AchievementDefinition
	now      func() time.Time
}

// NewAchievementService creates a new achievement evaluator over the static
// catalog
func NewAchievementService(
	store AchievementStore,
	stats StatsSource,
	points *PointsService,
	notifier Notifier,
	logger *slog.Logger,
) *AchievementService {
	return &AchievementService{
		store:    store,
		stats:    stats,
		points:   points,
		notifier: notifier,
		logger:   logger,
		catalog:  domain.AchievementCatalog,
		now:      time.Now,
	}
}

// CheckAndUnlock evaluates every locked catalog entry against a fresh stats
// snapshot and unlocks the qualifying ones, awarding their bonus points.
// When the snapshot cannot be gathered, nothing is unlocked. A call where
// nothing newly qualifies returns an empty list, not an error.
func (s *AchievementService) CheckAndUnlock(ctx context.Context, userID string) ([]domain.UnlockedAchievement, error) {
	snap, err := s.stats.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("gathering stats snapshot: %w", err)
	}

	unlocked, err := s.store.UnlockedAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading unlocked set: %w", err)
	}

	var newly []domain.UnlockedAchievement
	for _, def := range s.catalog {
		if _, done := unlocked[def.ID]; done {
			continue
		}
		if !def.Qualifies(snap) {
			continue
		}

		at := s.now()
		inserted, err := s.store.TryUnlock(ctx, userID, def.ID, at)
		if err != nil {
			return newly, fmt.Errorf("unlocking %s: %w", def.ID, err)
		}
		if !inserted {
			// Lost the race to a concurrent evaluation; the winner awards
			// the bonus.
			continue
		}

		bonus := def.Points
		if _, err := s.points.Award(ctx, userID, domain.ActionAchievement, &bonus); err != nil {
			return newly, fmt.Errorf("awarding bonus for %s: %w", def.ID, err)
		}

		if err := s.notifier.Enqueue(ctx, userID, domain.NotificationAchievement, map[string]interface{}{
			"achievement_id": def.ID,
			"name":           def.Name,
			"points":         def.Points,
		}); err != nil {
			s.logger.Warn("failed to enqueue achievement notification",
				"user_id", userID,
				"achievement_id", def.ID,
				"error", err,
			)
		}

		newly = append(newly, domain.UnlockedAchievement{
			AchievementDefinition: def,
			UnlockedAt:            at,
		})
	}

	return newly, nil
}

// List returns the full catalog annotated with the user's unlock state
func (s *AchievementService) List(ctx context.Context, userID string) ([]domain.AchievementStatus, error) {
	unlocked, err := s.store.UnlockedAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading unlocked set: %w", err)
	}

	statuses := make([]domain.AchievementStatus, 0, len(s.catalog))
	for _, def := range s.catalog {
		status := domain.AchievementStatus{AchievementDefinition: def}
		if at, ok := unlocked[def.ID]; ok {
			status.Unlocked = true
			unlockedAt := at
			status.UnlockedAt = &unlockedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
