package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notehub-gamification/internal/domain"
)

// PointsStore is the persistence contract for the points ledger
type PointsStore interface {
	AwardPoints(ctx context.Context, userID string, action domain.Action, points int, at time.Time) (int, error)
	GetPoints(ctx context.Context, userID string) (domain.PointsRecord, error)
	EnsurePoints(ctx context.Context, userID string) error
	PointsHistory(ctx context.Context, userID string, limit, offset int) ([]domain.PointEvent, error)
	CountActions(ctx context.Context, userID string, action domain.Action) (int, error)
}

// Notifier persists notification records. Enqueue failures are logged by
// callers and never propagated.
type Notifier interface {
	Enqueue(ctx context.Context, userID string, typ domain.NotificationType, payload map[string]interface{}) error
}

// PointsService provides the points ledger and level calculator
type PointsService struct {
	store    PointsStore
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewPointsService creates a new points service
func NewPointsService(store PointsStore, notifier Notifier, logger *slog.Logger) *PointsService {
	return &PointsService{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Award resolves the point value for an action (from the static table unless
// an override is given) and applies it. A resolved value of zero is a no-op:
// no history entry, no write.
func (s *PointsService) Award(ctx context.Context, userID string, action domain.Action, override *int) (domain.PointsRecord, error) {
	var points int
	if override != nil {
		points = *override
	} else {
		var ok bool
		points, ok = domain.ActionPoints[action]
		if !ok {
			return domain.PointsRecord{}, fmt.Errorf("%w: %s", domain.ErrUnknownAction, action)
		}
	}

	if points == 0 {
		return s.store.GetPoints(ctx, userID)
	}

	total, err := s.store.AwardPoints(ctx, userID, action, points, s.now())
	if err != nil {
		return domain.PointsRecord{}, fmt.Errorf("awarding %s points: %w", action, err)
	}

	info := domain.CalculateLevel(total)
	rec := domain.PointsRecord{
		UserID:      userID,
		TotalPoints: total,
		Level:       info.Level,
		LevelName:   info.LevelName,
		UpdatedAt:   s.now(),
	}

	// Level-up detection compares the tier before and after this award.
	if before := domain.CalculateLevel(total - points); before.Level != info.Level {
		if err := s.notifier.Enqueue(ctx, userID, domain.NotificationLevelUp, map[string]interface{}{
			"level":      info.Level,
			"level_name": info.LevelName,
		}); err != nil {
			s.logger.Warn("failed to enqueue level-up notification", "user_id", userID, "error", err)
		}
	}

	return rec, nil
}

// Get returns the user's points record and level breakdown. Users with no
// record read as the zero state rather than an error.
func (s *PointsService) Get(ctx context.Context, userID string) (domain.PointsRecord, domain.LevelInfo, error) {
	rec, err := s.store.GetPoints(ctx, userID)
	if err != nil {
		return rec, domain.LevelInfo{}, fmt.Errorf("getting points record: %w", err)
	}
	return rec, domain.CalculateLevel(rec.TotalPoints), nil
}

// History returns a page of the user's point history, newest first
func (s *PointsService) History(ctx context.Context, userID string, limit, offset int) ([]domain.PointEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.PointsHistory(ctx, userID, limit, offset)
}
