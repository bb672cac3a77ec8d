package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notehub-gamification/internal/config"
	"github.com/notehub-gamification/internal/domain"
)

// LeaderboardStore computes ranked entries with a single batched aggregation
// per scope
type LeaderboardStore interface {
	BuildLeaderboard(ctx context.Context, scope domain.Scope, filter string, limit int) ([]domain.LeaderboardEntry, error)
	CountUsers(ctx context.Context, scope domain.Scope, filter string) (int, error)
	DistinctColleges(ctx context.Context) ([]string, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
}

// SnapshotCache stores leaderboard snapshots per (scope, filter) with a TTL
type SnapshotCache interface {
	Get(ctx context.Context, scope domain.Scope, filter string) (*domain.LeaderboardSnapshot, bool, error)
	Set(ctx context.Context, snap *domain.LeaderboardSnapshot, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
}

// LeaderboardService builds and serves ranked leaderboards. The cache is
// advisory: on miss or expiry the snapshot is recomputed synchronously and
// the caller blocks; racing cache writes are last-writer-wins.
type LeaderboardService struct {
	store  LeaderboardStore
	cache  SnapshotCache
	config *config.LeaderboardConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(
	store LeaderboardStore,
	cache SnapshotCache,
	cfg *config.LeaderboardConfig,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		store:  store,
		cache:  cache,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *LeaderboardService) ttlFor(scope domain.Scope) time.Duration {
	if scope == domain.ScopeAllIndia {
		return s.config.AllIndiaTTL
	}
	return s.config.ScopedTTL
}

func (s *LeaderboardService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.config.DefaultLimit
	}
	if limit > s.config.MaxLimit {
		return s.config.MaxLimit
	}
	return limit
}

// Get serves a ranked leaderboard for a scope, from cache when fresh. The
// requester's rank comes from the snapshot; users outside the truncated
// top-N get the total_users+1 placeholder.
func (s *LeaderboardService) Get(ctx context.Context, scope domain.Scope, filter string, limit int, requesterID string) (*domain.LeaderboardView, error) {
	if err := domain.ValidateScope(scope, filter); err != nil {
		return nil, err
	}
	if scope == domain.ScopeAllIndia {
		filter = ""
	}
	limit = s.clampLimit(limit)

	snap, hit, err := s.cache.Get(ctx, scope, filter)
	if err != nil {
		// Cache failures degrade to a rebuild; the cache is never a source
		// of truth.
		s.logger.Warn("leaderboard cache read failed", "scope", scope, "error", err)
		hit = false
	}
	if hit && len(snap.Entries) < limit && snap.TotalUsers > len(snap.Entries) {
		// The cached snapshot was built with a smaller limit; rebuild.
		hit = false
	}

	if !hit {
		snap, err = s.rebuild(ctx, scope, filter, limit)
		if err != nil {
			return nil, err
		}
	}

	entries := snap.Entries
	if len(entries) > limit {
		entries = entries[:limit]
	}

	return &domain.LeaderboardView{
		Scope:         scope,
		Filter:        filter,
		Entries:       entries,
		TotalUsers:    snap.TotalUsers,
		RequesterRank: snap.RequesterRank(requesterID),
		UpdatedAt:     snap.UpdatedAt,
	}, nil
}

// rebuild recomputes one scope and refreshes its cache entry
func (s *LeaderboardService) rebuild(ctx context.Context, scope domain.Scope, filter string, limit int) (*domain.LeaderboardSnapshot, error) {
	entries, err := s.store.BuildLeaderboard(ctx, scope, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("building leaderboard: %w", err)
	}
	total, err := s.store.CountUsers(ctx, scope, filter)
	if err != nil {
		return nil, fmt.Errorf("counting scope users: %w", err)
	}

	snap := &domain.LeaderboardSnapshot{
		Scope:      scope,
		Filter:     filter,
		Entries:    entries,
		TotalUsers: total,
		UpdatedAt:  s.now(),
	}

	if err := s.cache.Set(ctx, snap, s.ttlFor(scope)); err != nil {
		s.logger.Warn("failed to cache leaderboard snapshot", "scope", scope, "error", err)
	}
	return snap, nil
}

// Refresh drops every cached scope; the next read per scope recomputes
func (s *LeaderboardService) Refresh(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("invalidating leaderboard cache: %w", err)
	}
	return nil
}

// RebuildAll recomputes and caches every known scope: all_india plus each
// distinct college and department. Driven by the periodic refresh worker.
func (s *LeaderboardService) RebuildAll(ctx context.Context) error {
	limit := s.config.DefaultLimit

	if _, err := s.rebuild(ctx, domain.ScopeAllIndia, "", limit); err != nil {
		return err
	}

	colleges, err := s.store.DistinctColleges(ctx)
	if err != nil {
		return fmt.Errorf("listing colleges: %w", err)
	}
	for _, college := range colleges {
		if _, err := s.rebuild(ctx, domain.ScopeCollege, college, limit); err != nil {
			return err
		}
	}

	departments, err := s.store.DistinctDepartments(ctx)
	if err != nil {
		return fmt.Errorf("listing departments: %w", err)
	}
	for _, dept := range departments {
		if _, err := s.rebuild(ctx, domain.ScopeDepartment, dept, limit); err != nil {
			return err
		}
	}

	return nil
}
