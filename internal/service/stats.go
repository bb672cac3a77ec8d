package service

import (
	"context"
	"fmt"

	"github.com/notehub-gamification/internal/domain"
)

// Directory reads user profiles from the platform user directory
type Directory interface {
	GetUser(ctx context.Context, userID string) (domain.UserProfile, error)
}

// NoteStore reads upload and download counters from the note store
type NoteStore interface {
	CountUploads(ctx context.Context, userID string, approvedOnly bool) (int, error)
	SumDownloadCount(ctx context.Context, userID string) (int, error)
}

// SocialStore reads follower counters from the social graph
type SocialStore interface {
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}

// GroupStore reads study-group counters
type GroupStore interface {
	CountGroupsCreated(ctx context.Context, userID string) (int, error)
	CountGroupsJoined(ctx context.Context, userID string) (int, error)
}

// ReferralReader is the read-only slice of the referral store the stats
// collector needs
type ReferralReader interface {
	GetReferral(ctx context.Context, userID string) (domain.ReferralRecord, bool, error)
}

// StatsCollector assembles the per-user stats snapshot from collaborator
// reads. Any failed read aborts the whole snapshot so achievement evaluation
// stays all-or-nothing; collaborator failures are never treated as zeros.
type StatsCollector struct {
	notes     NoteStore
	social    SocialStore
	groups    GroupStore
	points    PointsStore
	streaks   StreakStore
	referrals ReferralReader
}

// NewStatsCollector creates a stats collector over the collaborator stores
func NewStatsCollector(
	notes NoteStore,
	social SocialStore,
	groups GroupStore,
	points PointsStore,
	streaks StreakStore,
	referrals ReferralReader,
) *StatsCollector {
	return &StatsCollector{
		notes:     notes,
		social:    social,
		groups:    groups,
		points:    points,
		streaks:   streaks,
		referrals: referrals,
	}
}

// Snapshot gathers the full stats snapshot for a user
func (c *StatsCollector) Snapshot(ctx context.Context, userID string) (domain.StatsSnapshot, error) {
	var snap domain.StatsSnapshot
	var err error

	if snap.Uploads, err = c.notes.CountUploads(ctx, userID, true); err != nil {
		return snap, fmt.Errorf("gathering uploads: %w", err)
	}
	if snap.NoteDownloadsReceived, err = c.notes.SumDownloadCount(ctx, userID); err != nil {
		return snap, fmt.Errorf("gathering downloads received: %w", err)
	}
	if snap.Downloads, err = c.points.CountActions(ctx, userID, domain.ActionDownloadNote); err != nil {
		return snap, fmt.Errorf("gathering downloads performed: %w", err)
	}
	if snap.Shares, err = c.points.CountActions(ctx, userID, domain.ActionShareNote); err != nil {
		return snap, fmt.Errorf("gathering shares: %w", err)
	}
	profileEvents, err := c.points.CountActions(ctx, userID, domain.ActionProfileComplete)
	if err != nil {
		return snap, fmt.Errorf("gathering profile completion: %w", err)
	}
	snap.ProfileComplete = profileEvents > 0

	streak, err := c.streaks.GetStreak(ctx, userID)
	if err != nil {
		return snap, fmt.Errorf("gathering streak: %w", err)
	}
	snap.CurrentStreak = streak.CurrentStreak
	snap.TotalActivities = streak.TotalActivities

	referral, _, err := c.referrals.GetReferral(ctx, userID)
	if err != nil {
		return snap, fmt.Errorf("gathering referrals: %w", err)
	}
	snap.Referrals = referral.TotalReferrals

	if snap.Followers, err = c.social.CountFollowers(ctx, userID); err != nil {
		return snap, fmt.Errorf("gathering followers: %w", err)
	}
	if snap.Following, err = c.social.CountFollowing(ctx, userID); err != nil {
		return snap, fmt.Errorf("gathering following: %w", err)
	}
	if snap.GroupsCreated, err = c.groups.CountGroupsCreated(ctx, userID); err != nil {
		return snap, fmt.Errorf("gathering groups created: %w", err)
	}
	if snap.GroupsJoined, err = c.groups.CountGroupsJoined(ctx, userID); err != nil {
		return snap, fmt.Errorf("gathering groups joined: %w", err)
	}

	points, err := c.points.GetPoints(ctx, userID)
	if err != nil {
		return snap, fmt.Errorf("gathering level: %w", err)
	}
	snap.Level = domain.CalculateLevel(points.TotalPoints).Level

	return snap, nil
}
