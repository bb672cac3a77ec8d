package domain

import (
	"time"
)

// Scope selects the population a ranking is computed over
type Scope string

const (
	ScopeAllIndia   Scope = "all_india"
	ScopeCollege    Scope = "college"
	ScopeDepartment Scope = "department"
)

// ValidateScope checks a scope/filter pair: all_india takes no filter, the
// narrower scopes require one
func ValidateScope(scope Scope, filter string) error {
	switch scope {
	case ScopeAllIndia:
		return nil
	case ScopeCollege, ScopeDepartment:
		if filter == "" {
			return ErrScopeFilterRequired
		}
		return nil
	default:
		return ErrInvalidScope
	}
}

// Leaderboard score weights. The weighted score is
// total_points + uploads*100 + downloads_received*5 + current_streak*10.
const (
	ScoreWeightUpload           = 100
	ScoreWeightDownloadReceived = 5
	ScoreWeightStreak           = 10
)

// ComputeScore applies the leaderboard score formula to a stats snapshot
// plus the user's running point total. Deterministic, no randomness.
func ComputeScore(totalPoints, uploads, downloadsReceived, currentStreak int) int64 {
	return int64(totalPoints) +
		int64(uploads)*ScoreWeightUpload +
		int64(downloadsReceived)*ScoreWeightDownloadReceived +
		int64(currentStreak)*ScoreWeightStreak
}

// LeaderboardEntry is one ranked row. Ranks are a contiguous 1-based
// sequence; equal scores get distinct sequential ranks.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	Handle     string `json:"handle"`
	College    string `json:"college,omitempty"`
	Department string `json:"department,omitempty"`
	Score      int64  `json:"score"`
	Level      int    `json:"level"`
}

// LeaderboardSnapshot is the cached result of one build for a (scope, filter)
type LeaderboardSnapshot struct {
	Scope      Scope              `json:"scope"`
	Filter     string             `json:"filter,omitempty"`
	Entries    []LeaderboardEntry `json:"entries"`
	TotalUsers int                `json:"total_users"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// RequesterRank resolves the requesting user's rank against a snapshot. For
// users outside the truncated top-N the rank is approximated as
// total_users + 1; display only, never authoritative.
func (s *LeaderboardSnapshot) RequesterRank(userID string) int {
	if userID == "" {
		return 0
	}
	for _, e := range s.Entries {
		if e.UserID == userID {
			return e.Rank
		}
	}
	return s.TotalUsers + 1
}

// LeaderboardView is the response shape served to callers
type LeaderboardView struct {
	Scope         Scope              `json:"scope"`
	Filter        string             `json:"filter,omitempty"`
	Entries       []LeaderboardEntry `json:"entries"`
	TotalUsers    int                `json:"total_users"`
	RequesterRank int                `json:"requester_rank,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
