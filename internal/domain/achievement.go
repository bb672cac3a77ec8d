package domain

import "time"

// Stat names a field of the per-user stats snapshot that achievement
// criteria can reference
type Stat string

const (
	StatUploads               Stat = "uploads"
	StatDownloads             Stat = "downloads"
	StatNoteDownloadsReceived Stat = "note_downloads_received"
	StatCurrentStreak         Stat = "current_streak"
	StatTotalActivities       Stat = "total_activities"
	StatReferrals             Stat = "referrals"
	StatShares                Stat = "shares"
	StatFollowers             Stat = "followers"
	StatFollowing             Stat = "following"
	StatGroupsCreated         Stat = "groups_created"
	StatGroupsJoined          Stat = "groups_joined"
	StatLevel                 Stat = "level"
	StatProfileComplete       Stat = "profile_complete"
)

// StatsSnapshot is a point-in-time view over the collaborator counters used
// for achievement evaluation and leaderboard scoring
type StatsSnapshot struct {
	Uploads               int  `json:"uploads"`
	Downloads             int  `json:"downloads"`
	NoteDownloadsReceived int  `json:"note_downloads_received"`
	CurrentStreak         int  `json:"current_streak"`
	TotalActivities       int  `json:"total_activities"`
	Referrals             int  `json:"referrals"`
	Shares                int  `json:"shares"`
	Followers             int  `json:"followers"`
	Following             int  `json:"following"`
	GroupsCreated         int  `json:"groups_created"`
	GroupsJoined          int  `json:"groups_joined"`
	Level                 int  `json:"level"`
	ProfileComplete       bool `json:"profile_complete"`
}

// Get returns the snapshot value for a stat. The second return is false for
// stats the snapshot does not carry; such criteria are skipped during
// evaluation.
func (s StatsSnapshot) Get(stat Stat) (int, bool) {
	switch stat {
	case StatUploads:
		return s.Uploads, true
	case StatDownloads:
		return s.Downloads, true
	case StatNoteDownloadsReceived:
		return s.NoteDownloadsReceived, true
	case StatCurrentStreak:
		return s.CurrentStreak, true
	case StatTotalActivities:
		return s.TotalActivities, true
	case StatReferrals:
		return s.Referrals, true
	case StatShares:
		return s.Shares, true
	case StatFollowers:
		return s.Followers, true
	case StatFollowing:
		return s.Following, true
	case StatGroupsCreated:
		return s.GroupsCreated, true
	case StatGroupsJoined:
		return s.GroupsJoined, true
	case StatLevel:
		return s.Level, true
	case StatProfileComplete:
		if s.ProfileComplete {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// CriterionKind selects how a criterion threshold is compared
type CriterionKind string

const (
	// CriterionMinCount matches when the stat value is >= Min
	CriterionMinCount CriterionKind = "min_count"
	// CriterionBoolExact matches when the stat's truthiness equals Bool
	CriterionBoolExact CriterionKind = "bool_exact"
)

// Criterion is one condition of an achievement definition
type Criterion struct {
	Stat Stat          `json:"stat"`
	Kind CriterionKind `json:"kind"`
	Min  int           `json:"min,omitempty"`
	Bool bool          `json:"bool,omitempty"`
}

// Satisfied evaluates the criterion against a snapshot. The second return is
// false when the snapshot has no value for the criterion's stat.
func (c Criterion) Satisfied(s StatsSnapshot) (bool, bool) {
	v, ok := s.Get(c.Stat)
	if !ok {
		return false, false
	}
	switch c.Kind {
	case CriterionBoolExact:
		return (v != 0) == c.Bool, true
	default:
		return v >= c.Min, true
	}
}

// MatchMode selects how multiple criteria combine
type MatchMode string

const (
	// MatchAny unlocks on the first satisfied criterion present in the
	// snapshot
	MatchAny MatchMode = "any"
	// MatchAll requires every criterion present in the snapshot to be
	// satisfied, and at least one to be present
	MatchAll MatchMode = "all"
)

// Rarity grades how hard an achievement is to earn
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AchievementDefinition is an immutable catalog entry. The catalog is static
// and never mutated at runtime.
type AchievementDefinition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Icon        string      `json:"icon"`
	Criteria    []Criterion `json:"criteria"`
	Match       MatchMode   `json:"match"`
	Rarity      Rarity      `json:"rarity"`
	Points      int         `json:"points"`
}

// Qualifies evaluates the definition's criteria against a snapshot
func (d AchievementDefinition) Qualifies(s StatsSnapshot) bool {
	if d.Match == MatchAll {
		present := false
		for _, c := range d.Criteria {
			ok, known := c.Satisfied(s)
			if !known {
				continue
			}
			present = true
			if !ok {
				return false
			}
		}
		return present
	}

	for _, c := range d.Criteria {
		if ok, known := c.Satisfied(s); known && ok {
			return true
		}
	}
	return false
}

// UserAchievement records a single unlock. The (UserID, AchievementID) pair
// is unique and unlocks are never revoked.
type UserAchievement struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// UnlockedAchievement pairs a fresh unlock with its catalog definition
type UnlockedAchievement struct {
	AchievementDefinition
	UnlockedAt time.Time `json:"unlocked_at"`
}

// AchievementStatus is a catalog entry with the user's unlock state, for
// profile display
type AchievementStatus struct {
	AchievementDefinition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
