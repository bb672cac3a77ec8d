package domain

import "time"

// StreakRecord is the persisted per-user streak state. The invariant
// LongestStreak >= CurrentStreak holds after every transition.
type StreakRecord struct {
	UserID           string     `json:"user_id"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	TotalActivities  int        `json:"total_activities"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// StreakTransition describes what a single activity did to the streak
type StreakTransition string

const (
	// StreakStarted is the first ever activity for the user
	StreakStarted StreakTransition = "started"
	// StreakUnchanged means another activity on an already-counted day
	StreakUnchanged StreakTransition = "unchanged"
	// StreakExtended means activity on the day after the last one
	StreakExtended StreakTransition = "extended"
	// StreakReset means the gap exceeded one day and the streak restarted at 1
	StreakReset StreakTransition = "reset"
)

// Earned reports whether the transition awards daily streak points
func (t StreakTransition) Earned() bool {
	return t == StreakStarted || t == StreakExtended
}

// UTCDate truncates a time to its UTC calendar date. Streak day boundaries
// compare UTC dates, so a user near local midnight may see a day flip earlier
// or later than their wall clock.
func UTCDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ClassifyStreakDay maps the previous activity date and the current moment to
// a streak transition. A nil previous date means the record is new.
func ClassifyStreakDay(prev *time.Time, now time.Time) StreakTransition {
	if prev == nil {
		return StreakStarted
	}
	today := UTCDate(now)
	last := UTCDate(*prev)
	switch days := int(today.Sub(last).Hours() / 24); {
	case days <= 0:
		return StreakUnchanged
	case days == 1:
		return StreakExtended
	default:
		return StreakReset
	}
}
