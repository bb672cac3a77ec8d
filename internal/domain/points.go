package domain

import "time"

// Action identifies a point-earning user action
type Action string

const (
	ActionUploadNote          Action = "upload_note"
	ActionNoteDownloaded      Action = "note_downloaded"
	ActionDownloadNote        Action = "download_note"
	ActionShareNote           Action = "share_note"
	ActionDailyLogin          Action = "daily_login"
	ActionDailyStreak         Action = "daily_streak"
	ActionFollowUser          Action = "follow_user"
	ActionJoinGroup           Action = "join_group"
	ActionCreateGroup         Action = "create_group"
	ActionReferralBonus       Action = "referral_bonus"
	ActionReferralWelcome     Action = "referral_welcome"
	ActionFirstUploadReferral Action = "first_upload_referral"
	ActionProfileComplete     Action = "profile_complete"
	ActionAchievement         Action = "achievement"
)

// ActionPoints maps each action to its default point value. A zero value
// means the action is tracked elsewhere and never writes a history entry.
var ActionPoints = map[Action]int{
	ActionUploadNote:          50,
	ActionNoteDownloaded:      5,
	ActionDownloadNote:        2,
	ActionShareNote:           10,
	ActionDailyLogin:          5,
	ActionDailyStreak:         10,
	ActionFollowUser:          5,
	ActionJoinGroup:           10,
	ActionCreateGroup:         20,
	ActionReferralBonus:       50,
	ActionReferralWelcome:     0,
	ActionFirstUploadReferral: 25,
	ActionProfileComplete:     25,
}

// PointEvent is a single append-only entry in a user's points history
type PointEvent struct {
	Action    Action    `json:"action"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
}

// PointsRecord is the persisted per-user points state. Level and LevelName
// are derived from TotalPoints and must match CalculateLevel after every
// mutation.
type PointsRecord struct {
	UserID      string    `json:"user_id"`
	TotalPoints int       `json:"total_points"`
	Level       int       `json:"level"`
	LevelName   string    `json:"level_name"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LevelInfo is the full result of a level calculation
type LevelInfo struct {
	Level              int     `json:"level"`
	LevelName          string  `json:"level_name"`
	PointsToNext       int     `json:"points_to_next_level"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

type levelThreshold struct {
	level     int
	minPoints int
	name      string
}

// levelThresholds is ordered ascending by minPoints
var levelThresholds = []levelThreshold{
	{1, 0, "Beginner"},
	{5, 2500, "Helper"},
	{10, 10000, "Contributor"},
	{20, 25000, "Expert"},
	{30, 50000, "Master"},
	{40, 100000, "Legend"},
	{50, 250000, "Grandmaster"},
}

// CalculateLevel computes the level tier for a point total. It is pure and
// non-decreasing in points: at max level PointsToNext is 0 and progress 100.
func CalculateLevel(points int) LevelInfo {
	if points < 0 {
		points = 0
	}

	idx := 0
	for i, t := range levelThresholds {
		if points >= t.minPoints {
			idx = i
		}
	}

	current := levelThresholds[idx]
	info := LevelInfo{
		Level:     current.level,
		LevelName: current.name,
	}

	if idx == len(levelThresholds)-1 {
		info.PointsToNext = 0
		info.ProgressPercentage = 100
		return info
	}

	next := levelThresholds[idx+1]
	info.PointsToNext = next.minPoints - points
	span := next.minPoints - current.minPoints
	info.ProgressPercentage = float64(points-current.minPoints) / float64(span) * 100
	return info
}

// MaxLevel returns the highest reachable level
func MaxLevel() int {
	return levelThresholds[len(levelThresholds)-1].level
}
