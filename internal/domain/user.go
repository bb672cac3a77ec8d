package domain

import "time"

// UserProfile is the slice of the user directory this engine reads
type UserProfile struct {
	UserID     string `json:"user_id"`
	Handle     string `json:"handle"`
	Department string `json:"department"`
	College    string `json:"college"`
	Year       int    `json:"year"`
}

// ActivityEvent is a qualifying user action ingested from the event stream
type ActivityEvent struct {
	UserID     string    `json:"user_id"`
	Action     Action    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NotificationType tags a notification record
type NotificationType string

const (
	NotificationAchievement NotificationType = "achievement_unlocked"
	NotificationLevelUp     NotificationType = "level_up"
	NotificationReferral    NotificationType = "referral_applied"
)

// Notification is a stored notification record. Delivery is out of scope;
// only record creation is modeled.
type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      NotificationType       `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
