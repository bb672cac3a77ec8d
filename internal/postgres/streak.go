package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/notehub-gamification/internal/domain"
)

// RecordActivity applies one activity to the user's streak state machine in
// a single atomic statement. The CTE captures the previous activity date so
// the caller can classify the transition without a separate read.
func (r *Repository) RecordActivity(ctx context.Context, userID string, now time.Time) (domain.StreakRecord, *time.Time, error) {
	// Sent as a DATE, not a timestamptz: a timestamp parameter would be cast
	// to a date through the session TimeZone and shift the stored day under
	// non-UTC sessions.
	today := pgtype.Date{Time: domain.UTCDate(now), Valid: true}

	rec := domain.StreakRecord{UserID: userID}
	var (
		lastDate time.Time
		prevDate *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		WITH prev AS (
			SELECT last_activity_date FROM user_streaks WHERE user_id = $1
		), upsert AS (
			INSERT INTO user_streaks
				(user_id, current_streak, longest_streak, last_activity_date, total_activities, updated_at)
			VALUES ($1, 1, 1, $2, 1, $3)
			ON CONFLICT (user_id) DO UPDATE SET
				current_streak = CASE
					WHEN user_streaks.last_activity_date = $2 THEN user_streaks.current_streak
					WHEN user_streaks.last_activity_date = $2 - 1 THEN user_streaks.current_streak + 1
					ELSE 1
				END,
				longest_streak = GREATEST(user_streaks.longest_streak, CASE
					WHEN user_streaks.last_activity_date = $2 THEN user_streaks.current_streak
					WHEN user_streaks.last_activity_date = $2 - 1 THEN user_streaks.current_streak + 1
					ELSE 1
				END),
				last_activity_date = $2,
				total_activities = user_streaks.total_activities + 1,
				updated_at = $3
			RETURNING current_streak, longest_streak, last_activity_date, total_activities
		)
		SELECT u.current_streak, u.longest_streak, u.last_activity_date, u.total_activities,
		       (SELECT last_activity_date FROM prev)
		FROM upsert u
	`, userID, today, now).Scan(&rec.CurrentStreak, &rec.LongestStreak, &lastDate, &rec.TotalActivities, &prevDate)
	if err != nil {
		return rec, nil, fmt.Errorf("recording activity: %w", err)
	}

	rec.LastActivityDate = &lastDate
	rec.UpdatedAt = now
	return rec, prevDate, nil
}

// GetStreak retrieves a user's streak record. A user with no record reads as
// the zero state.
func (r *Repository) GetStreak(ctx context.Context, userID string) (domain.StreakRecord, error) {
	rec := domain.StreakRecord{UserID: userID}
	var lastDate *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT current_streak, longest_streak, last_activity_date, total_activities, updated_at
		FROM user_streaks
		WHERE user_id = $1
	`, userID).Scan(&rec.CurrentStreak, &rec.LongestStreak, &lastDate, &rec.TotalActivities, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, nil
		}
		return rec, fmt.Errorf("getting streak: %w", err)
	}
	rec.LastActivityDate = lastDate
	return rec, nil
}

// EnsureStreak creates the zero-state streak row if it does not exist
func (r *Repository) EnsureStreak(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_streaks (user_id, current_streak, longest_streak, total_activities)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("ensuring streak record: %w", err)
	}
	return nil
}
