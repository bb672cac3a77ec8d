package postgres

import (
	"context"
	"fmt"
	"time"
)

// UnlockedAchievements returns the user's unlocked set keyed by achievement ID
func (r *Repository) UnlockedAchievements(ctx context.Context, userID string) (map[string]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT achievement_id, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("getting unlocked achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("scanning unlocked achievement: %w", err)
		}
		unlocked[id] = at
	}
	return unlocked, rows.Err()
}

// TryUnlock inserts an unlock row if absent. Returns true only when this call
// performed the insert, so two concurrent evaluations cannot both award the
// bonus.
func (r *Repository) TryUnlock(ctx context.Context, userID, achievementID string, at time.Time) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`, userID, achievementID, at)
	if err != nil {
		return false, fmt.Errorf("unlocking achievement: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
