package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/notehub-gamification/internal/domain"
)

// AwardPoints atomically increments the user's running total, appends a
// history event and refreshes the derived level columns in one transaction.
// It never reads the total outside the increment statement, so concurrent
// awards for the same user cannot lose updates.
func (r *Repository) AwardPoints(ctx context.Context, userID string, action domain.Action, points int, at time.Time) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning award transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	err = tx.QueryRow(ctx, `
		INSERT INTO user_points (user_id, total_points, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET total_points = user_points.total_points + $2, updated_at = $3
		RETURNING total_points
	`, userID, points, at).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("incrementing points: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO point_events (user_id, action, points, created_at)
		VALUES ($1, $2, $3, $4)
	`, userID, string(action), points, at)
	if err != nil {
		return 0, fmt.Errorf("appending point event: %w", err)
	}

	info := domain.CalculateLevel(total)
	_, err = tx.Exec(ctx, `
		UPDATE user_points SET level = $2, level_name = $3 WHERE user_id = $1
	`, userID, info.Level, info.LevelName)
	if err != nil {
		return 0, fmt.Errorf("updating level: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing award transaction: %w", err)
	}
	return total, nil
}

// GetPoints retrieves a user's points record. A user with no record reads as
// the zero state: 0 points, level 1.
func (r *Repository) GetPoints(ctx context.Context, userID string) (domain.PointsRecord, error) {
	rec := domain.PointsRecord{UserID: userID}
	err := r.pool.QueryRow(ctx, `
		SELECT total_points, level, level_name, updated_at
		FROM user_points
		WHERE user_id = $1
	`, userID).Scan(&rec.TotalPoints, &rec.Level, &rec.LevelName, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			info := domain.CalculateLevel(0)
			rec.Level = info.Level
			rec.LevelName = info.LevelName
			return rec, nil
		}
		return rec, fmt.Errorf("getting points: %w", err)
	}
	return rec, nil
}

// EnsurePoints creates the zero-state points row if it does not exist
func (r *Repository) EnsurePoints(ctx context.Context, userID string) error {
	info := domain.CalculateLevel(0)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_points (user_id, total_points, level, level_name)
		VALUES ($1, 0, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, info.Level, info.LevelName)
	if err != nil {
		return fmt.Errorf("ensuring points record: %w", err)
	}
	return nil
}

// PointsHistory returns the user's append-only history, newest first
func (r *Repository) PointsHistory(ctx context.Context, userID string, limit, offset int) ([]domain.PointEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT action, points, created_at
		FROM point_events
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("getting points history: %w", err)
	}
	defer rows.Close()

	var events []domain.PointEvent
	for rows.Next() {
		var (
			e      domain.PointEvent
			action string
		)
		if err := rows.Scan(&action, &e.Points, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning point event: %w", err)
		}
		e.Action = domain.Action(action)
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountActions returns how many history entries a user has for one action.
// Used to derive per-action counters (downloads performed, shares) for
// achievement evaluation.
func (r *Repository) CountActions(ctx context.Context, userID string, action domain.Action) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM point_events WHERE user_id = $1 AND action = $2
	`, userID, string(action)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting %s events: %w", action, err)
	}
	return count, nil
}
