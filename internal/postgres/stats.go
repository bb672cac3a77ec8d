package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/notehub-gamification/internal/domain"
)

// GetUser reads a user's profile from the platform user directory
func (r *Repository) GetUser(ctx context.Context, userID string) (domain.UserProfile, error) {
	p := domain.UserProfile{UserID: userID}
	err := r.pool.QueryRow(ctx, `
		SELECT handle, college, department, year
		FROM users
		WHERE id = $1
	`, userID).Scan(&p.Handle, &p.College, &p.Department, &p.Year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, domain.ErrUserNotFound
		}
		return p, fmt.Errorf("getting user: %w", err)
	}
	return p, nil
}

// CountUploads counts a user's notes, optionally approved ones only
func (r *Repository) CountUploads(ctx context.Context, userID string, approvedOnly bool) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notes WHERE user_id = $1 AND (NOT $2 OR approved)
	`, userID, approvedOnly).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting uploads: %w", err)
	}
	return count, nil
}

// SumDownloadCount totals downloads received across a user's notes
func (r *Repository) SumDownloadCount(ctx context.Context, userID string) (int, error) {
	var sum int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(download_count), 0) FROM notes WHERE user_id = $1
	`, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing download count: %w", err)
	}
	return sum, nil
}

// CountFollowers counts users following the given user
func (r *Repository) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM follows WHERE followee_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting followers: %w", err)
	}
	return count, nil
}

// CountFollowing counts users the given user follows
func (r *Repository) CountFollowing(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM follows WHERE follower_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting following: %w", err)
	}
	return count, nil
}

// CountGroupsCreated counts study groups the user created
func (r *Repository) CountGroupsCreated(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM study_groups WHERE creator_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting groups created: %w", err)
	}
	return count, nil
}

// CountGroupsJoined counts study-group memberships
func (r *Repository) CountGroupsJoined(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM group_members WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting groups joined: %w", err)
	}
	return count, nil
}

func scopeFilterClause(scope domain.Scope) string {
	switch scope {
	case domain.ScopeCollege:
		return "WHERE u.college = $1"
	case domain.ScopeDepartment:
		return "WHERE u.department = $1"
	default:
		return ""
	}
}

// CountUsers counts the population of a leaderboard scope
func (r *Repository) CountUsers(ctx context.Context, scope domain.Scope, filter string) (int, error) {
	query := "SELECT COUNT(*) FROM users u " + scopeFilterClause(scope)
	args := []interface{}{}
	if scope != domain.ScopeAllIndia {
		args = append(args, filter)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// BuildLeaderboard computes ranked entries for one scope in a single
// aggregation query instead of one collaborator read per user per field.
// The score formula matches domain.ComputeScore; ties break on user_id
// ascending so ranking is deterministic.
func (r *Repository) BuildLeaderboard(ctx context.Context, scope domain.Scope, filter string, limit int) ([]domain.LeaderboardEntry, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.handle, u.college, u.department,
		       COALESCE(p.total_points, 0)
		           + COALESCE(n.uploads, 0) * %d
		           + COALESCE(n.downloads, 0) * %d
		           + COALESCE(s.current_streak, 0) * %d AS score,
		       COALESCE(p.level, 1) AS level
		FROM users u
		LEFT JOIN user_points p ON p.user_id = u.id
		LEFT JOIN user_streaks s ON s.user_id = u.id
		LEFT JOIN (
			SELECT user_id,
			       COUNT(*) FILTER (WHERE approved) AS uploads,
			       COALESCE(SUM(download_count), 0) AS downloads
			FROM notes
			GROUP BY user_id
		) n ON n.user_id = u.id
		%s
		ORDER BY score DESC, u.id ASC
		LIMIT %s
	`,
		domain.ScoreWeightUpload,
		domain.ScoreWeightDownloadReceived,
		domain.ScoreWeightStreak,
		scopeFilterClause(scope),
		limitPlaceholder(scope),
	)

	args := []interface{}{}
	if scope != domain.ScopeAllIndia {
		args = append(args, filter)
	}
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("building leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Handle, &e.College, &e.Department, &e.Score, &e.Level); err != nil {
			return nil, fmt.Errorf("scanning leaderboard entry: %w", err)
		}
		rank++
		e.Rank = rank
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func limitPlaceholder(scope domain.Scope) string {
	if scope == domain.ScopeAllIndia {
		return "$1"
	}
	return "$2"
}

// DistinctColleges lists colleges with at least one user, for cache refresh
func (r *Repository) DistinctColleges(ctx context.Context) ([]string, error) {
	return r.distinctValues(ctx, `SELECT DISTINCT college FROM users WHERE college <> '' ORDER BY college`)
}

// DistinctDepartments lists departments with at least one user
func (r *Repository) DistinctDepartments(ctx context.Context) ([]string, error) {
	return r.distinctValues(ctx, `SELECT DISTINCT department FROM users WHERE department <> '' ORDER BY department`)
}

func (r *Repository) distinctValues(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing distinct values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
