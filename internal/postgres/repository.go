package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notehub-gamification/internal/config"
)

// Repository provides PostgreSQL-based data access for the gamification
// engine and for the collaborator reads it depends on
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// RunMigrations executes database migrations. The users, notes, follows and
// study-group tables belong to the wider platform; they are created here only
// so a standalone deployment of the engine can run.
func (r *Repository) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS user_points (
			user_id VARCHAR(64) PRIMARY KEY,
			total_points BIGINT NOT NULL DEFAULT 0 CHECK (total_points >= 0),
			level INT NOT NULL DEFAULT 1,
			level_name VARCHAR(32) NOT NULL DEFAULT 'Beginner',
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS point_events (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			action VARCHAR(40) NOT NULL,
			points INT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_streaks (
			user_id VARCHAR(64) PRIMARY KEY,
			current_streak INT NOT NULL DEFAULT 0 CHECK (current_streak >= 0),
			longest_streak INT NOT NULL DEFAULT 0 CHECK (longest_streak >= current_streak),
			last_activity_date DATE,
			total_activities INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_achievements (
			user_id VARCHAR(64) NOT NULL,
			achievement_id VARCHAR(64) NOT NULL,
			unlocked_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_referrals (
			user_id VARCHAR(64) PRIMARY KEY,
			referral_code VARCHAR(16) NOT NULL UNIQUE,
			referred_by VARCHAR(16),
			referred_users JSONB NOT NULL DEFAULT '[]',
			total_referrals INT NOT NULL DEFAULT 0,
			bonus_downloads INT NOT NULL DEFAULT 0,
			ai_access_days INT NOT NULL DEFAULT 0,
			premium_days INT NOT NULL DEFAULT 0,
			first_upload_rewarded BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			type VARCHAR(40) NOT NULL,
			payload JSONB,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			handle VARCHAR(64) NOT NULL UNIQUE,
			college VARCHAR(128) NOT NULL DEFAULT '',
			department VARCHAR(128) NOT NULL DEFAULT '',
			year INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			approved BOOLEAN NOT NULL DEFAULT FALSE,
			download_count INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS follows (
			follower_id VARCHAR(64) NOT NULL,
			followee_id VARCHAR(64) NOT NULL,
			PRIMARY KEY (follower_id, followee_id)
		)`,
		`CREATE TABLE IF NOT EXISTS study_groups (
			id BIGSERIAL PRIMARY KEY,
			creator_id VARCHAR(64) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id BIGINT NOT NULL,
			user_id VARCHAR(64) NOT NULL,
			PRIMARY KEY (group_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_point_events_user ON point_events(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_point_events_user_action ON point_events(user_id, action)`,
		`CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_college ON users(college)`,
		`CREATE INDEX IF NOT EXISTS idx_users_department ON users(department)`,
	}

	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed")
	return nil
}
