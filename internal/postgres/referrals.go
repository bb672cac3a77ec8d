package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/notehub-gamification/internal/domain"
)

const referralColumns = `
	user_id, referral_code, COALESCE(referred_by, ''), referred_users,
	total_referrals, bonus_downloads, ai_access_days, premium_days, updated_at
`

func scanReferral(row pgx.Row) (domain.ReferralRecord, error) {
	var (
		rec      domain.ReferralRecord
		usersRaw []byte
	)
	err := row.Scan(
		&rec.UserID,
		&rec.ReferralCode,
		&rec.ReferredBy,
		&usersRaw,
		&rec.TotalReferrals,
		&rec.Rewards.BonusDownloads,
		&rec.Rewards.AIAccessDays,
		&rec.Rewards.PremiumDays,
		&rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}
	if len(usersRaw) > 0 {
		if err := json.Unmarshal(usersRaw, &rec.ReferredUsers); err != nil {
			return rec, fmt.Errorf("decoding referred users: %w", err)
		}
	}
	return rec, nil
}

// CreateReferral inserts a referral record with a freshly minted code. A
// pre-existing record for the user is not an error; a code collision is
// reported as domain.ErrReferralCodeTaken so the caller can remint.
func (r *Repository) CreateReferral(ctx context.Context, userID, code string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_referrals (user_id, referral_code, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, code, at)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrReferralCodeTaken
		}
		return fmt.Errorf("creating referral record: %w", err)
	}
	return nil
}

// GetReferral retrieves a user's referral record. The second return is false
// when no record exists yet.
func (r *Repository) GetReferral(ctx context.Context, userID string) (domain.ReferralRecord, bool, error) {
	rec, err := scanReferral(r.pool.QueryRow(ctx, `
		SELECT `+referralColumns+`
		FROM user_referrals
		WHERE user_id = $1
	`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReferralRecord{UserID: userID}, false, nil
		}
		return rec, false, fmt.Errorf("getting referral record: %w", err)
	}
	return rec, true, nil
}

// FindReferralByCode resolves a referral code to its owner's record
func (r *Repository) FindReferralByCode(ctx context.Context, code string) (domain.ReferralRecord, error) {
	rec, err := scanReferral(r.pool.QueryRow(ctx, `
		SELECT `+referralColumns+`
		FROM user_referrals
		WHERE referral_code = $1
	`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, domain.ErrReferralCodeNotFound
		}
		return rec, fmt.Errorf("finding referral by code: %w", err)
	}
	return rec, nil
}

// ApplyReferralToUser sets referred_by once and pays the applicant's welcome
// bonus. The WHERE clause is the one-time-use guard: a second application
// matches no rows and returns false.
func (r *Repository) ApplyReferralToUser(ctx context.Context, userID, code string, bonusDownloads int, at time.Time) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE user_referrals
		SET referred_by = $2,
		    bonus_downloads = bonus_downloads + $3,
		    updated_at = $4
		WHERE user_id = $1 AND referred_by IS NULL
	`, userID, code, bonusDownloads, at)
	if err != nil {
		return false, fmt.Errorf("applying referral code: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// CreditReferrer atomically increments the referrer's counters and appends
// the referred user to the ordered list
func (r *Repository) CreditReferrer(ctx context.Context, referrerID string, referred domain.ReferredUser, bonusDownloads int, at time.Time) error {
	entry, err := json.Marshal(referred)
	if err != nil {
		return fmt.Errorf("encoding referred user: %w", err)
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE user_referrals
		SET total_referrals = total_referrals + 1,
		    bonus_downloads = bonus_downloads + $3,
		    referred_users = referred_users || $2::jsonb,
		    updated_at = $4
		WHERE user_id = $1
	`, referrerID, entry, bonusDownloads, at)
	if err != nil {
		return fmt.Errorf("crediting referrer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ClaimFirstUploadReward flips the idempotent claimed flag for a referred
// user. Exactly one call ever claims it; the returned code identifies the
// referrer to credit.
func (r *Repository) ClaimFirstUploadReward(ctx context.Context, userID string, at time.Time) (string, bool, error) {
	var referrerCode string
	err := r.pool.QueryRow(ctx, `
		UPDATE user_referrals
		SET first_upload_rewarded = TRUE, updated_at = $2
		WHERE user_id = $1 AND referred_by IS NOT NULL AND NOT first_upload_rewarded
		RETURNING referred_by
	`, userID, at).Scan(&referrerCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("claiming first upload reward: %w", err)
	}
	return referrerCode, true, nil
}

// AddBonusDownloads credits extra bonus downloads to a user's referral record
func (r *Repository) AddBonusDownloads(ctx context.Context, userID string, n int, at time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE user_referrals
		SET bonus_downloads = bonus_downloads + $2, updated_at = $3
		WHERE user_id = $1
	`, userID, n, at)
	if err != nil {
		return fmt.Errorf("adding bonus downloads: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
