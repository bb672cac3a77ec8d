package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/notehub-gamification/internal/domain"
)

// Referral reward amounts, in bonus downloads
const (
	applicantWelcomeDownloads    = 20
	referrerSignupDownloads      = 10
	referrerFirstUploadDownloads = 5
)

// How many remints to attempt when a freshly minted code collides
const maxCodeMintAttempts = 5

// ReferralStore persists per-user referral state
type ReferralStore interface {
	CreateReferral(ctx context.Context, userID, code string, at time.Time) error
	GetReferral(ctx context.Context, userID string) (domain.ReferralRecord, bool, error)
	FindReferralByCode(ctx context.Context, code string) (domain.ReferralRecord, error)
	ApplyReferralToUser(ctx context.Context, userID, code string, bonusDownloads int, at time.Time) (bool, error)
	CreditReferrer(ctx context.Context, referrerID string, referred domain.ReferredUser, bonusDownloads int, at time.Time) error
	ClaimFirstUploadReward(ctx context.Context, userID string, at time.Time) (string, bool, error)
	AddBonusDownloads(ctx context.Context, userID string, n int, at time.Time) error
}

// UserDirectory resolves user profiles for code minting
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (domain.UserProfile, error)
}

// PointsAwarder grants points for referral actions
type PointsAwarder interface {
	Award(ctx context.Context, userID string, action domain.Action, override *int) (domain.PointsRecord, error)
}

// ReferralService manages referral codes and their reward chain
type ReferralService struct {
	store    ReferralStore
	users    UserDirectory
	points   PointsAwarder
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewReferralService creates a new referral service
func NewReferralService(
	store ReferralStore,
	users UserDirectory,
	points PointsAwarder,
	notifier Notifier,
	logger *slog.Logger,
) *ReferralService {
	return &ReferralService{
		store:    store,
		users:    users,
		points:   points,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// EnsureRecord returns the user's referral record, minting a code on first
// use. Minting retries on code collisions; the code is immutable afterwards.
func (s *ReferralService) EnsureRecord(ctx context.Context, userID string) (domain.ReferralRecord, error) {
	rec, found, err := s.store.GetReferral(ctx, userID)
	if err != nil {
		return domain.ReferralRecord{}, err
	}
	if found {
		return rec, nil
	}

	profile, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.ReferralRecord{}, err
	}

	for attempt := 0; attempt < maxCodeMintAttempts; attempt++ {
		code, err := domain.MintReferralCode(profile.Handle)
		if err != nil {
			return domain.ReferralRecord{}, err
		}
		err = s.store.CreateReferral(ctx, userID, code, s.now())
		if errors.Is(err, domain.ErrReferralCodeTaken) {
			continue
		}
		if err != nil {
			return domain.ReferralRecord{}, err
		}
		// Another request may have won the insert; read back the canonical row.
		rec, _, err = s.store.GetReferral(ctx, userID)
		return rec, err
	}

	return domain.ReferralRecord{}, fmt.Errorf("minting referral code for user %s: exhausted %d attempts", userID, maxCodeMintAttempts)
}

// Apply redeems a referral code on behalf of the applicant. The applicant
// gets the welcome bonus, the referrer gets download credits and points, and
// the whole exchange is one-time-use per applicant.
func (s *ReferralService) Apply(ctx context.Context, applicantID, code string) (domain.ReferralRewardSummary, error) {
	var summary domain.ReferralRewardSummary

	referrer, err := s.store.FindReferralByCode(ctx, code)
	if err != nil {
		return summary, err
	}
	if referrer.UserID == applicantID {
		return summary, domain.ErrSelfReferral
	}

	applicant, err := s.EnsureRecord(ctx, applicantID)
	if err != nil {
		return summary, err
	}
	if applicant.ReferredBy != "" {
		return summary, domain.ErrAlreadyReferred
	}

	now := s.now()
	applied, err := s.store.ApplyReferralToUser(ctx, applicantID, code, applicantWelcomeDownloads, now)
	if err != nil {
		return summary, err
	}
	if !applied {
		// A concurrent application set referred_by first.
		return summary, domain.ErrAlreadyReferred
	}

	referred := domain.ReferredUser{UserID: applicantID, JoinedAt: now}
	if err := s.store.CreditReferrer(ctx, referrer.UserID, referred, referrerSignupDownloads, now); err != nil {
		return summary, fmt.Errorf("crediting referrer %s: %w", referrer.UserID, err)
	}

	if _, err := s.points.Award(ctx, referrer.UserID, domain.ActionReferralBonus, nil); err != nil {
		return summary, fmt.Errorf("awarding referral points: %w", err)
	}

	if err := s.notifier.Enqueue(ctx, referrer.UserID, domain.NotificationReferral, map[string]interface{}{
		"referred_user_id": applicantID,
		"referral_code":    code,
	}); err != nil {
		s.logger.Warn("failed to enqueue referral notification",
			"user_id", referrer.UserID, "error", err)
	}

	return domain.ReferralRewardSummary{
		ReferrerUserID:          referrer.UserID,
		ReferrerBonusDownloads:  referrerSignupDownloads,
		ReferrerPoints:          domain.ActionPoints[domain.ActionReferralBonus],
		ApplicantBonusDownloads: applicantWelcomeDownloads,
	}, nil
}

// FirstUploadReward pays the referrer's first-upload bonus for a referred
// user. The claimed flag in the store makes this idempotent: later uploads
// and replayed events pay nothing.
func (s *ReferralService) FirstUploadReward(ctx context.Context, userID string) error {
	referrerCode, claimed, err := s.store.ClaimFirstUploadReward(ctx, userID, s.now())
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	referrer, err := s.store.FindReferralByCode(ctx, referrerCode)
	if err != nil {
		return fmt.Errorf("resolving referrer for first upload reward: %w", err)
	}

	if err := s.store.AddBonusDownloads(ctx, referrer.UserID, referrerFirstUploadDownloads, s.now()); err != nil {
		return fmt.Errorf("crediting first upload downloads: %w", err)
	}
	if _, err := s.points.Award(ctx, referrer.UserID, domain.ActionFirstUploadReferral, nil); err != nil {
		return fmt.Errorf("awarding first upload referral points: %w", err)
	}
	return nil
}

// Milestones reports which referral-count milestones a user has earned. This
// is a pure read; milestone rewards are provisioned out of band.
func (s *ReferralService) Milestones(ctx context.Context, userID string) (domain.ReferralMilestoneStatus, error) {
	rec, _, err := s.store.GetReferral(ctx, userID)
	if err != nil {
		return domain.ReferralMilestoneStatus{}, err
	}
	return domain.MilestoneStatusFor(rec.TotalReferrals), nil
}
