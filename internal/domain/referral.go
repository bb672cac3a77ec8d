package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// ReferralRewards accumulates the non-point perks a referrer earns
type ReferralRewards struct {
	BonusDownloads int `json:"bonus_downloads"`
	AIAccessDays   int `json:"ai_access_days"`
	PremiumDays    int `json:"premium_days"`
}

// ReferredUser is one entry of a referrer's ordered referred_users list
type ReferredUser struct {
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// ReferralRecord is the persisted per-user referral state. ReferralCode is
// immutable once minted; ReferredBy is set at most once.
type ReferralRecord struct {
	UserID         string          `json:"user_id"`
	ReferralCode   string          `json:"referral_code"`
	ReferredBy     string          `json:"referred_by,omitempty"`
	ReferredUsers  []ReferredUser  `json:"referred_users"`
	TotalReferrals int             `json:"total_referrals"`
	Rewards        ReferralRewards `json:"rewards_earned"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ReferralRewardSummary describes what an applied referral paid out
type ReferralRewardSummary struct {
	ReferrerUserID          string `json:"referrer_user_id"`
	ReferrerBonusDownloads  int    `json:"referrer_bonus_downloads"`
	ReferrerPoints          int    `json:"referrer_points"`
	ApplicantBonusDownloads int    `json:"applicant_bonus_downloads"`
}

// ReferralMilestone is a purely informational referral-count reward tier
type ReferralMilestone struct {
	Referrals    int    `json:"referrals"`
	Reward       string `json:"reward"`
	AIAccessDays int    `json:"ai_access_days,omitempty"`
	PremiumDays  int    `json:"premium_days,omitempty"`
}

// ReferralMilestones is ordered ascending by referral count
var ReferralMilestones = []ReferralMilestone{
	{Referrals: 3, Reward: "7 days of AI assistant access", AIAccessDays: 7},
	{Referrals: 10, Reward: "30 days of premium", PremiumDays: 30},
	{Referrals: 50, Reward: "1 year of premium", PremiumDays: 365},
}

// ReferralMilestoneStatus is the result of a milestone lookup: a pure read
// over the user's referral count, never a mutation
type ReferralMilestoneStatus struct {
	TotalReferrals  int                 `json:"total_referrals"`
	Earned          []ReferralMilestone `json:"earned"`
	Next            *ReferralMilestone  `json:"next,omitempty"`
	RemainingToNext int                 `json:"remaining_to_next,omitempty"`
}

// MilestoneStatusFor computes which milestones a referral count has earned
// and how far the next one is
func MilestoneStatusFor(totalReferrals int) ReferralMilestoneStatus {
	status := ReferralMilestoneStatus{TotalReferrals: totalReferrals}
	for i := range ReferralMilestones {
		m := ReferralMilestones[i]
		if totalReferrals >= m.Referrals {
			status.Earned = append(status.Earned, m)
		} else if status.Next == nil {
			status.Next = &m
			status.RemainingToNext = m.Referrals - totalReferrals
		}
	}
	return status
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MintReferralCode derives a candidate referral code from a user handle: the
// last 4 characters of the handle plus 3 random alphanumerics. Uniqueness is
// enforced by the store; callers retry on collision.
func MintReferralCode(handle string) (string, error) {
	// Slice runes, not bytes, so multi-byte handles cannot yield a code
	// with invalid UTF-8.
	base := []rune(strings.ToUpper(handle))
	if len(base) > 4 {
		base = base[len(base)-4:]
	}
	for len(base) < 4 {
		base = append(base, 'X')
	}

	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading code suffix: %w", err)
	}
	var sb strings.Builder
	sb.WriteString(string(base))
	for _, b := range buf {
		sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return sb.String(), nil
}
