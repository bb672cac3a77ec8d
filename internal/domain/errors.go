package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrReferralCodeNotFound = errors.New("referral code not found")
	ErrAlreadyReferred      = errors.New("referral code already applied for this user")
	ErrSelfReferral         = errors.New("cannot apply your own referral code")
	ErrReferralCodeTaken    = errors.New("referral code already taken")
	ErrUnknownAction        = errors.New("unknown point action")
	ErrInvalidScope         = errors.New("invalid leaderboard scope")
	ErrScopeFilterRequired  = errors.New("scope requires a filter value")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInternalError        = errors.New("internal server error")
)

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrReferralCodeNotFound)
}

// IsValidationError checks if an error is a caller-fixable validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrAlreadyReferred) ||
		errors.Is(err, ErrSelfReferral) ||
		errors.Is(err, ErrUnknownAction) ||
		errors.Is(err, ErrInvalidScope) ||
		errors.Is(err, ErrScopeFilterRequired) ||
		errors.Is(err, ErrInvalidRequest)
}
