// Package common defines shared constants and sentinel errors used across
// the auth service and its clients. Match them with errors.Is / errors.As.
package common

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	ErrUserNotFound    = fmt.Errorf("user %w", ErrorNotFound)
	ErrPaymentNotFound = fmt.Errorf("payment detail %w", ErrorNotFound)
	ErrTokenNotFound   = fmt.Errorf("token %w", ErrorNotFound)

	// Conflicts detected through store-specific unique violations.
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateCard  = errors.New("card already registered")
	ErrPaymentExists  = errors.New("payment detail already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidAnswer      = errors.New("security answer is incorrect")
	ErrValidation         = errors.New("validation failed")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	// Field cipher errors.
	ErrDecryptionFailed = errors.New("decryption failed")

	// External collaborators.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrCaptchaRequired     = errors.New("captcha is required")
	ErrCaptchaInvalid      = errors.New("captcha is invalid")
)

// AccountLockedError reports a login refused because the account is inside
// its lockout window.
type AccountLockedError struct {
	Remaining time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is locked, try again in %d seconds", e.RemainingSeconds())
}

// Is lets errors.Is(err, ErrAccountLocked) match the typed error.
func (e *AccountLockedError) Is(target error) bool {
	return target == ErrAccountLocked
}

// RemainingSeconds rounds the remaining lockout up to whole seconds.
func (e *AccountLockedError) RemainingSeconds() int64 {
	if e.Remaining <= 0 {
		return 0
	}
	return int64(math.Ceil(e.Remaining.Seconds()))
}

// ValidationError carries field-level failures collected at the boundary.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d invalid field(s)", ErrValidation.Error(), len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
