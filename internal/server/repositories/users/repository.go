// Package users declares and implements the Credential Store: persisted user
// records including the lockout counters.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateLoginState persists the lockout counters of one user.
	UpdateLoginState(ctx context.Context, id string, failedAttempts int, lockedUntil *time.Time) error

	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
