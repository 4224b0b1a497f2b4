// Package tokens declares the storage contract for the token ledger: the set
// of (user, jti) pairs whose access tokens are still honoured.
package tokens

import (
	"context"
	"time"
)

// Repository stores ledger records. A token is valid only while its record exists.
type Repository interface {
	// Create records a freshly minted token.
	Create(ctx context.Context, userID string, jti string) error

	// Exists reports whether the (userID, jti) record is present.
	Exists(ctx context.Context, userID string, jti string) (bool, error)

	// Delete removes the record. Returns common.ErrTokenNotFound when nothing was deleted.
	Delete(ctx context.Context, userID string, jti string) error

	// DeleteCreatedBefore drops every record created before t and returns how many went away.
	DeleteCreatedBefore(ctx context.Context, t time.Time) (int64, error)
}
