// Package paymentdetails declares the storage contract for per-user card
// records. Card fields arrive and leave as ciphertext; the repository never
// sees plaintext.
package paymentdetails

import (
	"context"

	"github.com/dmitrijs2005/deckexc/internal/server/models"
)

// FieldUpdate carries the ciphertext of the fields to overwrite. Nil fields keep
// their stored value.
type FieldUpdate struct {
	CardNumber     *string
	CVC            *string
	ExpirationDate *string
}

// Empty reports whether the update touches no field.
func (u FieldUpdate) Empty() bool {
	return u.CardNumber == nil && u.CVC == nil && u.ExpirationDate == nil
}

type Repository interface {
	// Create stores detail and fills in ID and timestamps.
	// Errors: common.ErrUserNotFound, common.ErrDuplicateCard, common.ErrPaymentExists.
	Create(ctx context.Context, detail *models.PaymentDetail) (*models.PaymentDetail, error)

	// GetByUserID returns common.ErrPaymentNotFound when the user has no record.
	GetByUserID(ctx context.Context, userID string) (*models.PaymentDetail, error)

	// Update overwrites the supplied fields and returns the stored record.
	Update(ctx context.Context, userID string, upd FieldUpdate) (*models.PaymentDetail, error)

	// DeleteByUserID returns common.ErrPaymentNotFound when nothing was deleted.
	DeleteByUserID(ctx context.Context, userID string) error
}
