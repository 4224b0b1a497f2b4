// Package services contains the auth service's business logic: the login
// state machine, the token ledger and payment detail management.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/deckexc/internal/common"
)

// storeError turns an unexpected repository failure into the service taxonomy.
// Sentinels from common pass through unchanged.
func storeError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrUpstreamTimeout
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrDuplicateCard),
		errors.Is(err, common.ErrPaymentExists):
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
