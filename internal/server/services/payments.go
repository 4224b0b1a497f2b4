package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/cryptox"
	"github.com/dmitrijs2005/deckexc/internal/dbx"
	"github.com/dmitrijs2005/deckexc/internal/logging"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/paymentdetails"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/repomanager"
)

// MaskedPaymentDetail is the only shape in which card data leaves the service.
// Update responses leave out the fields that were not supplied.
type MaskedPaymentDetail struct {
	ID             string `json:"id,omitempty"`
	UserID         string `json:"userId"`
	CardNumber     string `json:"cardNumber,omitempty"`
	CVC            string `json:"cvc,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

// CreatePaymentInput holds plaintext values that already passed boundary validation.
type CreatePaymentInput struct {
	UserID         string
	CardNumber     string
	CVC            string
	ExpirationDate string
}

// UpdatePaymentInput holds the plaintext fields to overwrite; nil keeps the stored value.
type UpdatePaymentInput struct {
	CardNumber     *string
	CVC            *string
	ExpirationDate *string
}

type PaymentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      cryptox.FieldCipher
	logger      logging.Logger
}

func NewPaymentService(db *sql.DB, m repomanager.RepositoryManager, cipher cryptox.FieldCipher, logger logging.Logger) *PaymentService {
	return &PaymentService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		logger:      logger.With("module", "payments"),
	}
}

// Create encrypts the three card fields and stores them for an existing user.
func (s *PaymentService) Create(ctx context.Context, in CreatePaymentInput) (*MaskedPaymentDetail, error) {
	card, err := s.cipher.Encrypt(in.CardNumber)
	if err != nil {
		return nil, common.ErrorInternal
	}
	cvc, err := s.cipher.Encrypt(in.CVC)
	if err != nil {
		return nil, common.ErrorInternal
	}
	exp, err := s.cipher.Encrypt(in.ExpirationDate)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var created *models.PaymentDetail
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetUserByID(ctx, in.UserID); err != nil {
			return err
		}
		var err error
		created, err = s.repomanager.PaymentDetails(tx).Create(ctx, &models.PaymentDetail{
			UserID:         in.UserID,
			CardNumber:     card,
			CVC:            cvc,
			ExpirationDate: exp,
		})
		return err
	})
	if err != nil {
		return nil, storeError(err)
	}

	return &MaskedPaymentDetail{
		ID:             created.ID,
		UserID:         created.UserID,
		CardNumber:     maskCardNumber(in.CardNumber),
		CVC:            maskedCVC,
		ExpirationDate: maskExpirationDate(in.ExpirationDate),
	}, nil
}

// Get decrypts the stored record and returns its masked view.
func (s *PaymentService) Get(ctx context.Context, userID string) (*MaskedPaymentDetail, error) {
	detail, err := s.repomanager.PaymentDetails(s.db).GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}

	card, err := s.cipher.Decrypt(detail.CardNumber)
	if err != nil {
		return nil, s.decryptFailed(ctx, userID, err)
	}
	if _, err := s.cipher.Decrypt(detail.CVC); err != nil {
		return nil, s.decryptFailed(ctx, userID, err)
	}
	exp, err := s.cipher.Decrypt(detail.ExpirationDate)
	if err != nil {
		return nil, s.decryptFailed(ctx, userID, err)
	}

	return &MaskedPaymentDetail{
		ID:             detail.ID,
		UserID:         detail.UserID,
		CardNumber:     maskCardNumber(card),
		CVC:            maskedCVC,
		ExpirationDate: maskExpirationDate(exp),
	}, nil
}

// Update re-encrypts only the supplied fields. The returned view carries
// just those fields.
func (s *PaymentService) Update(ctx context.Context, userID string, in UpdatePaymentInput) (*MaskedPaymentDetail, error) {
	var upd paymentdetails.FieldUpdate
	view := &MaskedPaymentDetail{UserID: userID}

	if in.CardNumber != nil {
		c, err := s.cipher.Encrypt(*in.CardNumber)
		if err != nil {
			return nil, common.ErrorInternal
		}
		upd.CardNumber = &c
		view.CardNumber = maskCardNumber(*in.CardNumber)
	}
	if in.CVC != nil {
		c, err := s.cipher.Encrypt(*in.CVC)
		if err != nil {
			return nil, common.ErrorInternal
		}
		upd.CVC = &c
		view.CVC = maskedCVC
	}
	if in.ExpirationDate != nil {
		c, err := s.cipher.Encrypt(*in.ExpirationDate)
		if err != nil {
			return nil, common.ErrorInternal
		}
		upd.ExpirationDate = &c
		view.ExpirationDate = maskExpirationDate(*in.ExpirationDate)
	}

	if upd.Empty() {
		return nil, &common.ValidationError{Fields: map[string]string{"body": "no field to update"}}
	}

	detail, err := s.repomanager.PaymentDetails(s.db).Update(ctx, userID, upd)
	if err != nil {
		return nil, storeError(err)
	}
	view.ID = detail.ID

	return view, nil
}

func (s *PaymentService) Delete(ctx context.Context, userID string) error {
	if err := s.repomanager.PaymentDetails(s.db).DeleteByUserID(ctx, userID); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *PaymentService) decryptFailed(ctx context.Context, userID string, err error) error {
	s.logger.Warn(ctx, "payment detail decryption failed", "user_id", userID, "error", err)
	return common.ErrDecryptionFailed
}
