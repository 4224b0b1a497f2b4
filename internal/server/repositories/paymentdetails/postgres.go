package paymentdetails

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/dbx"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
)

const (
	cardNumberConstraint = "bank_details_card_number_key"
	userIDConstraint     = "bank_details_user_id_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, detail *models.PaymentDetail) (*models.PaymentDetail, error) {
	query :=
		`INSERT INTO bank_details (user_id, card_number, cvc, expiration_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, detail.UserID, detail.CardNumber, detail.CVC, detail.ExpirationDate).
		Scan(&detail.ID, &detail.CreatedAt, &detail.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	return detail, nil
}

const selectDetail = `SELECT id, user_id, card_number, cvc, expiration_date, created_at, updated_at
	 FROM bank_details
	 `

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.PaymentDetail, error) {
	return scanDetail(r.db.QueryRowContext(ctx, selectDetail+`WHERE user_id = $1`, userID))
}

// Update uses COALESCE so that a nil field keeps its ciphertext byte for byte.
func (r *PostgresRepository) Update(ctx context.Context, userID string, upd FieldUpdate) (*models.PaymentDetail, error) {
	query :=
		`UPDATE bank_details
		 SET card_number = COALESCE($2, card_number),
		     cvc = COALESCE($3, cvc),
		     expiration_date = COALESCE($4, expiration_date),
		     updated_at = now()
		 WHERE user_id = $1
		 RETURNING id, user_id, card_number, cvc, expiration_date, created_at, updated_at
		 `

	return scanDetail(r.db.QueryRowContext(ctx, query, userID, upd.CardNumber, upd.CVC, upd.ExpirationDate))
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM bank_details
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		if _, ok := dbx.ConstraintViolation(err, dbx.CodeInvalidTextRepr); ok {
			return common.ErrPaymentNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrPaymentNotFound
	}
	return nil
}

func scanDetail(row *sql.Row) (*models.PaymentDetail, error) {
	var d models.PaymentDetail
	err := row.Scan(&d.ID, &d.UserID, &d.CardNumber, &d.CVC, &d.ExpirationDate, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrPaymentNotFound
	}
	if name, ok := dbx.ConstraintViolation(err, dbx.CodeUniqueViolation); ok {
		switch name {
		case cardNumberConstraint:
			return common.ErrDuplicateCard
		case userIDConstraint:
			return common.ErrPaymentExists
		}
	}
	if _, ok := dbx.ConstraintViolation(err, dbx.CodeForeignKeyViolation); ok {
		return common.ErrUserNotFound
	}
	if _, ok := dbx.ConstraintViolation(err, dbx.CodeInvalidTextRepr); ok {
		return common.ErrPaymentNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
