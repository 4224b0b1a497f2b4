package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/dbx"
)

// PostgresRepository keeps the ledger in the token_revoke table.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the record. Re-recording an existing pair is a no-op.
func (r *PostgresRepository) Create(ctx context.Context, userID string, jti string) error {
	query :=
		`INSERT INTO token_revoke (user_id, jti)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, jti) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, jti); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID string, jti string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM token_revoke WHERE user_id = $1 AND jti = $2)`

	var found bool
	if err := r.db.QueryRowContext(ctx, query, userID, jti).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, jti string) error {
	query :=
		`DELETE FROM token_revoke
		 WHERE user_id = $1 AND jti = $2
		 `

	res, err := r.db.ExecContext(ctx, query, userID, jti)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrTokenNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCreatedBefore(ctx context.Context, t time.Time) (int64, error) {
	query :=
		`DELETE FROM token_revoke
		 WHERE created_at < $1
		 `

	res, err := r.db.ExecContext(ctx, query, t)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
