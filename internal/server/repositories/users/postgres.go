package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/dbx"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
)

const emailConstraint = "user_email_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in ID and CreatedAt. A taken email yields
// common.ErrDuplicateEmail.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO "user" (email, password, name, roles, question, answer)
		 VALUES ($1, $2, $3, string_to_array($4, ','), $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, strings.Join(user.Roles, ","), string(user.Question), user.AnswerHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if name, ok := dbx.ConstraintViolation(err, dbx.CodeUniqueViolation); ok && name == emailConstraint {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const selectUser = `SELECT id, email, password, name, array_to_string(roles, ','), question, answer,
	        failed_login_attempts, account_locked_until, created_at
	 FROM "user"
	 `

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+`WHERE email = $1`, email)
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, selectUser+`WHERE id = $1`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var (
		user        models.User
		roles       string
		question    string
		lockedUntil sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &roles, &question, &user.AnswerHash,
		&user.FailedLoginAttempts, &lockedUntil, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		// a malformed uuid can never match a row
		if _, ok := dbx.ConstraintViolation(err, dbx.CodeInvalidTextRepr); ok {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if roles != "" {
		user.Roles = strings.Split(roles, ",")
	}
	user.Question = models.SecurityQuestion(question)
	if lockedUntil.Valid {
		t := lockedUntil.Time
		user.AccountLockedUntil = &t
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateLoginState(ctx context.Context, id string, failedAttempts int, lockedUntil *time.Time) error {
	query :=
		`UPDATE "user" SET failed_login_attempts = $2, account_locked_until = $3
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, id, failedAttempts, lockedUntil)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	query :=
		`UPDATE "user" SET password = $2
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, id, passwordHash)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrUserNotFound
	}
	return nil
}
