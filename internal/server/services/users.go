package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/cryptox"
	"github.com/dmitrijs2005/deckexc/internal/logging"
	"github.com/dmitrijs2005/deckexc/internal/server/config"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/repomanager"
)

// Minter issues a ledger-backed access token for a user.
type Minter interface {
	Mint(ctx context.Context, userID string) (string, error)
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Question models.SecurityQuestion
	Answer   string
}

type LoginResult struct {
	UserID string
	Email  string
	Token  string
}

// UserService owns registration, password reset and the login state machine:
// Unlocked(n) -> Locked(until) -> Unlocked(0).
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	hasher          cryptox.Hasher
	tokens          Minter
	maxFailedLogins int
	lockoutDuration time.Duration
	logger          logging.Logger
	now             func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.Hasher, tokens Minter, cfg *config.Config, logger logging.Logger) *UserService {
	maxFailed := cfg.MaxFailedLogins
	if maxFailed < 1 {
		maxFailed = 1
	}
	return &UserService{
		db:              db,
		repomanager:     m,
		hasher:          hasher,
		tokens:          tokens,
		maxFailedLogins: maxFailed,
		lockoutDuration: cfg.LockoutDuration,
		logger:          logger.With("module", "users"),
		now:             time.Now,
	}
}

// Register stores a new user with the email normalized and the password and
// answer hashed. No token is issued.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !in.Question.Valid() {
		return nil, &common.ValidationError{Fields: map[string]string{"question": "unknown security question"}}
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	answerHash, err := s.hasher.Hash(in.Answer)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        common.NormalizeEmail(in.Email),
		PasswordHash: passwordHash,
		Name:         in.Name,
		Roles:        []string{common.DefaultRole},
		Question:     in.Question,
		AnswerHash:   answerHash,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, storeError(err)
	}
	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks the credentials against the lockout state. Every failure
// is persisted before the error is returned; an unknown email and a wrong
// password both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, storeError(err)
	}

	now := s.now()
	if user.LockedAt(now) {
		return nil, &common.AccountLockedError{Remaining: user.AccountLockedUntil.Sub(now)}
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		failed := user.FailedLoginAttempts + 1
		if user.AccountLockedUntil != nil {
			// the previous lock has elapsed; start counting afresh
			failed = 1
		}

		var lockedUntil *time.Time
		if failed >= s.maxFailedLogins {
			until := now.Add(s.lockoutDuration)
			lockedUntil = &until
		}

		if err := repo.UpdateLoginState(ctx, user.ID, failed, lockedUntil); err != nil {
			return nil, storeError(err)
		}

		if lockedUntil != nil {
			s.logger.Warn(ctx, "account locked", "user_id", user.ID, "failed_attempts", failed)
		} else {
			s.logger.Warn(ctx, "failed login", "user_id", user.ID, "failed_attempts", failed)
		}
		return nil, common.ErrInvalidCredentials
	}

	if user.FailedLoginAttempts != 0 || user.AccountLockedUntil != nil {
		if err := repo.UpdateLoginState(ctx, user.ID, 0, nil); err != nil {
			return nil, storeError(err)
		}
	}

	token, err := s.tokens.Mint(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}

// ResetPassword replaces the password after the security answer checks out.
// Lockout state is left untouched.
func (s *UserService) ResetPassword(ctx context.Context, email, answer, newPassword string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		return storeError(err)
	}

	if !s.hasher.Compare(user.AnswerHash, answer) {
		s.logger.Warn(ctx, "wrong security answer", "user_id", user.ID)
		return common.ErrInvalidAnswer
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *UserService) GetSecurityQuestion(ctx context.Context, email string) (models.SecurityQuestion, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		return "", storeError(err)
	}
	return user.Question, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}
