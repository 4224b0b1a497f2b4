package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/logging"
	"github.com/dmitrijs2005/deckexc/internal/server/auth"
	"github.com/dmitrijs2005/deckexc/internal/server/config"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenService mints access tokens and keeps the ledger of the ones still
// honoured. A token is valid only while its (user id, jti) record exists.
type TokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	validity    time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *TokenService {
	return &TokenService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		validity:    cfg.TokenValidityDuration,
		logger:      logger.With("module", "tokens"),
		now:         time.Now,
	}
}

// Mint records a fresh jti for userID and returns the signed token.
func (s *TokenService) Mint(ctx context.Context, userID string) (string, error) {
	jti := uuid.NewString()

	if err := s.repomanager.Tokens(s.db).Create(ctx, userID, jti); err != nil {
		return "", storeError(err)
	}

	token, err := auth.GenerateToken(userID, jti, s.jwtSecret, s.validity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Validate returns the claims of a signed, unexpired token whose ledger record
// still exists. An expired token has its record removed.
func (s *TokenService) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if errors.Is(err, common.ErrTokenExpired) {
		if err := s.repomanager.Tokens(s.db).Delete(ctx, claims.UserID, claims.JTI()); err != nil && !errors.Is(err, common.ErrTokenNotFound) {
			s.logger.Error(ctx, "failed to drop expired token", "user_id", claims.UserID, "error", err)
		} else if err == nil {
			s.logger.Warn(ctx, "expired token revoked", "user_id", claims.UserID)
		}
		return nil, common.ErrTokenExpired
	}
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	found, err := s.repomanager.Tokens(s.db).Exists(ctx, claims.UserID, claims.JTI())
	if err != nil {
		return nil, storeError(err)
	}
	if !found {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke removes the ledger record. A missing record yields common.ErrTokenNotFound,
// so a second logout with the same token fails.
func (s *TokenService) Revoke(ctx context.Context, userID, jti string) error {
	if err := s.repomanager.Tokens(s.db).Delete(ctx, userID, jti); err != nil {
		return storeError(err)
	}
	s.logger.Info(ctx, "token revoked", "user_id", userID)
	return nil
}

// IsRevoked reports whether the ledger has no record for the pair.
func (s *TokenService) IsRevoked(ctx context.Context, userID, jti string) (bool, error) {
	found, err := s.repomanager.Tokens(s.db).Exists(ctx, userID, jti)
	if err != nil {
		return false, storeError(err)
	}
	return !found, nil
}

// PurgeExpired drops records older than the token lifetime; their tokens can
// no longer pass the exp check.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Tokens(s.db).DeleteCreatedBefore(ctx, s.now().Add(-s.validity))
	if err != nil {
		return 0, storeError(err)
	}
	return n, nil
}

// RunPurger calls PurgeExpired every interval until ctx is done.
func (s *TokenService) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				s.logger.Error(ctx, "token purge failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info(ctx, "purged expired tokens", "count", n)
			}
		}
	}
}
