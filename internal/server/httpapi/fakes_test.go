package httpapi

import (
	"context"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/server/auth"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
	"github.com/dmitrijs2005/deckexc/internal/server/services"
	"github.com/golang-jwt/jwt/v5"
)

type fakeUsers struct {
	registered  []services.RegisterInput
	registerErr error

	loginRes *services.LoginResult
	loginErr error

	resetErr error
	question models.SecurityQuestion
	qErr     error

	user    *models.User
	userErr error
}

func (f *fakeUsers) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, in)
	return &models.User{ID: "u1", Email: in.Email}, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeUsers) ResetPassword(ctx context.Context, email, answer, newPassword string) error {
	return f.resetErr
}

func (f *fakeUsers) GetSecurityQuestion(ctx context.Context, email string) (models.SecurityQuestion, error) {
	return f.question, f.qErr
}

func (f *fakeUsers) GetUser(ctx context.Context, id string) (*models.User, error) {
	return f.user, f.userErr
}

// fakeTokens accepts exactly one token string, "good".
type fakeTokens struct {
	validateErr error
	revoked     []string
	revokeErr   error
	isRevoked   bool
	minted      int
}

func (f *fakeTokens) Mint(ctx context.Context, userID string) (string, error) {
	f.minted++
	return "fresh-token", nil
}

func (f *fakeTokens) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if token != "good" {
		return nil, common.ErrInvalidToken
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"}, UserID: "u1"}, nil
}

func (f *fakeTokens) Revoke(ctx context.Context, userID, jti string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, userID+"/"+jti)
	return nil
}

func (f *fakeTokens) IsRevoked(ctx context.Context, userID, jti string) (bool, error) {
	return f.isRevoked, nil
}

type fakePayments struct {
	created *services.CreatePaymentInput
	updated *services.UpdatePaymentInput
	view    *services.MaskedPaymentDetail
	err     error
}

func (f *fakePayments) Create(ctx context.Context, in services.CreatePaymentInput) (*services.MaskedPaymentDetail, error) {
	f.created = &in
	return f.view, f.err
}

func (f *fakePayments) Get(ctx context.Context, userID string) (*services.MaskedPaymentDetail, error) {
	return f.view, f.err
}

func (f *fakePayments) Update(ctx context.Context, userID string, in services.UpdatePaymentInput) (*services.MaskedPaymentDetail, error) {
	f.updated = &in
	return f.view, f.err
}

func (f *fakePayments) Delete(ctx context.Context, userID string) error {
	return f.err
}

type fakeCaptcha struct {
	enabled bool
	err     error
	seen    string
}

func (f *fakeCaptcha) Enabled() bool { return f.enabled }

func (f *fakeCaptcha) Verify(ctx context.Context, token string) error {
	f.seen = token
	return f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }
