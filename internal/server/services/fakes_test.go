package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/dbx"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/paymentdetails"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// -------- users --------

type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	nextID  int
	err     error
	updates int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("u%d", f.nextID)
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) UpdateLoginState(ctx context.Context, id string, failed int, lockedUntil *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrUserNotFound
	}
	f.updates++
	u.FailedLoginAttempts = failed
	u.AccountLockedUntil = lockedUntil
	return nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id string, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) get(id string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.byID[id]
}

// -------- token ledger --------

type ledgerKey struct{ userID, jti string }

type fakeTokensRepo struct {
	mu      sync.Mutex
	records map[ledgerKey]time.Time
	err     error
}

func newFakeTokensRepo() *fakeTokensRepo {
	return &fakeTokensRepo{records: map[ledgerKey]time.Time{}}
}

func (f *fakeTokensRepo) Create(ctx context.Context, userID, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records[ledgerKey{userID, jti}] = time.Now()
	return nil
}

func (f *fakeTokensRepo) Exists(ctx context.Context, userID, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.records[ledgerKey{userID, jti}]
	return ok, nil
}

func (f *fakeTokensRepo) Delete(ctx context.Context, userID, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	k := ledgerKey{userID, jti}
	if _, ok := f.records[k]; !ok {
		return common.ErrTokenNotFound
	}
	delete(f.records, k)
	return nil
}

func (f *fakeTokensRepo) DeleteCreatedBefore(ctx context.Context, t time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for k, created := range f.records {
		if created.Before(t) {
			delete(f.records, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeTokensRepo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// -------- payment details --------

type fakePaymentsRepo struct {
	mu     sync.Mutex
	byUser map[string]*models.PaymentDetail
	err    error
}

func newFakePaymentsRepo() *fakePaymentsRepo {
	return &fakePaymentsRepo{byUser: map[string]*models.PaymentDetail{}}
}

func (f *fakePaymentsRepo) Create(ctx context.Context, d *models.PaymentDetail) (*models.PaymentDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byUser[d.UserID]; ok {
		return nil, common.ErrPaymentExists
	}
	for _, other := range f.byUser {
		if other.CardNumber == d.CardNumber {
			return nil, common.ErrDuplicateCard
		}
	}
	d.ID = "p-" + d.UserID
	cp := *d
	f.byUser[d.UserID] = &cp
	return d, nil
}

func (f *fakePaymentsRepo) GetByUserID(ctx context.Context, userID string) (*models.PaymentDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.byUser[userID]
	if !ok {
		return nil, common.ErrPaymentNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakePaymentsRepo) Update(ctx context.Context, userID string, upd paymentdetails.FieldUpdate) (*models.PaymentDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.byUser[userID]
	if !ok {
		return nil, common.ErrPaymentNotFound
	}
	if upd.CardNumber != nil {
		d.CardNumber = *upd.CardNumber
	}
	if upd.CVC != nil {
		d.CVC = *upd.CVC
	}
	if upd.ExpirationDate != nil {
		d.ExpirationDate = *upd.ExpirationDate
	}
	cp := *d
	return &cp, nil
}

func (f *fakePaymentsRepo) DeleteByUserID(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byUser[userID]; !ok {
		return common.ErrPaymentNotFound
	}
	delete(f.byUser, userID)
	return nil
}

// -------- manager --------

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTokensRepo
	p *fakePaymentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), t: newFakeTokensRepo(), p: newFakePaymentsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error         { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                   { return m.u }
func (m *fakeRepoManager) Tokens(db dbx.DBTX) tokens.Repository                 { return m.t }
func (m *fakeRepoManager) PaymentDetails(db dbx.DBTX) paymentdetails.Repository { return m.p }
