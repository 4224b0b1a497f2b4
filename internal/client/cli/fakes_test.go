package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/deckexc/internal/client/api"
	"github.com/dmitrijs2005/deckexc/internal/client/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testUserID = "6f1c3a52-0d3e-4c61-9a8b-2f4d7e9c1b00"

func tokenFor(t *testing.T, userID, jti string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": userID, "jti": jti}).
		SignedString([]byte("unused"))
	require.NoError(t, err)
	return s
}

type fakeAPI struct {
	healthErr error

	registered  *api.RegisterRequest
	registerErr error

	loginCalls  []string // captcha tokens
	loginErrs   []error
	loginRes    *api.LoginResponse
	question    string
	questionErr error
	reset       []string
	resetErr    error
	profile     *api.Profile
	statusErr   error
	loggedOut   []string
	logoutErr   error

	created    *api.CreatePaymentRequest
	updated    *api.UpdatePaymentRequest
	deleted    string
	payment    *api.Payment
	paymentErr error
}

func (f *fakeAPI) Health(context.Context) error { return f.healthErr }

func (f *fakeAPI) Register(_ context.Context, req api.RegisterRequest) error {
	f.registered = &req
	return f.registerErr
}

func (f *fakeAPI) Login(_ context.Context, _, _, captcha string) (*api.LoginResponse, error) {
	f.loginCalls = append(f.loginCalls, captcha)
	if len(f.loginErrs) > 0 {
		err := f.loginErrs[0]
		f.loginErrs = f.loginErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.loginRes, nil
}

func (f *fakeAPI) Question(context.Context, string) (string, error) {
	return f.question, f.questionErr
}

func (f *fakeAPI) ResetPassword(_ context.Context, email, answer, password string) error {
	f.reset = []string{email, answer, password}
	return f.resetErr
}

func (f *fakeAPI) Status(context.Context, string) (*api.Profile, error) {
	return f.profile, f.statusErr
}

func (f *fakeAPI) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return f.logoutErr
}

func (f *fakeAPI) CreatePayment(_ context.Context, req api.CreatePaymentRequest) (*api.Payment, error) {
	f.created = &req
	return f.payment, f.paymentErr
}

func (f *fakeAPI) GetPayment(context.Context, string) (*api.Payment, error) {
	return f.payment, f.paymentErr
}

func (f *fakeAPI) UpdatePayment(_ context.Context, req api.UpdatePaymentRequest) (*api.Payment, error) {
	f.updated = &req
	return f.payment, f.paymentErr
}

func (f *fakeAPI) DeletePayment(_ context.Context, userID string) error {
	f.deleted = userID
	return f.paymentErr
}

type fakeStore struct {
	sess    session.Session
	saves   int
	cleared bool
	saveErr error
	closed  bool
}

func (s *fakeStore) Load(context.Context) (session.Session, error) { return s.sess, nil }

func (s *fakeStore) Save(_ context.Context, sess session.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sess = sess
	s.saves++
	return nil
}

func (s *fakeStore) Clear(context.Context) error {
	s.sess = session.Session{}
	s.cleared = true
	return nil
}

func (s *fakeStore) Close() error {
	s.closed = true
	return nil
}

// answers feeds prompts from a fixed list, in order.
func answers(t *testing.T, values ...string) {
	t.Helper()
	origText, origSecret := getSimpleText, getSecret
	next := func() string {
		require.NotEmpty(t, values, "unexpected prompt")
		v := values[0]
		values = values[1:]
		return v
	}
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return next(), nil }
	getSecret = func(*bufio.Reader, string, io.Writer) ([]byte, error) { return []byte(next()), nil }
	t.Cleanup(func() {
		getSimpleText, getSecret = origText, origSecret
		require.Empty(t, values, "unused answers")
	})
}

func newTestApp(f *fakeAPI, s *fakeStore, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{api: f, store: s, reader: rdr(input), out: &out}, &out
}

func loggedIn(a *App) {
	a.session = session.Session{Email: "alice@example.com", UserID: testUserID, Token: "tok-old"}
}
