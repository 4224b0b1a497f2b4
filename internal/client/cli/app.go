// Package cli is the interactive deckexc command-line client: a REPL over the
// auth HTTP API that remembers the signed-in user between runs.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/deckexc/internal/client/api"
	"github.com/dmitrijs2005/deckexc/internal/client/config"
	"github.com/dmitrijs2005/deckexc/internal/client/session"
)

type apiClient interface {
	Health(ctx context.Context) error
	Register(ctx context.Context, req api.RegisterRequest) error
	Login(ctx context.Context, email, password, captchaToken string) (*api.LoginResponse, error)
	Question(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, answer, password string) error
	Status(ctx context.Context, token string) (*api.Profile, error)
	Logout(ctx context.Context, token string) error
	CreatePayment(ctx context.Context, req api.CreatePaymentRequest) (*api.Payment, error)
	GetPayment(ctx context.Context, userID string) (*api.Payment, error)
	UpdatePayment(ctx context.Context, req api.UpdatePaymentRequest) (*api.Payment, error)
	DeletePayment(ctx context.Context, userID string) error
}

type sessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	api     apiClient
	store   sessionStore
	session session.Session
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	store, err := session.Open(ctx, c.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}

	return &App{
		api:    api.NewClient(c.ServerURL, c.RequestTimeout),
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run resumes a stored session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	fmt.Fprintln(a.out, "Welcome to the deckexc CLI (type 'help' for commands)")
	if err := a.api.Health(ctx); err != nil {
		fmt.Fprintln(a.out, "Warning: server is not reachable:", err)
	}
	if err := a.resume(ctx); err != nil {
		fmt.Fprintln(a.out, "Warning:", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return !a.session.Empty()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.session.Email)
}

// resume restores the stored session. A token the server no longer accepts
// is forgotten; an unreachable server keeps it for later.
func (a *App) resume(ctx context.Context) error {
	sess, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if sess.Empty() {
		return nil
	}

	p, err := a.api.Status(ctx, sess.Token)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			fmt.Fprintln(a.out, "Stored session has expired, please login again")
			return a.store.Clear(ctx)
		}
		a.session = sess
		return fmt.Errorf("could not verify stored session: %w", err)
	}

	a.session = sess
	if err := a.adoptToken(ctx, p.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Resumed session for %s\n", sess.Email)
	return nil
}

// forget drops the session locally and on disk.
func (a *App) forget(ctx context.Context) error {
	a.session = session.Session{}
	return a.store.Clear(ctx)
}
