package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/deckexc/internal/client/api"
	"github.com/dmitrijs2005/deckexc/internal/client/session"
	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Input seams, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
)

var questions = []struct {
	code  string
	label string
}{
	{"comida", "favourite food"},
	{"cantante", "favourite singer"},
	{"pais", "country you would most like to visit"},
}

func questionLabel(code string) string {
	for _, q := range questions {
		if q.code == code {
			return q.label
		}
	}
	return code
}

// userIDFromToken reads the id claim. The server verifies signatures; the
// client only needs the payload.
func userIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("malformed token: %w", err)
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", errors.New("token carries no user id")
	}
	return id, nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	password, err := getSecret(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	prompt := "Choose a security question:"
	for _, q := range questions {
		prompt += fmt.Sprintf("\n  %s - %s", q.code, q.label)
	}
	question, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, "Enter answer", a.out)
	if err != nil {
		return err
	}

	err = a.api.Register(ctx, api.RegisterRequest{
		Email:    email,
		Name:     name,
		Password: string(password),
		Question: question,
		Answer:   answer,
	})
	if err != nil {
		return describe(err)
	}

	fmt.Fprintln(a.out, "Registered, you can login now")
	return nil
}

// Login asks for credentials and stores the session. A captcha token is only
// asked for when the server demands one.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getSecret(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, email, string(password), "")
	if captchaRequired(err) {
		var captcha string
		captcha, err = getSimpleText(a.reader, "Enter captcha token", a.out)
		if err != nil {
			return err
		}
		res, err = a.api.Login(ctx, email, string(password), captcha)
	}
	if err != nil {
		return describe(err)
	}

	userID, err := userIDFromToken(res.Token)
	if err != nil {
		return err
	}

	a.session = session.Session{Email: res.Email, UserID: userID, Token: res.Token}
	if err := a.store.Save(ctx, a.session); err != nil {
		return fmt.Errorf("logged in, but the session was not saved: %w", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", res.Email)
	return nil
}

func (a *App) Question(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	q, err := a.api.Question(ctx, email)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Security question: %s\n", questionLabel(q))
	return nil
}

// Reset shows the user's security question and sets a new password when the
// answer matches.
func (a *App) Reset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	q, err := a.api.Question(ctx, email)
	if err != nil {
		return describe(err)
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Your %s?", questionLabel(q)), a.out)
	if err != nil {
		return err
	}
	password, err := getSecret(a.reader, "Enter new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.ResetPassword(ctx, email, answer, string(password)); err != nil {
		return describe(err)
	}
	fmt.Fprintln(a.out, "Password updated")
	return nil
}

// Status prints the profile and switches to the fresh token the server
// returns; the previous token is revoked.
func (a *App) Status(ctx context.Context) error {
	p, err := a.api.Status(ctx, a.session.Token)
	if err != nil {
		return a.sessionError(ctx, err)
	}

	fmt.Fprintf(a.out, "%s <%s>\n  id:    %s\n  roles: %v\n", p.Name, p.Email, p.ID, p.Roles)

	return a.adoptToken(ctx, p.Token)
}

// adoptToken switches the session to a token minted by /auth/status and
// revokes the one it replaces, so the ledger only holds the token in use.
func (a *App) adoptToken(ctx context.Context, fresh string) error {
	if fresh == "" || fresh == a.session.Token {
		return nil
	}
	old := a.session.Token
	a.session.Token = fresh
	if err := a.store.Save(ctx, a.session); err != nil {
		return err
	}
	if err := a.api.Logout(ctx, old); err != nil {
		fmt.Fprintln(a.out, "Warning: previous token was not revoked:", err)
	}
	return nil
}

// Logout revokes the token on the server and forgets it locally. A token
// the server already rejects is forgotten as well.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx, a.session.Token)
	var apiErr *api.Error
	if err != nil && !(errors.As(err, &apiErr) && (apiErr.Unauthorized() || apiErr.Code == api.CodeTokenNotFound)) {
		return describe(err)
	}

	if err := a.forget(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// sessionError forgets the session when the server rejects its token.
func (a *App) sessionError(ctx context.Context, err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		if ferr := a.forget(ctx); ferr != nil {
			return ferr
		}
		return fmt.Errorf("%w, please login again", err)
	}
	return describe(err)
}

func captchaRequired(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.Code == api.CodeCaptchaRequired
}

// describe appends per-field validation messages to err.
func describe(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return err
	}
	msg := apiErr.Error()
	for field, problem := range apiErr.Fields {
		msg += fmt.Sprintf("\n  %s: %s", field, problem)
	}
	return errors.New(msg)
}
