package api

import (
	"context"
	"net/http"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type LoginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Profile is the public view of a user.
type Profile struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	Token string   `json:"token,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", req, nil)
}

// Login exchanges credentials for a token. captchaToken may be empty when the
// server has captcha verification disabled.
func (c *Client) Login(ctx context.Context, email, password, captchaToken string) (*LoginResponse, error) {
	in := struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		CaptchaToken string `json:"captchaToken,omitempty"`
	}{email, password, captchaToken}

	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Question returns the security question chosen by the user with email.
func (c *Client) Question(ctx context.Context, email string) (string, error) {
	var out struct {
		Question string `json:"question"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/question/"+escape(email), "", nil, &out); err != nil {
		return "", err
	}
	return out.Question, nil
}

func (c *Client) ResetPassword(ctx context.Context, email, answer, password string) error {
	in := struct {
		Email    string `json:"email"`
		Answer   string `json:"answer"`
		Password string `json:"password"`
	}{email, answer, password}
	return c.do(ctx, http.MethodPost, "/auth/reset", "", in, &messageResponse{})
}

// Status returns the profile of the token's owner together with a freshly
// minted token.
func (c *Client) Status(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/auth/status", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, &messageResponse{})
}
