// Package captcha verifies login captcha tokens against a reCAPTCHA-style
// siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/netx"
)

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verifier posts the shared secret and the client token to the verify URL.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

func NewVerifier(secret, verifyURL string, client *http.Client) *Verifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &Verifier{secret: secret, verifyURL: verifyURL, client: client}
}

// Enabled reports whether a secret is configured. Without one the check is skipped.
func (v *Verifier) Enabled() bool {
	return v != nil && v.secret != ""
}

// Verify returns nil when the upstream accepts token, common.ErrCaptchaRequired
// for an empty token and common.ErrCaptchaInvalid when it is rejected.
// Transport problems surface as common.ErrUpstreamUnavailable or
// common.ErrUpstreamTimeout.
func (v *Verifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrCaptchaRequired
	}

	body, err := netx.PostForm(ctx, v.client, v.verifyURL, url.Values{
		"secret":   {v.secret},
		"response": {token},
	})
	if err != nil {
		return err
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: malformed verify response: %v", common.ErrUpstreamUnavailable, err)
	}
	if !resp.Success {
		return common.ErrCaptchaInvalid
	}
	return nil
}
