// Package api is a thin JSON client for the auth HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/common"
)

// maxResponseBody caps how much of a response is read.
const maxResponseBody = 1 << 20

// Error is a non-2xx answer from the server, decoded from its error body.
type Error struct {
	StatusCode       int               `json:"statusCode"`
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	Fields           map[string]string `json:"fields,omitempty"`
	RemainingSeconds int64             `json:"remainingSeconds,omitempty"`
}

func (e *Error) Error() string {
	if e.RemainingSeconds > 0 {
		return fmt.Sprintf("%s (try again in %ds)", e.Message, e.RemainingSeconds)
	}
	return e.Message
}

// Error codes the client reacts to.
const (
	CodeCaptchaRequired = "captcha_required"
	CodeTokenNotFound   = "token_not_found"
)

// Unauthorized reports whether the server rejected the caller's credentials
// or token.
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the server at baseURL. timeout bounds every
// request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends in (when non-nil) as JSON and decodes a 2xx body into out (when
// non-nil). Server errors come back as *Error; transport failures wrap
// common.ErrUpstreamUnavailable or common.ErrUpstreamTimeout.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var ne interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return fmt.Errorf("%w: %v", common.ErrUpstreamTimeout, err)
		}
		return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrUpstreamUnavailable, err)
	}
	return nil
}

// Health pings GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
}

func escape(s string) string {
	return url.PathEscape(s)
}
