// Package netx contains outbound HTTP helpers for calls to external
// collaborators.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/deckexc/internal/common"
)

// maxResponseBody caps how much of an upstream response is read.
const maxResponseBody = 1 << 20

// PostForm sends values as application/x-www-form-urlencoded and returns the
// response body. Transport failures and non-2xx answers are reported as
// common.ErrUpstreamUnavailable; an expired ctx as common.ErrUpstreamTimeout.
func PostForm(ctx context.Context, client *http.Client, endpoint string, values url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", common.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s; body: %s", common.ErrUpstreamUnavailable, resp.Status, string(body))
	}
	return body, nil
}
