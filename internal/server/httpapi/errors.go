package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request. Code is stable and meant
// for programs; Message is for people.
type errorResponse struct {
	StatusCode       int               `json:"statusCode"`
	Error            string            `json:"error"`
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	Fields           map[string]string `json:"fields,omitempty"`
	RemainingSeconds int64             `json:"remainingSeconds,omitempty"`
}

type errorKind struct {
	target error
	status int
	code   string
}

// errorKinds is checked in order; the first match wins.
var errorKinds = []errorKind{
	{common.ErrValidation, http.StatusBadRequest, "validation_failed"},
	{common.ErrAccountLocked, http.StatusUnauthorized, "account_locked"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{common.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked"},
	{common.ErrDuplicateEmail, http.StatusBadRequest, "duplicate_email"},
	{common.ErrDuplicateCard, http.StatusBadRequest, "duplicate_card"},
	{common.ErrPaymentExists, http.StatusBadRequest, "payment_exists"},
	{common.ErrInvalidAnswer, http.StatusBadRequest, "invalid_answer"},
	{common.ErrCaptchaRequired, http.StatusBadRequest, "captcha_required"},
	{common.ErrCaptchaInvalid, http.StatusBadRequest, "captcha_invalid"},
	{common.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{common.ErrPaymentNotFound, http.StatusNotFound, "payment_not_found"},
	{common.ErrTokenNotFound, http.StatusNotFound, "token_not_found"},
	{common.ErrorNotFound, http.StatusNotFound, "not_found"},
	{common.ErrUpstreamTimeout, http.StatusGatewayTimeout, "upstream_timeout"},
	{common.ErrUpstreamUnavailable, http.StatusBadGateway, "upstream_unavailable"},
	{common.ErrDecryptionFailed, http.StatusInternalServerError, "decryption_failed"},
}

var internalKind = errorKind{common.ErrorInternal, http.StatusInternalServerError, "internal"}

// classify finds the kind of err. Unknown errors are internal; their text is
// never shown to the caller.
func classify(err error) errorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k
		}
	}
	return internalKind
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	kind := classify(err)

	resp := errorResponse{
		StatusCode: kind.status,
		Error:      http.StatusText(kind.status),
		Code:       kind.code,
		Message:    kind.target.Error(),
	}

	var verr *common.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	var locked *common.AccountLockedError
	if errors.As(err, &locked) {
		resp.Message = locked.Error()
		resp.RemainingSeconds = locked.RemainingSeconds()
	}

	if kind.status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	}

	c.AbortWithStatusJSON(kind.status, resp)
}
