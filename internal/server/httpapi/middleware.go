package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/common"
	"github.com/dmitrijs2005/deckexc/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerAuth admits requests whose bearer token is signed, unexpired and still
// in the ledger. The user id is forwarded in the X-User-Id header.
func (s *Server) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			s.abortWithError(c, err)
			return
		}

		claims, err := s.tokens.Validate(c.Request.Context(), token)
		if err != nil {
			s.abortWithError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Request.Header.Set(common.UserIDHeaderName, claims.UserID)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
