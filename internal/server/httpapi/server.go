// Package httpapi exposes the auth service over HTTP with gin: request
// binding and validation, bearer authentication and the mapping of the error
// taxonomy onto status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/logging"
	"github.com/dmitrijs2005/deckexc/internal/server/auth"
	"github.com/dmitrijs2005/deckexc/internal/server/models"
	"github.com/dmitrijs2005/deckexc/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ResetPassword(ctx context.Context, email, answer, newPassword string) error
	GetSecurityQuestion(ctx context.Context, email string) (models.SecurityQuestion, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type TokenService interface {
	Mint(ctx context.Context, userID string) (string, error)
	Validate(ctx context.Context, token string) (*auth.Claims, error)
	Revoke(ctx context.Context, userID, jti string) error
	IsRevoked(ctx context.Context, userID, jti string) (bool, error)
}

type PaymentService interface {
	Create(ctx context.Context, in services.CreatePaymentInput) (*services.MaskedPaymentDetail, error)
	Get(ctx context.Context, userID string) (*services.MaskedPaymentDetail, error)
	Update(ctx context.Context, userID string, in services.UpdatePaymentInput) (*services.MaskedPaymentDetail, error)
	Delete(ctx context.Context, userID string) error
}

type CaptchaVerifier interface {
	Enabled() bool
	Verify(ctx context.Context, token string) error
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address        string
	logger         logging.Logger
	users          UserService
	tokens         TokenService
	payments       PaymentService
	captcha        CaptchaVerifier
	db             Pinger
	requestTimeout time.Duration
}

type Option func(*Server)

// WithCaptcha enables captcha checks on login when v reports Enabled.
func WithCaptcha(v CaptchaVerifier) Option {
	return func(s *Server) { s.captcha = v }
}

// WithHealthCheck makes /healthz ping db.
func WithHealthCheck(db Pinger) Option {
	return func(s *Server) { s.db = db }
}

// WithRequestTimeout bounds the context of every request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

func NewServer(address string, l logging.Logger, us UserService, ts TokenService, ps PaymentService, opts ...Option) *Server {
	s := &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    us,
		tokens:   ts,
		payments: ps,
	}
	for _, o := range opts {
		o(s)
	}
	registerValidators()
	return s
}

// Router builds the gin engine with every route mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())
	if s.requestTimeout > 0 {
		r.Use(s.timeout(s.requestTimeout))
	}

	r.GET("/healthz", s.health)

	a := r.Group("/auth")
	{
		a.POST("/register", s.register)
		a.POST("/login", s.login)
		a.POST("/reset", s.resetPassword)
		a.GET("/question/:email", s.question)
		a.GET("/users/:id", s.user)

		a.POST("/logout", s.bearerAuth(), s.logout)
		a.GET("/status", s.bearerAuth(), s.status)

		a.POST("/payment", s.createPayment)
		a.GET("/payment/:userId", s.getPayment)
		a.PATCH("/payment", s.updatePayment)
		a.DELETE("/payment/:userId", s.deletePayment)

		a.POST("/check", s.check)
		a.POST("/remove", s.remove)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
