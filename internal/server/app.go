// Package server wires the auth service together: storage, migrations,
// services, the HTTP API and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/cryptox"
	"github.com/dmitrijs2005/deckexc/internal/logging"
	"github.com/dmitrijs2005/deckexc/internal/server/captcha"
	"github.com/dmitrijs2005/deckexc/internal/server/config"
	"github.com/dmitrijs2005/deckexc/internal/server/httpapi"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/deckexc/internal/server/services"
	"github.com/gin-gonic/gin"
)

// tokenPurgeInterval is how often stale ledger records are swept.
const tokenPurgeInterval = 10 * time.Minute

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	tokens *services.TokenService
	http   *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	hasher, err := cryptox.NewHasher(c.PasswordHasher)
	if err != nil {
		db.Close()
		return nil, err
	}

	cipher, err := cryptox.NewCBCFieldCipher(c.EncryptionKey, c.EncryptionIV)
	if err != nil {
		db.Close()
		return nil, err
	}

	ts := services.NewTokenService(db, rm, c, logger)
	us := services.NewUserService(db, rm, hasher, ts, c, logger)
	ps := services.NewPaymentService(db, rm, cipher, logger)

	verifier := captcha.NewVerifier(c.CaptchaSecret, c.CaptchaVerifyURL, &http.Client{Timeout: c.RequestTimeout})

	gin.SetMode(gin.ReleaseMode)
	hs := httpapi.NewServer(c.EndpointAddrHTTP, logger, us, ts, ps,
		httpapi.WithCaptcha(verifier),
		httpapi.WithHealthCheck(db),
		httpapi.WithRequestTimeout(c.RequestTimeout),
	)

	return &App{config: c, logger: logger, db: db, tokens: ts, http: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the HTTP server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.tokens.RunPurger(ctx, tokenPurgeInterval)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
