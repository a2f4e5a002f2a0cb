// Package app initializes and runs the main application service.
// It configures logging, storage, sessions, and routing, and handles
// graceful shutdown.
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DavidGir/tinyapp/internal/auth"
	"github.com/DavidGir/tinyapp/internal/config"
	"github.com/DavidGir/tinyapp/internal/db/memorystorage"
	"github.com/DavidGir/tinyapp/internal/ipchecker"
	"github.com/DavidGir/tinyapp/internal/keygen"
	"github.com/DavidGir/tinyapp/internal/logger"
	"github.com/DavidGir/tinyapp/internal/router"
	"github.com/DavidGir/tinyapp/internal/service"
)

// App bundles the configuration, storage backend, and the HTTP handler
// needed to run the URL shortener service.
type App struct {
	cfg         *config.Config
	db          *memorystorage.MemoryStorage
	httpHandler http.Handler
}

// New initializes a new App by:
// - loading configuration
// - initializing the logger
// - setting up the in-memory storage
// - setting up sessions, the service, and the router
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	if err = logger.Init(app.cfg.LogLevel); err != nil {
		return nil, err
	}

	app.db, err = memorystorage.New()
	if err != nil {
		return nil, err
	}

	authCookieSigningSecretKey, err := base64.URLEncoding.DecodeString(app.cfg.AuthCookieSigningSecretKey)
	if err != nil {
		return nil, fmt.Errorf("error while `base64.URLEncoding.DecodeString()` calling: %w", err)
	}

	theIPChecker, err := ipchecker.New(app.cfg.TrustedSubnet)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(
		service.New(
			app.db,
			keygen.New(keygen.DefaultKeyLength),
			app.cfg.ShortURLBase,
		),
		auth.New(
			app.db,
			app.cfg.AuthCookieName,
			authCookieSigningSecretKey,
		),
		theIPChecker,
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}
