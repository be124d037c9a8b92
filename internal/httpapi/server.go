// Package httpapi exposes the application over a small local JSON API so a
// browser front-end can drive the same catalog, session and list logic as the
// terminal UI.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"myfilms/internal/app"
	"myfilms/internal/config"
	"myfilms/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server serves the JSON API.
type Server struct {
	app     *app.App
	cfg     *config.Config
	logger  *slog.Logger
	cookies *sessions.CookieStore
	engine  *gin.Engine
}

// New builds the router. An empty session secret gets a random one, which
// invalidates cookies on every restart.
func New(a *app.App, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "httpapi")

	secret := cfg.Server.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		logger.Debug("using ephemeral session secret")
	}
	cookies := sessions.NewCookieStore([]byte(secret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.Server.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger), cors())

	s := &Server{
		app:     a,
		cfg:     cfg,
		logger:  logger,
		cookies: cookies,
		engine:  engine,
	}
	s.RegisterRoutes(engine)
	return s
}

// RegisterRoutes mounts every API route on r.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout)
	api.GET("/session", s.handleSession)

	api.GET("/popular", s.handlePopular)
	api.GET("/search", s.handleSearch)
	api.GET("/items/:kind/:id", s.handleItem)
	api.GET("/people/:id/credits", s.handleCredits)

	owned := api.Group("/lists", s.requireUser)
	owned.GET("", s.handleLists)
	owned.POST("", s.handleCreateList)
	owned.GET("/:id", s.handleList)
	owned.DELETE("/:id", s.handleDeleteList)
	owned.POST("/:id/items", s.handleAddItem)
	owned.DELETE("/:id/items/:itemID", s.handleRemoveItem)
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured bind address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Bind,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", logging.String("bind", s.cfg.Server.Bind))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", s.cfg.Server.Bind, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	s.logger.Info("api stopped")
	return nil
}
