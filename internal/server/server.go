package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/haxgun/valory/internal/config"
	"github.com/haxgun/valory/internal/domain"
	apperrors "github.com/haxgun/valory/internal/errors"
)

// postgresHealthChecker is the minimal interface for database health checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	users     domain.UserRepository
	oauth     domain.OAuthClient
	db        postgresHealthChecker
	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, users domain.UserRepository, oauth domain.OAuthClient, db postgresHealthChecker, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		users:     users,
		oauth:     oauth,
		db:        db,
		clock:     clock,
		startTime: clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
