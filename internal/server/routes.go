package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no rate limiting)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// OAuth routes, rate limited per client IP
	rateLimiter := newRateLimiter(authRatePerSecond, authRateBurst)
	auth := s.echo.Group("/auth", rateLimiter)
	auth.GET("/login", s.handleLogin)
	auth.GET("/callback", s.handleOAuthCallback)
	auth.POST("/refresh", s.handleRefreshToken)
}
