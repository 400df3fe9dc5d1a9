package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrygo/ctparse/internal/profile"
	"github.com/hrygo/ctparse/plugin/ctparse"
	"github.com/hrygo/ctparse/server/internal/observability"
	"github.com/hrygo/ctparse/server/middleware"
	apiv1 "github.com/hrygo/ctparse/server/router/api/v1"
)

// Server is the HTTP front of the parsing service.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	listener   net.Listener
}

// NewServer wires the routes. reg receives the HTTP metrics and gatherer is
// exposed on /metrics; both are usually the same prometheus.Registry.
func NewServer(_ context.Context, profile *profile.Profile, timeService ctparse.TimeService, languages []string, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*Server, error) {
	if timeService == nil {
		return nil, errors.New("time service is required")
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomiddleware.Recover())

	s := &Server{
		Profile:    profile,
		echoServer: echoServer,
	}

	// Register healthz endpoint.
	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	echoServer.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	metrics := observability.NewMetrics(reg)
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		PerSecond: profile.RateLimit,
		Burst:     profile.RateBurst,
		MaxKeys:   profile.RateKeys,
		TTL:       profile.RateTTL,
	})
	apiV1Service := apiv1.NewAPIV1Service(profile, timeService, languages)
	apiV1Service.RegisterRoutes(echoServer,
		middleware.RequestContext(slog.Default(), metrics),
		middleware.RateLimit(limiter, metrics),
	)

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start listens on the profile's address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	s.listener = listener
	s.echoServer.Listener = listener

	go func() {
		if err := s.echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", slog.String("error", err.Error()))
		}
	}()
	slog.Info("server started", slog.String("addr", listener.Addr().String()), slog.String("mode", s.Profile.Mode))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	slog.Info("server stopped properly")
}
