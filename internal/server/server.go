// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the paper library, projects, ingestion and the
// backend proxies over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/paprly/paprly/internal/arxiv"
	"github.com/paprly/paprly/internal/backend"
	"github.com/paprly/paprly/internal/store"
	"github.com/paprly/paprly/pkg/types"
)

// Ingester saves a paper from a pasted link or id, or previews it.
type Ingester interface {
	Ingest(ctx context.Context, input string) (*types.Paper, error)
	Preview(ctx context.Context, input string) (*arxiv.Metadata, error)
}

// Searcher queries arXiv directly.
type Searcher interface {
	Search(ctx context.Context, q arxiv.Query) ([]types.SearchResult, error)
}

// Backend is the external search and summarization service.
type Backend interface {
	Enabled() bool
	Search(ctx context.Context, req backend.SearchRequest) (*backend.RawResponse, error)
	SummarizeRaw(ctx context.Context, body json.RawMessage) (*backend.RawResponse, error)
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Store    *store.Store
	Ingester Ingester
	Searcher Searcher
	Backend  Backend
}

// Server wraps the echo instance and its lifecycle.
type Server struct {
	cfg     types.ServerConfig
	deps    Deps
	logger  *slog.Logger
	echo    *echo.Echo
	limiter *RateLimiter
}

// New builds the server and registers every route.
func New(cfg types.ServerConfig, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)
	e.IPExtractor = ipExtractor(cfg.TrustedProxies, logger)

	s := &Server{cfg: cfg, deps: deps, logger: logger, echo: e}
	if cfg.RateLimit > 0 {
		s.limiter = NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				logger.InfoContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.WarnContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	s.routes()
	return s
}

// ipExtractor uses the peer address unless trusted proxies are configured,
// in which case X-Forwarded-For is read up to the first untrusted hop.
func ipExtractor(trusted []string, logger *slog.Logger) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			logger.Warn("ignoring trusted proxy", "cidr", cidr, "error", err)
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/healthz", s.handleHealth())

	api := e.Group("/api")

	api.GET("/papers", s.handleListPapers())
	api.POST("/papers", s.handleCreatePaper())
	api.GET("/papers/:id", s.handleGetPaper())
	api.PATCH("/papers/:id", s.handleUpdatePaper())
	api.DELETE("/papers/:id", s.handleDeletePaper())

	api.GET("/projects", s.handleListProjects())
	api.POST("/projects", s.handleCreateProject())
	api.GET("/projects/:id", s.handleGetProject())
	api.PATCH("/projects/:id", s.handleUpdateProject())
	api.DELETE("/projects/:id", s.handleDeleteProject())
	api.GET("/projects/:id/papers", s.handleListProjectPapers())
	api.PUT("/projects/:id/papers/:paperId", s.handlePinPaper())
	api.DELETE("/projects/:id/papers/:paperId", s.handleUnpinPaper())

	// Routes below call arXiv or the backend.
	var outbound []echo.MiddlewareFunc
	if s.limiter != nil {
		outbound = append(outbound, s.limiter.Middleware())
	}
	api.POST("/ingest/arxiv", s.handleIngest(), outbound...)
	api.GET("/arxiv/:id", s.handlePreview(), outbound...)
	api.GET("/search", s.handleSearch(), outbound...)
	api.POST("/summarize", s.handleSummarize(), outbound...)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	if s.limiter != nil {
		defer s.limiter.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "starting paprly server", "address", s.cfg.Addr)
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("server exited properly")
	return nil
}

// Close releases background resources without serving. Run calls it itself.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

func (s *Server) handleHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.deps.Store != nil {
			if err := s.deps.Store.Ping(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
