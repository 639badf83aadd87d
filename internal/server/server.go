// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/pharmaguard/pharmaguard/internal/audit"
	"github.com/pharmaguard/pharmaguard/internal/config"
	"github.com/pharmaguard/pharmaguard/internal/explain"
	"github.com/pharmaguard/pharmaguard/internal/pgx"
	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

// Version is reported by the health endpoint. Set at build time.
var Version = "1.0.0"

// Server wires the parser, rule engine, explainer, and audit log behind
// the HTTP API.
type Server struct {
	echo      *echo.Echo
	cfg       *config.Config
	parser    *vcf.Parser
	engine    *pgx.Engine
	explainer *explain.Explainer
	auditLog  *audit.Store
	logger    *zap.Logger
}

// New assembles a Server from its components. The audit store may be nil
// to disable outcome logging.
func New(cfg *config.Config, parser *vcf.Parser, engine *pgx.Engine, explainer *explain.Explainer, auditLog *audit.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:       cfg,
		parser:    parser,
		engine:    engine,
		explainer: explainer,
		auditLog:  auditLog,
		logger:    logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowCredentials: true,
	}))
	// One extra megabyte of headroom for multipart framing; the precise
	// VCF size limit is enforced in the handler.
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.MaxVCFSizeMB+1)))

	e.HTTPErrorHandler = s.errorHandler

	e.GET("/health", s.handleHealth)
	e.POST("/analyze", s.handleAnalyze)

	if cfg.StaticDir != "" {
		e.Static("/static", cfg.StaticDir)
		e.File("/", cfg.StaticDir+"/index.html")
	}

	s.echo = e
	return s
}

// Echo returns the underlying router, for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start begins serving on the configured port and blocks until the
// listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("port", s.cfg.Port))
	return s.echo.Start(":" + s.cfg.Port)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}
