package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pharmaguard/pharmaguard/internal/audit"
	"github.com/pharmaguard/pharmaguard/internal/config"
	"github.com/pharmaguard/pharmaguard/internal/explain"
	"github.com/pharmaguard/pharmaguard/internal/pgx"
	"github.com/pharmaguard/pharmaguard/internal/server"
	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the PharmaGuard API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	backend := vcf.BackendByName(cfg.ParserBackend)
	if backend == nil {
		return fmt.Errorf("unknown parser backend %q (use stream or line)", cfg.ParserBackend)
	}

	parser := vcf.NewParserWithBackend(backend)
	parser.SetLogger(logger)

	engine := pgx.NewEngine()
	engine.SetLogger(logger)

	explainer := explain.NewExplainer(cfg.GeminiAPIKey)
	explainer.SetLogger(logger)
	if cfg.GeminiAPIKey == "" {
		logger.Info("no gemini api key configured, explanations use deterministic fallback")
	}

	auditLog, err := audit.Open(cfg.AuditDBPath)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer auditLog.Close()

	srv := server.New(cfg, parser, engine, explainer, auditLog, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
