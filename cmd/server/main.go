package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/phantom-scope/internal/analysis"
	"github.com/ZanzyTHEbar/phantom-scope/internal/api"
	"github.com/ZanzyTHEbar/phantom-scope/internal/config"
	"github.com/ZanzyTHEbar/phantom-scope/internal/monitoring"
	"github.com/ZanzyTHEbar/phantom-scope/internal/version"
)

const limiterCleanupInterval = 5 * time.Minute

// @title        Phantom Scope API
// @version      1.0
// @description  Developer behavioral profiles: dimension scores, AI usage estimate and archetype.
// @BasePath     /
func main() {
	configPath := flag.String("config", "", "path to config file (default: ./.phantom-scope.yaml or ~/.phantom-scope.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger := monitoring.NewLogger(cfg.Logging.Level)
	slog.SetDefault(logger.Logger)

	if monitoring.ParseLevel(cfg.Logging.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := analysis.NewEngine(cfg.Scoring)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	metrics := monitoring.NewMetrics()
	server := api.NewServer(cfg.Server, engine, metrics, logger, version.Version)

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	server.Security().Cleanup(cleanupCtx, limiterCleanupInterval)

	srv := newHTTPServer(cfg.Server, server.Router())

	errCh := make(chan error, 1)
	go func() {
		logger.SystemLogger("server_start", fmt.Sprintf("listening on %s, version %s", srv.Addr, version.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.SystemLogger("server_shutdown", "draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.SystemLogger("server_stopped", "clean exit")
	return nil
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       2 * cfg.WriteTimeout,
	}
}
