package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/showcase-studio/engine/internal/api"
	"github.com/showcase-studio/engine/internal/api/handlers"
	mw "github.com/showcase-studio/engine/internal/api/middleware"
	"github.com/showcase-studio/engine/internal/repository"
	"github.com/showcase-studio/engine/internal/services"
	"github.com/showcase-studio/engine/pkg/clock"
	"github.com/showcase-studio/engine/pkg/config"
	"github.com/showcase-studio/engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting showcase engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.New()

	store := repository.NewProjectStore(
		repository.WithClock(clk),
		repository.WithLogger(log.Named("store")),
	)
	projectSvc := services.NewProjectService(store)

	if cfg.SeedOnStart {
		if _, err := projectSvc.SeedIfEmpty(ctx); err != nil {
			log.Fatal("Failed to seed sample projects", zap.Error(err))
		}
	}

	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, clk)
	go limiter.Run(ctx)

	router := api.NewRouter(api.Dependencies{
		ProjectsHandler: handlers.NewProjectsHandler(projectSvc),
		HealthHandler:   handlers.NewHealthHandler(clk, projectSvc),
		RateLimiter:     limiter,
		BodyLimitBytes:  cfg.BodyLimitBytes,
		Production:      cfg.IsProduction(),
		TrustProxy:      cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully", zap.Int("projects", projectSvc.CountProjects(shutdownCtx)))
	}
}
