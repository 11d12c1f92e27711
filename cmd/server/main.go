package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/cache"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/config"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/infra"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/router"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	loc := cfg.Location()

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	store := repository.NewStore(db)
	svc := service.NewServices(store, cache.NewRedisConfigCache(rdb), cfg.CacheTTL(), loc)

	// Reward expiration: the scheduler enqueues, the pool consumes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := worker.NewDispatcher(rdb)
	esperarWorkers := worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.NewProcesador(svc.Fidelidad, svc.Cashback))
	scheduler, err := worker.StartScheduler(loc, cfg.VencimientoHora, dispatcher)
	if err != nil {
		log.Fatal().Err(err).Str("hora", cfg.VencimientoHora).Msg("failed to start scheduler")
	}

	r := router.New(cfg, db, rdb, svc, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Str("timezone", loc.String()).Msg("sorveteria backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	// stop producing jobs before the pool loses its context
	scheduler.Stop()
	cancel()
	esperarWorkers()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

// setupLogger writes JSON in production and a console format elsewhere.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
