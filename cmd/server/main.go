package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reistoq/internal/config"
	"reistoq/internal/infra"
	"reistoq/internal/router"
	"reistoq/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Redis is optional: without it the cache, alert queue and cron dedupe
	// are off and every read goes to Postgres.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		log.Warn().Msg("REDIS_URL not set: cache and low-stock alerts disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so the pool has
	// access to every infrastructure dependency.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	worker.StartWorkerPool(ctx, rdb, &worker.WorkerHandlers{
		AlertaEstoque: worker.NewAlertaWorker(mailer, smtpCB),
	}, cfg.WorkerPoolSize)

	estoqueSvc := router.NewEstoqueService(cfg, db, rdb)
	if rdb != nil {
		worker.StartAlertaCron(ctx, worker.AlertaCronConfig{
			Estoque:       estoqueSvc,
			Notificador:   worker.NewDispatcher(rdb),
			RDB:           rdb,
			Destinatarios: cfg.DestinatariosAlerta(),
			Intervalo:     cfg.AlertaIntervalo(),
		})
	}

	r := router.New(cfg, db, rdb, estoqueSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // PDF/XLSX exports of large catalogues
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("ReiStoq backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
