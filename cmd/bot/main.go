package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/bot"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/config"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/handler"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/infra"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/repository"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/router"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/service"
)

func main() {
	started := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Session linkage store: Redis when configured, memory otherwise.
	// Memory is explicitly volatile — a restart forgets tracked sessions.
	var linkages repository.LinkageRepository
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		linkages = repository.NewRedisLinkageRepository(rdb)
		log.Info().Msg("session linkage backed by redis")
	} else {
		linkages = repository.NewMemoryLinkageRepository()
		log.Warn().Msg("session linkage in memory only — tracked sessions are lost on restart")
	}

	client := infra.NewCashPilotClient(cfg.APIURL, cfg.APIKey,
		infra.WithTimeout(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second),
		infra.WithCircuitBreaker(infra.NewCircuitBreaker(infra.DefaultBreakerConfig())),
	)
	client.Connect()
	defer client.Close()

	svc := service.NewSessionService(client, linkages, cfg.DefaultBusinessID)
	h := handler.NewSessionHandler(svc)

	d := bot.NewDispatcher()
	d.Register("/start", h.Start)
	d.Register("/help", h.Help)
	d.Register("/abrir_caja", h.Open)
	d.Register("/cerrar_caja", h.Close)
	d.Register("/estado", h.Status)
	d.Register("/mi_negocio", h.Business)
	d.Register("/historial", h.History)
	d.SetFallback(h.Help)

	r := router.New(cfg, d, client, started)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("CashPilot bot listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down bot…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("bot exited")
}
