package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"chatworkbot/internal/api"
	"chatworkbot/internal/config"
	"chatworkbot/internal/logger"
	"chatworkbot/internal/notifier"
	"chatworkbot/internal/worker"
)

// app runs the scheduler and the webhook server in one process.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Log)
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("chatwork credentials not set, sends will fail")
	}

	cw := notifier.NewChatwork(cfg.Chatwork)

	w, err := worker.NewScheduler(cw, clockwork.NewRealClock(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	server := api.NewServer(cw, cw, cfg.Chatwork.RoomID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)

	go func() {
		if err := server.Start(cfg.Server.Addr()); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	log.Info().Msg("app started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
