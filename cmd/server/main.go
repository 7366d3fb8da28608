package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"chatworkbot/internal/api"
	"chatworkbot/internal/config"
	"chatworkbot/internal/logger"
	"chatworkbot/internal/notifier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Log)
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("chatwork credentials not set, replies will fail")
	}

	cw := notifier.NewChatwork(cfg.Chatwork)
	server := api.NewServer(cw, cw, cfg.Chatwork.RoomID)

	go func() {
		if err := server.Start(cfg.Server.Addr()); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
