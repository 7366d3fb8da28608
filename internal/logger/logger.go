package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chatworkbot/internal/config"
)

func Init(cfg config.LogConfig) {
	InitWriter(cfg, os.Stdout)
}

// InitWriter configures the global logger to write to w.
func InitWriter(cfg config.LogConfig, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
