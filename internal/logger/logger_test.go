package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chatworkbot/internal/config"
)

func TestInitWriter_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	InitWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("dropped")
	log.Warn().Str("room_id", "1").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q", lines[0])
	}
	if entry["message"] != "kept" {
		t.Errorf("expected message kept, got %v", entry["message"])
	}
	if entry["room_id"] != "1" {
		t.Errorf("expected room_id 1, got %v", entry["room_id"])
	}
}

func TestInitWriter_UnknownLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	InitWriter(config.LogConfig{Level: "loud", Format: "text"}, &buf)

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", zerolog.GlobalLevel())
	}

	log.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected console output to contain hello, got %q", buf.String())
	}
}
