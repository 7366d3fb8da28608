package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"chatworkbot/internal/notifier"
)

const (
	statusText = "Bot is running!"
	ackText    = "OK"

	// maxWebhookBody bounds how much of an inbound payload is read.
	maxWebhookBody = 1 << 20
)

type Server struct {
	echo     *echo.Echo
	notifier notifier.Notifier
	members  notifier.MemberLister
	roomID   string
	draw     func(admin bool) string
}

// NewServer builds the webhook server. Replies always go to roomID, not to
// the room that raised the event, and roles are looked up in roomID too.
func NewServer(n notifier.Notifier, members notifier.MemberLister, roomID string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	s := &Server{
		echo:     e,
		notifier: n,
		members:  members,
		roomID:   roomID,
		draw:     randomFortune,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.index)
	s.echo.GET("/health", s.health)
	s.echo.POST("/webhook", s.webhook)
}

func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

func (s *Server) index(c echo.Context) error {
	return c.String(http.StatusOK, statusText)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
