package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chatworkbot/internal/domain"
	"chatworkbot/internal/notifier"
)

const testCommand = "/test"

// webhook acknowledges every delivery with 200 OK. What happens to the event
// afterwards never changes the response.
func (s *Server) webhook(c echo.Context) error {
	reqID := c.Response().Header().Get(echo.HeaderXRequestID)
	logger := log.With().Str("request_id", reqID).Logger()

	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		logger.Error().Err(err).Msg("read webhook body")
		return c.String(http.StatusOK, ackText)
	}

	logger.Info().RawJSON("payload", rawOrString(raw)).Msg("webhook received")

	ctx := context.WithoutCancel(c.Request().Context())
	s.handleEvent(ctx, logger, raw)

	return c.String(http.StatusOK, ackText)
}

func (s *Server) handleEvent(ctx context.Context, logger zerolog.Logger, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("webhook processing failed")
		}
	}()

	var ev domain.WebhookEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		logger.Warn().Err(err).Msg("invalid webhook payload")
		return
	}

	if ev.Event != domain.EventMessageCreated {
		logger.Debug().Str("event", ev.Event).Msg("event ignored")
		return
	}

	if ev.Body == nil || ev.Body.FromAccount == nil {
		logger.Warn().Msg("malformed message_created event ignored")
		return
	}

	switch ev.Body.Text() {
	case testCommand:
		if ev.Body.Room == nil {
			logger.Warn().Msg("malformed message_created event ignored")
			return
		}
		s.reply(ctx, CommandReply(ev.Body.FromAccount.AccountID, ev.Body.Room.Name))
	case omikujiCommand:
		from := *ev.Body.FromAccount
		fortune := s.draw(s.isAdmin(ctx, logger, from.AccountID))
		s.reply(ctx, OmikujiReply(from, s.roomID, ev.Body.MessageID, fortune))
	}
}

func (s *Server) reply(ctx context.Context, body string) {
	notifier.Deliver(ctx, s.notifier, notifier.Notification{
		RoomID: s.roomID,
		Body:   body,
	})
}

// isAdmin treats a failed member lookup as "not an admin".
func (s *Server) isAdmin(ctx context.Context, logger zerolog.Logger, accountID domain.AccountID) bool {
	members, err := s.members.Members(ctx, s.roomID)
	if err != nil {
		logger.Warn().Err(err).Str("room_id", s.roomID).Msg("member lookup failed")
		return false
	}
	return domain.IsAdmin(members, accountID)
}

func CommandReply(accountID domain.AccountID, roomName string) string {
	return fmt.Sprintf("[To:%s]テスト応答です！\nルーム「%s」からのコマンドを受け付けました。", accountID, roomName)
}

// rawOrString keeps valid JSON as-is in the log line and quotes anything
// else.
func rawOrString(raw []byte) []byte {
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
