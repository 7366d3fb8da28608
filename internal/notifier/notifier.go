package notifier

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"chatworkbot/internal/domain"
)

type Notification struct {
	RoomID string
	Body   string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type MemberLister interface {
	Members(ctx context.Context, roomID string) ([]domain.Member, error)
}

// Deliver sends n and swallows the outcome. Delivery is best-effort: a
// failure is logged with the API response payload when there is one, and
// never retried.
func Deliver(ctx context.Context, nt Notifier, n Notification) bool {
	err := nt.Notify(ctx, n)
	if err == nil {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		log.Error().
			Str("room_id", n.RoomID).
			Int("status", apiErr.StatusCode).
			Str("response", apiErr.Body).
			Msg("error sending message")
		return false
	}

	log.Error().Err(err).Str("room_id", n.RoomID).Msg("error sending message")
	return false
}
