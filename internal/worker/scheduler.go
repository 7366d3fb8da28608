package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"chatworkbot/internal/config"
	"chatworkbot/internal/notifier"
)

type Scheduler struct {
	notifier notifier.Notifier
	clock    clockwork.Clock
	roomID   string
	interval time.Duration
	location *time.Location

	// lastSlot is the date and hour of the last tick that produced
	// messages, so ticks shorter than a minute cannot post twice.
	lastSlot string
}

func NewScheduler(n notifier.Notifier, clock clockwork.Clock, cfg *config.Config) (*Scheduler, error) {
	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}

	interval := cfg.Scheduler.Interval
	if interval <= 0 {
		interval = config.DefaultInterval
	}
	if interval > config.DefaultInterval {
		return nil, fmt.Errorf("scheduler interval %s exceeds %s", interval, config.DefaultInterval)
	}

	return &Scheduler{
		notifier: n,
		clock:    clock,
		roomID:   cfg.Chatwork.RoomID,
		interval: interval,
		location: loc,
	}, nil
}

// Start ticks until ctx is cancelled. There is no initial run and no
// catch-up for boundaries that fell between ticks.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Str("timezone", s.location.String()).Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler stopped")
			return
		case <-ticker.Chan():
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.clock.Now().In(s.location)

	msgs := Messages(now)
	if len(msgs) == 0 {
		return
	}

	slot := now.Format("2006-01-02T15")
	if slot == s.lastSlot {
		return
	}
	s.lastSlot = slot

	for _, msg := range msgs {
		notifier.Deliver(ctx, s.notifier, notifier.Notification{
			RoomID: s.roomID,
			Body:   msg,
		})
	}
}

// Messages returns what should be posted at t, in send order: the hourly
// announcement on even hours, then the date change at midnight.
func Messages(t time.Time) []string {
	hour, minute := t.Hour(), t.Minute()
	if minute != 0 {
		return nil
	}

	var out []string
	if hour%2 == 0 {
		out = append(out, HourlyMessage(t))
	}
	if hour == 0 {
		out = append(out, DateChangeMessage(t))
	}
	return out
}

func HourlyMessage(t time.Time) string {
	return fmt.Sprintf("%d時です！", t.Hour())
}

func DateChangeMessage(t time.Time) string {
	return fmt.Sprintf("日付変更！今日は%d年%d月%d日です！", t.Year(), int(t.Month()), t.Day())
}
