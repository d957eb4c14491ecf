// Package live fans capacity changes out to connected viewers over a single
// redis pub/sub topic. Delivery is best-effort with no replay: a client that
// (re)connects must re-fetch availability before trusting events.
package live

import (
	"context"
	"encoding/json"
	"log/slog"

	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"

	"github.com/redis/go-redis/v9"
)

const channel = "guest_updates"

const (
	EventDay       = "day"
	EventSeasonCap = "seasonCap"
	EventPing      = "ping"
)

// Event is the wire payload shared by day-capacity and season-cap-change
// messages; Type selects which fields are meaningful.
type Event struct {
	Type      string     `json:"type"`
	Season    season.ID  `json:"season"`
	Day       season.Day `json:"day,omitempty"`
	Used      int        `json:"used,omitempty"`
	Cap       int        `json:"cap,omitempty"`
	Remaining int        `json:"remaining,omitempty"`
	Ver       int64      `json:"ver,omitempty"`
}

type Broker struct {
	rdb    redis.UniversalClient
	logger *slog.Logger
}

func NewBroker(rdb redis.UniversalClient, logger *slog.Logger) *Broker {
	return &Broker{rdb: rdb, logger: logger}
}

func (b *Broker) PublishDayUpdate(ctx context.Context, u guest.DayUpdate) error {
	return b.publish(ctx, Event{
		Type:      EventDay,
		Season:    u.Season,
		Day:       u.Day,
		Used:      u.Used,
		Cap:       u.Cap,
		Remaining: u.Remaining,
		Ver:       u.Version,
	})
}

func (b *Broker) PublishSeasonCap(ctx context.Context, sn season.ID, cap int) error {
	return b.publish(ctx, Event{
		Type:   EventSeasonCap,
		Season: sn,
		Cap:    cap,
	})
}

func (b *Broker) publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channel, payload).Err()
}

// Subscription is one connection's dedicated handle on the fan-out topic.
// Close must be called when the client disconnects.
type Subscription struct {
	pubsub *redis.PubSub
	events chan Event
}

// Subscribe opens a dedicated subscriber filtered to the given season.
// Events for other seasons are discarded before forwarding.
func (b *Broker) Subscribe(ctx context.Context, sn season.ID) (*Subscription, error) {
	pubsub := b.rdb.Subscribe(ctx, channel)

	// 購読確立を待つ。失敗したらハンドルを漏らさない。
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan Event, 16),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("live: dropping malformed event", "error", err.Error())
				continue
			}
			if ev.Season != sn {
				continue
			}
			select {
			case sub.events <- ev:
			default:
				// 遅い購読者は最新を取りこぼす。直接読み取りで再同期される前提。
			}
		}
	}()

	return sub, nil
}

// Events yields season-filtered events; the channel closes after Close.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() error {
	return s.pubsub.Close()
}
