//go:build unit

package live

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"
)

func newTestBroker(t *testing.T) *Broker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBroker(client, slog.Default())
}

func waitForEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "event channel closed unexpectedly")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBrokerDeliversDayUpdates(t *testing.T) {
	ctx := context.Background()
	broker := newTestBroker(t)

	sub, err := broker.Subscribe(ctx, season.ID("2025"))
	require.NoError(t, err)
	defer sub.Close()

	update := guest.DayUpdate{
		Season:    season.ID("2025"),
		Day:       season.Day("2025-07-04"),
		Used:      12,
		Cap:       25,
		Remaining: 13,
		Version:   7,
	}
	require.NoError(t, broker.PublishDayUpdate(ctx, update))

	ev := waitForEvent(t, sub.Events())
	assert.Equal(t, EventDay, ev.Type)
	assert.Equal(t, season.ID("2025"), ev.Season)
	assert.Equal(t, season.Day("2025-07-04"), ev.Day)
	assert.Equal(t, 12, ev.Used)
	assert.Equal(t, 13, ev.Remaining)
	assert.Equal(t, int64(7), ev.Ver)
}

func TestBrokerFiltersOtherSeasons(t *testing.T) {
	ctx := context.Background()
	broker := newTestBroker(t)

	sub, err := broker.Subscribe(ctx, season.ID("2026"))
	require.NoError(t, err)
	defer sub.Close()

	// 別シーズンのイベントは届かない
	require.NoError(t, broker.PublishDayUpdate(ctx, guest.DayUpdate{
		Season: season.ID("2025"),
		Day:    season.Day("2025-07-04"),
	}))
	// 自シーズンのイベントは届く
	require.NoError(t, broker.PublishSeasonCap(ctx, season.ID("2026"), 30))

	ev := waitForEvent(t, sub.Events())
	assert.Equal(t, EventSeasonCap, ev.Type)
	assert.Equal(t, season.ID("2026"), ev.Season)
	assert.Equal(t, 30, ev.Cap)
}

func TestBrokerCloseEndsStream(t *testing.T) {
	ctx := context.Background()
	broker := newTestBroker(t)

	sub, err := broker.Subscribe(ctx, season.ID("2025"))
	require.NoError(t, err)

	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("event channel was not closed")
	}
}
