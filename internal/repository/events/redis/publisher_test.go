package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetube/roomsync/internal/repository/events"
)

func TestPublisher(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sub := rc.Subscribe(ctx, "room-events")
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p := NewPublisher(rc, "room-events", 8, slog.Default())
	go p.Run(ctx)

	p.Publish(ctx, events.Event{Type: events.MemberJoined, RoomID: "room", MemberID: "c1", Username: "alice", At: 42})

	select {
	case msg := <-sub.Channel():
		var got events.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, events.MemberJoined, got.Type)
		assert.Equal(t, "room", got.RoomID)
		assert.Equal(t, "c1", got.MemberID)
		assert.Equal(t, int64(42), got.At)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
	}
}

func TestPublishDropsWhenQueueIsFull(t *testing.T) {
	p := NewPublisher(nil, "room-events", 1, slog.Default())

	p.Publish(context.Background(), events.Event{Type: events.RoomCreated, RoomID: "a"})
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), events.Event{Type: events.RoomCreated, RoomID: "b"})
	})
	assert.Len(t, p.queue, 1)
}
