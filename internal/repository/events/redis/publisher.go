package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/sharetube/roomsync/internal/repository/events"
)

// publisher forwards room lifecycle events to a redis channel from a single
// background goroutine. Publish never blocks: events are dropped when the
// queue is full.
type publisher struct {
	rc      *redis.Client
	channel string
	queue   chan events.Event
	logger  *slog.Logger
}

func NewPublisher(rc *redis.Client, channel string, bufferSize int, logger *slog.Logger) *publisher {
	return &publisher{
		rc:      rc,
		channel: channel,
		queue:   make(chan events.Event, bufferSize),
		logger:  logger,
	}
}

func (p *publisher) Publish(ctx context.Context, event events.Event) {
	select {
	case p.queue <- event:
	default:
		p.logger.WarnContext(ctx, "event queue is full, dropping event", "type", event.Type, "room_id", event.RoomID)
	}
}

// Run drains the queue until ctx is done.
func (p *publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-p.queue:
			if err := p.publish(ctx, event); err != nil {
				p.logger.WarnContext(ctx, "failed to publish event", "type", event.Type, "room_id", event.RoomID, "error", err)
			}
		}
	}
}

func (p *publisher) publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.rc.Publish(ctx, p.channel, data).Err()
}
