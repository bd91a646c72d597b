package room

import (
	"context"
	"fmt"
	"time"

	"github.com/sharetube/roomsync/internal/domain"
)

// play, pause and next broadcast nothing when the clock did not change.

func (s service) play(ctx context.Context, connID string) error {
	return s.updateTransport(ctx, connID, "play", func(rm *domain.Room, now time.Time) (domain.Track, bool, error) {
		track, ok := rm.Play(now)
		return track, ok, nil
	})
}

func (s service) pause(ctx context.Context, connID string) error {
	return s.updateTransport(ctx, connID, "pause", func(rm *domain.Room, now time.Time) (domain.Track, bool, error) {
		track, ok := rm.Pause(now)
		return track, ok, nil
	})
}

func (s service) next(ctx context.Context, connID string) error {
	return s.updateTransport(ctx, connID, "advance", func(rm *domain.Room, now time.Time) (domain.Track, bool, error) {
		track, ok := rm.AdvanceToNext(now)
		return track, ok, nil
	})
}

func (s service) seek(ctx context.Context, connID string, cmd Seek) error {
	return s.updateTransport(ctx, connID, "seek", func(rm *domain.Room, now time.Time) (domain.Track, bool, error) {
		track, err := rm.Seek(now, cmd.Position)
		if err != nil {
			return domain.Track{}, false, err
		}
		return track, true, nil
	})
}

func (s service) updateTransport(
	ctx context.Context,
	connID string,
	action string,
	apply func(rm *domain.Room, now time.Time) (domain.Track, bool, error),
) error {
	roomID, err := s.memberRoom(connID)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	if err := s.roomRepo.Update(ctx, roomID, func(rm *domain.Room) error {
		if !rm.HasMember(connID) {
			return ErrNotInRoom
		}

		now := s.now()
		track, changed, err := apply(rm, now)
		if err != nil {
			return err
		}
		if !changed {
			s.logger.DebugContext(ctx, "transport unchanged", "room_id", roomID, "action", action)
			return nil
		}

		s.broadcast(ctx, rm, transportOutput(rm, track, now))
		return nil
	}); err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	return nil
}

func transportOutput(rm *domain.Room, track domain.Track, now time.Time) *Output {
	outputType := TypeSongPaused
	if rm.Running() {
		outputType = TypeSongPlaying
	}

	return &Output{
		Type: outputType,
		Payload: Transport{
			Song:         track,
			PositionMs:   rm.Position(now).Milliseconds(),
			Running:      rm.Running(),
			ServerTimeMs: now.UnixMilli(),
		},
	}
}
