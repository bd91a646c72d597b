package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharetube/roomsync/internal/domain"
	"github.com/sharetube/roomsync/internal/repository/events"
	"github.com/sharetube/roomsync/internal/repository/room"
)

// join enforces one room per connection: a connection already in another
// room leaves it before joining the new one. A target room that is already
// full is refused up front and the connection stays where it is. If the
// target fills up between that check and the join, the connection ends up
// in no room.
func (s service) join(ctx context.Context, connID string, cmd Join) error {
	if cmd.RoomID == "" || cmd.Username == "" {
		return ErrInvalidJoin
	}

	conn, ok := s.connRepo.Lookup(connID)
	if !ok {
		return ErrConnectionNotFound
	}

	member := domain.Member{
		ID:       connID,
		Username: cmd.Username,
		UserID:   cmd.UserID,
	}

	if conn.RoomID == cmd.RoomID {
		err := s.rejoin(ctx, member, cmd.RoomID)
		if !errors.Is(err, ErrRoomNotFound) && !errors.Is(err, domain.ErrMemberNotFound) {
			return err
		}
		// the association was stale, join from scratch
		s.connRepo.Dissociate(connID)
	} else if conn.RoomID != "" {
		if !s.roomRepo.HasCapacity(ctx, cmd.RoomID) {
			return fmt.Errorf("failed to join room: %w", ErrMembersLimitReached)
		}
		if err := s.leave(ctx, connID); err != nil {
			return fmt.Errorf("failed to leave previous room: %w", err)
		}
	}

	if err := s.roomRepo.AddMember(ctx, cmd.RoomID, member, func(rm *domain.Room, created bool) error {
		s.connRepo.Associate(connID, rm.ID(), member.Username)

		if created {
			s.publish(ctx, events.RoomCreated, rm.ID(), nil)
		}
		s.publish(ctx, events.MemberJoined, rm.ID(), &member)

		s.broadcast(ctx, rm, &Output{
			Type: TypeUserJoined,
			Payload: Presence{
				Member:  member,
				Members: rm.Members(),
			},
		}, connID)
		s.send(ctx, connID, s.roomState(rm, connID))

		return nil
	}); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	s.logger.InfoContext(ctx, "member joined room", "conn_id", connID, "room_id", cmd.RoomID)
	return nil
}

// rejoin updates the member in place. Other members hear about it only when
// the display name changed.
func (s service) rejoin(ctx context.Context, member domain.Member, roomID string) error {
	return s.roomRepo.Update(ctx, roomID, func(rm *domain.Room) error {
		changed, err := rm.UpdateMember(member)
		if err != nil {
			return err
		}

		s.connRepo.Associate(member.ID, roomID, member.Username)

		if changed {
			s.broadcast(ctx, rm, &Output{
				Type: TypeUserJoined,
				Payload: Presence{
					Member:  member,
					Members: rm.Members(),
				},
			}, member.ID)
		}
		s.send(ctx, member.ID, s.roomState(rm, member.ID))

		return nil
	})
}

// leave is a no-op for a connection that is not in a room.
func (s service) leave(ctx context.Context, connID string) error {
	roomID, err := s.memberRoom(connID)
	if err != nil {
		if errors.Is(err, ErrNotInRoom) {
			return nil
		}
		return err
	}

	err = s.roomRepo.RemoveMember(ctx, roomID, connID, func(rm *domain.Room, departure room.Departure) {
		s.connRepo.Dissociate(connID)
		s.publish(ctx, events.MemberLeft, roomID, &departure.Member)

		if departure.Closed {
			s.publish(ctx, events.RoomClosed, roomID, nil)
			return
		}

		if departure.StoppedSharing {
			s.broadcast(ctx, rm, &Output{
				Type: TypeScreenShareStopped,
				Payload: ScreenShareState{
					UserID:   departure.Member.ID,
					Username: departure.Member.Username,
				},
			})
		}

		s.broadcast(ctx, rm, &Output{
			Type: TypeUserLeft,
			Payload: Presence{
				Member:  departure.Member,
				Members: rm.Members(),
			},
		})
	})
	if err != nil {
		s.connRepo.Dissociate(connID)
		if errors.Is(err, ErrRoomNotFound) || errors.Is(err, domain.ErrMemberNotFound) {
			return nil
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.logger.InfoContext(ctx, "member left room", "conn_id", connID, "room_id", roomID)
	return nil
}

func (s service) roomState(rm *domain.Room, selfID string) *Output {
	now := s.now()

	state := RoomState{
		RoomID:       rm.ID(),
		SelfID:       selfID,
		Members:      rm.Members(),
		Playlist:     rm.Playlist(),
		Running:      rm.Running(),
		PositionMs:   rm.Position(now).Milliseconds(),
		ServerTimeMs: now.UnixMilli(),
	}
	if track, ok := rm.ActiveTrack(); ok {
		state.CurrentSong = &track
	}
	if sharer := rm.ScreenSharer(); sharer != "" {
		state.ScreenSharer = &sharer
	}

	return &Output{
		Type:    TypeRoomState,
		Payload: state,
	}
}
