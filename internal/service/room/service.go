package room

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/sharetube/roomsync/internal/domain"
	"github.com/sharetube/roomsync/internal/repository/connection"
	"github.com/sharetube/roomsync/internal/repository/events"
	"github.com/sharetube/roomsync/internal/repository/room"
	"github.com/sharetube/roomsync/pkg/linkmeta"
)

var (
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrNotInRoom            = errors.New("not in room")
	ErrInvalidJoin          = errors.New("room and username are required")
	ErrMembersLimitReached  = domain.ErrMembersLimitReached
	ErrPlaylistLimitReached = domain.ErrPlaylistLimitReached
	ErrNoActiveTrack        = domain.ErrNoActiveTrack
	ErrRoomNotFound         = room.ErrRoomNotFound
	ErrUnknownCommand       = errors.New("unknown command")
)

type iRoomRepo interface {
	AddMember(ctx context.Context, roomID string, member domain.Member, fn func(rm *domain.Room, created bool) error) error
	RemoveMember(ctx context.Context, roomID, memberID string, fn func(rm *domain.Room, departure room.Departure)) error
	Update(ctx context.Context, roomID string, fn func(rm *domain.Room) error) error
	Get(ctx context.Context, roomID string) (room.Stats, error)
	HasCapacity(ctx context.Context, roomID string) bool
	List(ctx context.Context) []room.Stats
	Count() int
}

type iConnRepo interface {
	Register(connID string, sender connection.Sender)
	Associate(connID, roomID, username string)
	Dissociate(connID string)
	Lookup(connID string) (connection.Connection, bool)
	Remove(connID string)
	Count() int
}

type iLinkResolver interface {
	Resolve(ctx context.Context, link string) (*linkmeta.Metadata, error)
}

type iEventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type service struct {
	roomRepo  iRoomRepo
	connRepo  iConnRepo
	resolver  iLinkResolver
	publisher iEventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, resolver iLinkResolver, publisher iEventPublisher, logger *slog.Logger) *service {
	return &service{
		roomRepo:  roomRepo,
		connRepo:  connRepo,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Connect makes a freshly opened connection addressable. It belongs to no
// room until it joins one.
func (s service) Connect(ctx context.Context, connID string, sender connection.Sender) {
	s.logger.DebugContext(ctx, "connection registered", "conn_id", connID)
	s.connRepo.Register(connID, sender)
}

// Disconnect leaves the current room, if any, and forgets the connection.
func (s service) Disconnect(ctx context.Context, connID string) {
	if err := s.leave(ctx, connID); err != nil {
		s.logger.InfoContext(ctx, "failed to leave room on disconnect", "conn_id", connID, "error", err)
	}

	s.connRepo.Remove(connID)
	s.logger.DebugContext(ctx, "connection removed", "conn_id", connID)
}

// Handle applies cmd on behalf of connID. Any returned error concerns the
// initiating connection only.
func (s service) Handle(ctx context.Context, connID string, cmd Command) error {
	switch cmd := cmd.(type) {
	case Join:
		return s.join(ctx, connID, cmd)
	case Leave:
		return s.leave(ctx, connID)
	case Signal:
		s.relay(ctx, connID, cmd)
		return nil
	case AddSong:
		return s.addSong(ctx, connID, cmd)
	case Play:
		return s.play(ctx, connID)
	case Pause:
		return s.pause(ctx, connID)
	case Next:
		return s.next(ctx, connID)
	case Seek:
		return s.seek(ctx, connID, cmd)
	case ScreenShare:
		return s.screenShare(ctx, connID, cmd)
	case Ping:
		s.send(ctx, connID, &Output{
			Type:    TypePong,
			Payload: Pong{ServerTimeMs: s.now().UnixMilli()},
		})
		return nil
	default:
		return ErrUnknownCommand
	}
}

func (s service) Stats(_ context.Context) Stats {
	return Stats{
		Rooms:       s.roomRepo.Count(),
		Connections: s.connRepo.Count(),
	}
}

func (s service) ListRooms(ctx context.Context) []room.Stats {
	return s.roomRepo.List(ctx)
}

func (s service) GetRoom(ctx context.Context, roomID string) (room.Stats, error) {
	return s.roomRepo.Get(ctx, roomID)
}

// memberRoom returns the room the connection is currently associated with.
func (s service) memberRoom(connID string) (string, error) {
	conn, ok := s.connRepo.Lookup(connID)
	if !ok {
		return "", ErrConnectionNotFound
	}

	if conn.RoomID == "" {
		return "", ErrNotInRoom
	}

	return conn.RoomID, nil
}

// send delivers out to one connection. Connections that are gone or whose
// buffer is full are skipped.
func (s service) send(ctx context.Context, connID string, out *Output) {
	conn, ok := s.connRepo.Lookup(connID)
	if !ok {
		s.logger.DebugContext(ctx, "dropping message for unknown connection", "conn_id", connID, "type", out.Type)
		return
	}

	if err := conn.Sender.Send(out); err != nil {
		s.logger.WarnContext(ctx, "failed to send message", "conn_id", connID, "type", out.Type, "error", err)
	}
}

// broadcast sends out to every member of rm except the listed ids. It must
// be called while the room is locked so every member sees the room's
// messages in mutation order.
func (s service) broadcast(ctx context.Context, rm *domain.Room, out *Output, except ...string) {
	for _, member := range rm.Members() {
		if slices.Contains(except, member.ID) {
			continue
		}

		s.send(ctx, member.ID, out)
	}
}

func (s service) publish(ctx context.Context, eventType events.Type, roomID string, member *domain.Member) {
	event := events.Event{
		Type:   eventType,
		RoomID: roomID,
		At:     s.now().UnixMilli(),
	}
	if member != nil {
		event.MemberID = member.ID
		event.Username = member.Username
	}

	s.publisher.Publish(ctx, event)
}
