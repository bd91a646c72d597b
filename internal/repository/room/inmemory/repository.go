package inmemory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/sharetube/roomsync/internal/domain"
	"github.com/sharetube/roomsync/internal/repository/room"
)

// entry guards one room. A closed entry has been removed from the store and
// must not be mutated any more.
type entry struct {
	mu     sync.Mutex
	room   *domain.Room
	closed bool
}

type repo struct {
	rooms         map[string]*entry
	mu            sync.RWMutex
	membersLimit  int
	playlistLimit int
	logger        *slog.Logger
}

func NewRepo(membersLimit, playlistLimit int, logger *slog.Logger) *repo {
	return &repo{
		rooms:         make(map[string]*entry),
		membersLimit:  membersLimit,
		playlistLimit: playlistLimit,
		logger:        logger,
	}
}

func (r *repo) getOrCreateEntry(roomID string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.rooms[roomID]; ok {
		return e, false
	}

	e := &entry{room: domain.NewRoom(roomID, r.membersLimit, r.playlistLimit)}
	r.rooms[roomID] = e
	return e, true
}

func (r *repo) getEntry(roomID string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rooms[roomID]
	return e, ok
}

// reapIfEmpty must be called with e.mu held.
func (r *repo) reapIfEmpty(ctx context.Context, e *entry) bool {
	if !e.room.IsEmpty() {
		return false
	}

	e.closed = true

	r.mu.Lock()
	if r.rooms[e.room.ID()] == e {
		delete(r.rooms, e.room.ID())
	}
	r.mu.Unlock()

	r.logger.DebugContext(ctx, "room deleted", "room_id", e.room.ID())
	return true
}

// GetOrCreate runs fn against the room, creating it first when absent.
// A room left without members after fn returns is deleted.
func (r *repo) GetOrCreate(ctx context.Context, roomID string, fn func(rm *domain.Room, created bool) error) error {
	funcName := "room.inmemory.GetOrCreate"
	r.logger.DebugContext(ctx, funcName, "room_id", roomID)

	for {
		e, created := r.getOrCreateEntry(roomID)

		e.mu.Lock()
		if e.closed {
			// lost the race against the last member leaving
			e.mu.Unlock()
			continue
		}

		err := fn(e.room, created)
		r.reapIfEmpty(ctx, e)
		e.mu.Unlock()

		if created {
			r.logger.DebugContext(ctx, "room created", "room_id", roomID)
		}

		return err
	}
}

func (r *repo) AddMember(ctx context.Context, roomID string, member domain.Member, fn func(rm *domain.Room, created bool) error) error {
	return r.GetOrCreate(ctx, roomID, func(rm *domain.Room, created bool) error {
		if err := rm.AddMember(member); err != nil {
			return err
		}

		return fn(rm, created)
	})
}

// Update runs fn against an existing room. A room left without members
// after fn returns is deleted.
func (r *repo) Update(ctx context.Context, roomID string, fn func(rm *domain.Room) error) error {
	e, ok := r.getEntry(roomID)
	if !ok {
		return room.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return room.ErrRoomNotFound
	}

	err := fn(e.room)
	r.reapIfEmpty(ctx, e)
	return err
}

// RemoveMember calls fn after the member has been removed. A room left
// without members is deleted once fn returns.
func (r *repo) RemoveMember(ctx context.Context, roomID, memberID string, fn func(rm *domain.Room, departure room.Departure)) error {
	return r.Update(ctx, roomID, func(rm *domain.Room) error {
		removed, stoppedSharing, err := rm.RemoveMember(memberID)
		if err != nil {
			return err
		}

		fn(rm, room.Departure{
			Member:         removed,
			StoppedSharing: stoppedSharing,
			Closed:         rm.IsEmpty(),
		})
		return nil
	})
}

func (r *repo) Get(_ context.Context, roomID string) (room.Stats, error) {
	e, ok := r.getEntry(roomID)
	if !ok {
		return room.Stats{}, room.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return room.Stats{}, room.ErrRoomNotFound
	}

	return stats(e.room), nil
}

// HasCapacity reports whether roomID could take one more member right now.
// A room that does not exist yet always can.
func (r *repo) HasCapacity(_ context.Context, roomID string) bool {
	e, ok := r.getEntry(roomID)
	if !ok {
		return true
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closed || !e.room.IsFull()
}

func (r *repo) List(ctx context.Context) []room.Stats {
	r.mu.RLock()
	ids := maps.Keys(r.rooms)
	r.mu.RUnlock()

	sort.Strings(ids)

	list := make([]room.Stats, 0, len(ids))
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		list = append(list, s)
	}

	return list
}

func (r *repo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

func stats(rm *domain.Room) room.Stats {
	return room.Stats{
		ID:             rm.ID(),
		MembersCount:   rm.MembersCount(),
		PlaylistLength: rm.PlaylistLength(),
		Running:        rm.Running(),
	}
}
