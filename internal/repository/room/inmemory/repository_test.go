package inmemory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharetube/roomsync/internal/domain"
	"github.com/sharetube/roomsync/internal/repository/room"
)

func newRepo() *repo {
	return NewRepo(9, 25, slog.Default())
}

func TestAddMemberCreatesRoom(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	var created bool
	err := r.AddMember(ctx, "room", domain.Member{ID: "c1", Username: "alice"}, func(rm *domain.Room, c bool) error {
		created = c
		assert.True(t, rm.HasMember("c1"))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, created)

	err = r.AddMember(ctx, "room", domain.Member{ID: "c2", Username: "bob"}, func(rm *domain.Room, c bool) error {
		created = c
		assert.Equal(t, 2, rm.MembersCount())
		return nil
	})
	require.NoError(t, err)
	assert.False(t, created)

	s, err := r.Get(ctx, "room")
	require.NoError(t, err)
	assert.Equal(t, room.Stats{ID: "room", MembersCount: 2}, s)
}

func TestRoomIDsAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	nop := func(*domain.Room, bool) error { return nil }
	require.NoError(t, r.AddMember(ctx, "Room", domain.Member{ID: "c1"}, nop))
	require.NoError(t, r.AddMember(ctx, "room", domain.Member{ID: "c2"}, nop))
	assert.Equal(t, 2, r.Count())
}

func TestRemoveLastMemberDeletesRoom(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	require.NoError(t, r.AddMember(ctx, "room", domain.Member{ID: "c1"}, func(*domain.Room, bool) error { return nil }))
	require.NoError(t, r.Update(ctx, "room", func(rm *domain.Room) error {
		_, _, err := rm.AddSong(domain.Track{Title: "a"})
		return err
	}))

	var closed bool
	err := r.RemoveMember(ctx, "room", "c1", func(rm *domain.Room, d room.Departure) {
		closed = d.Closed
		assert.Equal(t, "c1", d.Member.ID)
	})
	require.NoError(t, err)
	assert.True(t, closed)

	_, err = r.Get(ctx, "room")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
	assert.ErrorIs(t, r.Update(ctx, "room", func(*domain.Room) error { return nil }), room.ErrRoomNotFound)

	// a new join starts from a fresh room
	require.NoError(t, r.AddMember(ctx, "room", domain.Member{ID: "c2"}, func(rm *domain.Room, created bool) error {
		assert.True(t, created)
		assert.Zero(t, rm.PlaylistLength())
		return nil
	}))
}

func TestRemoveUnknownMember(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	err := r.RemoveMember(ctx, "room", "c1", func(*domain.Room, room.Departure) {})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	require.NoError(t, r.AddMember(ctx, "room", domain.Member{ID: "c1"}, func(*domain.Room, bool) error { return nil }))
	err = r.RemoveMember(ctx, "room", "c2", func(*domain.Room, room.Departure) {})
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestFailedJoinDoesNotLeaveEmptyRoom(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	errBoom := errors.New("boom")
	err := r.GetOrCreate(ctx, "room", func(*domain.Room, bool) error { return errBoom })
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, r.Count())
}

func TestMembersLimit(t *testing.T) {
	ctx := context.Background()
	r := NewRepo(1, 25, slog.Default())

	nop := func(*domain.Room, bool) error { return nil }
	require.NoError(t, r.AddMember(ctx, "room", domain.Member{ID: "c1"}, nop))
	err := r.AddMember(ctx, "room", domain.Member{ID: "c2"}, nop)
	assert.ErrorIs(t, err, domain.ErrMembersLimitReached)
}

func TestHasCapacity(t *testing.T) {
	ctx := context.Background()
	r := NewRepo(1, 25, slog.Default())

	assert.True(t, r.HasCapacity(ctx, "room"), "missing rooms can be created")

	nop := func(*domain.Room, bool) error { return nil }
	require.NoError(t, r.AddMember(ctx, "room", domain.Member{ID: "c1"}, nop))
	assert.False(t, r.HasCapacity(ctx, "room"))

	require.NoError(t, r.RemoveMember(ctx, "room", "c1", func(*domain.Room, room.Departure) {}))
	assert.True(t, r.HasCapacity(ctx, "room"))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	nop := func(*domain.Room, bool) error { return nil }
	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, r.AddMember(ctx, id, domain.Member{ID: "conn-" + id}, nop))
	}

	list := r.List(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestConcurrentAdvanceNeverDoubleAdvances(t *testing.T) {
	ctx := context.Background()
	r := newRepo()
	now := time.UnixMilli(0)

	require.NoError(t, r.AddMember(ctx, "room", domain.Member{ID: "c1"}, func(rm *domain.Room, _ bool) error {
		for i := 0; i < 5; i++ {
			if _, _, err := rm.AddSong(domain.Track{Title: fmt.Sprint(i)}); err != nil {
				return err
			}
		}
		return nil
	}))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Update(ctx, "room", func(rm *domain.Room) error {
				track, _ := rm.AdvanceToNext(now)
				mu.Lock()
				ids = append(ids, track.ID)
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	counts := make(map[int]int)
	for _, id := range ids {
		counts[id]++
	}
	for id := 1; id <= 5; id++ {
		assert.Equal(t, 2, counts[id], "track %d", id)
	}
}

func TestConcurrentJoinLeaveKeepsStoreConsistent(t *testing.T) {
	ctx := context.Background()
	r := NewRepo(0, 0, slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			err := r.AddMember(ctx, "room", domain.Member{ID: id}, func(*domain.Room, bool) error { return nil })
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, r.RemoveMember(ctx, "room", id, func(*domain.Room, room.Departure) {}))
		}(i)
	}
	wg.Wait()

	assert.Zero(t, r.Count())
}
