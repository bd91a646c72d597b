package domain

import (
	"errors"
	"time"
)

var ErrNoActiveTrack = errors.New("no active track")

const noTrack = -1

type Room struct {
	id           string
	members      *Members
	playlist     *Playlist
	active       int
	clock        Clock
	screenSharer string
}

func NewRoom(id string, membersLimit, playlistLimit int) *Room {
	return &Room{
		id:       id,
		members:  NewMembers(membersLimit),
		playlist: NewPlaylist(playlistLimit),
		active:   noTrack,
	}
}

func (r Room) ID() string {
	return r.id
}

func (r Room) Members() []Member {
	return r.members.AsList()
}

func (r Room) MembersCount() int {
	return r.members.Length()
}

func (r Room) IsEmpty() bool {
	return r.members.Length() == 0
}

func (r Room) IsFull() bool {
	return r.members.IsFull()
}

func (r Room) HasMember(id string) bool {
	_, _, err := r.members.GetByID(id)
	return err == nil
}

func (r Room) Member(id string) (Member, error) {
	member, _, err := r.members.GetByID(id)
	return member, err
}

func (r *Room) AddMember(member Member) error {
	return r.members.Add(member)
}

func (r *Room) UpdateMember(member Member) (bool, error) {
	return r.members.Update(member)
}

// RemoveMember also clears the screen sharer when it was the removed
// member and reports whether that happened.
func (r *Room) RemoveMember(id string) (Member, bool, error) {
	member, err := r.members.RemoveByID(id)
	if err != nil {
		return Member{}, false, err
	}

	return member, r.ClearScreenSharer(id), nil
}

func (r Room) Playlist() []Track {
	return r.playlist.AsList()
}

func (r Room) PlaylistLength() int {
	return r.playlist.Length()
}

// AddSong appends the track and returns it with its assigned id together
// with the up-to-date playlist.
func (r *Room) AddSong(track Track) (Track, []Track, error) {
	added, err := r.playlist.Add(track)
	if err != nil {
		return Track{}, nil, err
	}

	return added, r.playlist.AsList(), nil
}

func (r Room) ActiveTrack() (Track, bool) {
	return r.playlist.At(r.active)
}

func (r Room) Running() bool {
	return r.clock.Running()
}

func (r Room) Position(now time.Time) time.Duration {
	return r.clock.Position(now)
}

// AdvanceToNext wraps around the playlist and always leaves the clock
// running from zero. It reports false and mutates nothing when the
// playlist is empty.
func (r *Room) AdvanceToNext(now time.Time) (Track, bool) {
	length := r.playlist.Length()
	if length == 0 {
		return Track{}, false
	}

	r.active = (r.active + 1) % length
	r.clock.Restart(now)

	track, _ := r.playlist.At(r.active)
	return track, true
}

// Play resumes the active track or starts the first one when nothing is
// active. It reports false when nothing changed.
func (r *Room) Play(now time.Time) (Track, bool) {
	if r.clock.Running() {
		return Track{}, false
	}

	track, ok := r.ActiveTrack()
	if !ok {
		return r.AdvanceToNext(now)
	}

	r.clock.Resume(now)
	return track, true
}

func (r *Room) Pause(now time.Time) (Track, bool) {
	if !r.clock.Pause(now) {
		return Track{}, false
	}

	track, _ := r.ActiveTrack()
	return track, true
}

// Seek clamps position to the duration of the active track when it is known.
func (r *Room) Seek(now time.Time, position time.Duration) (Track, error) {
	track, ok := r.ActiveTrack()
	if !ok {
		return Track{}, ErrNoActiveTrack
	}

	if position < 0 {
		position = 0
	}
	if limit := track.Length(); limit > 0 && position > limit {
		position = limit
	}

	r.clock.Seek(now, position)
	return track, nil
}

func (r Room) ScreenSharer() string {
	return r.screenSharer
}

func (r *Room) SetScreenSharer(id string) error {
	if !r.HasMember(id) {
		return ErrMemberNotFound
	}

	r.screenSharer = id
	return nil
}

// ClearScreenSharer reports false when id was not sharing.
func (r *Room) ClearScreenSharer(id string) bool {
	if r.screenSharer == "" || r.screenSharer != id {
		return false
	}

	r.screenSharer = ""
	return true
}
