package domain

import (
	"errors"
)

var ErrPlaylistLimitReached = errors.New("playlist limit reached")

// Playlist is append-only. A limit of 0 disables the length check.
type Playlist struct {
	list   []Track
	lastID int
	limit  int
}

func NewPlaylist(limit int) *Playlist {
	return &Playlist{
		list:  make([]Track, 0),
		limit: limit,
	}
}

func (p Playlist) AsList() []Track {
	list := make([]Track, len(p.list))
	copy(list, p.list)
	return list
}

func (p Playlist) Length() int {
	return len(p.list)
}

func (p Playlist) At(index int) (Track, bool) {
	if index < 0 || index >= len(p.list) {
		return Track{}, false
	}

	return p.list[index], true
}

func (p *Playlist) Add(track Track) (Track, error) {
	if p.limit > 0 && p.Length() >= p.limit {
		return Track{}, ErrPlaylistLimitReached
	}

	p.lastID++
	track.ID = p.lastID
	p.list = append(p.list, track)

	return track, nil
}
