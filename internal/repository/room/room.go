package room

import (
	"errors"

	"github.com/sharetube/roomsync/internal/domain"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// Stats is a point-in-time summary of a room.
type Stats struct {
	ID             string `json:"id"`
	MembersCount   int    `json:"members_count"`
	PlaylistLength int    `json:"playlist_length"`
	Running        bool   `json:"running"`
}

// Departure describes a member that has just been removed from a room.
type Departure struct {
	Member         domain.Member
	StoppedSharing bool
	// Closed is set when the room had no members left and is deleted.
	Closed bool
}
