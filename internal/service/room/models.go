package room

import (
	"github.com/sharetube/roomsync/internal/domain"
)

const (
	TypeRoomState          = "room-state"
	TypeUserJoined         = "user-joined"
	TypeUserLeft           = "user-left"
	TypeSignal             = "signal"
	TypeSongAdded          = "song-added"
	TypeSongPlaying        = "song-playing"
	TypeSongPaused         = "song-paused"
	TypeScreenShareStarted = "screen-share-started"
	TypeScreenShareStopped = "screen-share-stopped"
	TypePong               = "pong"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// RoomState is the full snapshot sent to a member right after it joins.
type RoomState struct {
	RoomID       string          `json:"room"`
	SelfID       string          `json:"selfId"`
	Members      []domain.Member `json:"members"`
	Playlist     []domain.Track  `json:"playlist"`
	CurrentSong  *domain.Track   `json:"current_song"`
	Running      bool            `json:"running"`
	PositionMs   int64           `json:"position_ms"`
	ServerTimeMs int64           `json:"server_time_ms"`
	ScreenSharer *string         `json:"screen_sharer"`
}

// Presence describes the member that joined or left together with the
// resulting member list.
type Presence struct {
	domain.Member
	Members []domain.Member `json:"members"`
}

type SongAdded struct {
	Song     domain.Track   `json:"song"`
	Playlist []domain.Track `json:"playlist"`
	AddedBy  string         `json:"addedBy"`
}

// Transport is the clock state after a play, pause, next or seek.
// Clients derive their local position as
// PositionMs + (clientNow - ServerTimeMs) while Running.
type Transport struct {
	Song         domain.Track `json:"song"`
	PositionMs   int64        `json:"position_ms"`
	Running      bool         `json:"running"`
	ServerTimeMs int64        `json:"server_time_ms"`
}

type ScreenShareState struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type Pong struct {
	ServerTimeMs int64 `json:"server_time_ms"`
}

type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}
