package events

import "context"

type Type string

const (
	RoomCreated  Type = "room-created"
	RoomClosed   Type = "room-closed"
	MemberJoined Type = "member-joined"
	MemberLeft   Type = "member-left"
)

type Event struct {
	Type     Type   `json:"type"`
	RoomID   string `json:"room_id"`
	MemberID string `json:"member_id,omitempty"`
	Username string `json:"username,omitempty"`
	At       int64  `json:"at"`
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
