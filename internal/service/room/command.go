package room

import (
	"encoding/json"
	"time"

	"github.com/sharetube/roomsync/internal/domain"
)

// Command is one inbound operation. The set of implementations is closed:
// Join, Leave, Signal, AddSong, Play, Pause, Next, Seek, ScreenShare and
// Ping.
type Command interface {
	command()
}

// Join moves the connection into RoomID, leaving its current room first.
// UserID is an optional client-side identifier that is only echoed back.
type Join struct {
	RoomID   string
	Username string
	UserID   string
}

type Leave struct{}

// Signal carries exactly one of Description or Candidate. Both are relayed
// as opaque JSON.
type Signal struct {
	RoomID      string
	TargetID    string
	Description json.RawMessage
	Candidate   json.RawMessage
}

// AddSong appends a track. A link track without a title is resolved
// through the link metadata lookup first.
type AddSong struct {
	Title    string
	Artist   string
	Duration int64
	Source   domain.SourceKind
	Locator  string
}

type Play struct{}

type Pause struct{}

type Next struct{}

type Seek struct {
	Position time.Duration
}

// ScreenShare starts sharing when Active is set and stops it otherwise.
type ScreenShare struct {
	Active bool
}

// Ping asks for the server time, answered with a pong to the sender only.
type Ping struct{}

func (Join) command()        {}
func (Leave) command()       {}
func (Signal) command()      {}
func (AddSong) command()     {}
func (Play) command()        {}
func (Pause) command()       {}
func (Next) command()        {}
func (Seek) command()        {}
func (ScreenShare) command() {}
func (Ping) command()        {}
