package connection

// Sender delivers a message to the client behind a connection. Send must
// not block.
type Sender interface {
	Send(v any) error
}

type Connection struct {
	ID       string
	RoomID   string
	Username string
	Sender   Sender
}
