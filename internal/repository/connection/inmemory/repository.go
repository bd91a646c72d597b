package inmemory

import (
	"log/slog"
	"sync"

	"github.com/sharetube/roomsync/internal/repository/connection"
)

type repo struct {
	conns  map[string]connection.Connection
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		conns:  make(map[string]connection.Connection),
		logger: logger,
	}
}

func (r *repo) Register(connID string, sender connection.Sender) {
	funcName := "connection.inmemory.Register"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "conn_id", connID)
	r.conns[connID] = connection.Connection{
		ID:     connID,
		Sender: sender,
	}
}

// Associate overwrites any previous association. Unknown ids are ignored.
func (r *repo) Associate(connID, roomID, username string) {
	funcName := "connection.inmemory.Associate"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "conn_id", connID, "room_id", roomID, "username", username)
	conn, ok := r.conns[connID]
	if !ok {
		r.logger.Info(funcName, "error", "connection not registered", "conn_id", connID)
		return
	}

	conn.RoomID = roomID
	conn.Username = username
	r.conns[connID] = conn
}

func (r *repo) Dissociate(connID string) {
	funcName := "connection.inmemory.Dissociate"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "conn_id", connID)
	conn, ok := r.conns[connID]
	if !ok {
		return
	}

	conn.RoomID = ""
	conn.Username = ""
	r.conns[connID] = conn
}

func (r *repo) Lookup(connID string) (connection.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[connID]
	return conn, ok
}

func (r *repo) Remove(connID string) {
	funcName := "connection.inmemory.Remove"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "conn_id", connID)
	delete(r.conns, connID)
}

func (r *repo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}
