package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharetube/roomsync/internal/service/room"
)

func (c controller) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

func (c controller) getStats(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, r, http.StatusOK, c.roomService.Stats(r.Context()))
}

func (c controller) getICEServers(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, r, http.StatusOK, map[string]any{
		"ice_servers": c.cfg.ICEServers,
	})
}

func (c controller) listRooms(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, r, http.StatusOK, map[string]any{
		"rooms": c.roomService.ListRooms(r.Context()),
	})
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "room-id")

	stats, err := c.roomService.GetRoom(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.writeJSON(w, r, http.StatusNotFound, errorPayload{Message: err.Error()})
			return
		}

		c.logger.ErrorContext(r.Context(), "failed to get room", "room_id", roomID, "error", err)
		c.writeJSON(w, r, http.StatusInternalServerError, errorPayload{Message: "internal error"})
		return
	}

	c.writeJSON(w, r, http.StatusOK, stats)
}
