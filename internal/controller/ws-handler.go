package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sharetube/roomsync/internal/domain"
	"github.com/sharetube/roomsync/internal/service/room"
	"github.com/sharetube/roomsync/pkg/ctxlogger"
	"github.com/sharetube/roomsync/pkg/validator"
)

var ErrValidationError = errors.New("validation error")

type validationError struct {
	errors []validator.ValidationError
}

func (e validationError) Error() string {
	return ErrValidationError.Error()
}

func (e validationError) Unwrap() error {
	return ErrValidationError
}

type errorPayload struct {
	Message string                      `json:"message"`
	Errors  []validator.ValidationError `json:"errors,omitempty"`
}

func (c controller) validateInput(input any) error {
	if errs, ok := c.validate.Validate(input); !ok {
		return validationError{errors: errs}
	}

	return nil
}

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	connID := uuid.NewString()
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("conn_id", connID))

	conn := newWSConn(connID, ws, c.cfg.SendBufferSize)
	c.roomService.Connect(ctx, connID, conn)
	go conn.writePump(ctx, c.logger, c.pingPeriod(), c.cfg.WriteWait)

	defer func() {
		c.roomService.Disconnect(ctx, connID)
		conn.close()
		c.logger.InfoContext(ctx, "websocket disconnected")
	}()

	c.logger.InfoContext(ctx, "websocket connected")

	ws.SetReadLimit(c.cfg.ReadLimit)
	ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.InfoContext(ctx, "websocket read error", "error", err)
			}
			return
		}

		if err := c.wsRouter.Dispatch(ctx, connID, data); err != nil {
			c.writeError(ctx, conn, err)
		}
	}
}

// writeError reports a failed request to the initiating connection only.
func (c controller) writeError(ctx context.Context, conn *wsConn, err error) {
	payload := errorPayload{Message: err.Error()}

	var vErr validationError
	if errors.As(err, &vErr) {
		payload.Errors = vErr.errors
	}

	if err := conn.Send(&room.Output{Type: "error", Payload: payload}); err != nil {
		c.logger.InfoContext(ctx, "failed to write error", "error", err)
	}
}

type EmptyInput struct{}

type JoinRoomInput struct {
	Room     string `json:"room" validate:"required,max=64"`
	Username string `json:"username" validate:"required,max=32"`
	UserID   string `json:"userId" validate:"max=64"`
}

func (c controller) handleJoinRoom(ctx context.Context, connID string, input JoinRoomInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	return c.roomService.Handle(ctx, connID, room.Join{
		RoomID:   input.Room,
		Username: input.Username,
		UserID:   input.UserID,
	})
}

// SignalInput is not validated: malformed signals are dropped by the relay.
type SignalInput struct {
	Room        string          `json:"room"`
	TargetUser  string          `json:"targetUser"`
	Description json.RawMessage `json:"description"`
	Candidate   json.RawMessage `json:"candidate"`
}

func (c controller) handleSignal(ctx context.Context, connID string, input SignalInput) error {
	return c.roomService.Handle(ctx, connID, room.Signal{
		RoomID:      input.Room,
		TargetID:    input.TargetUser,
		Description: input.Description,
		Candidate:   input.Candidate,
	})
}

type AddSongInput struct {
	Title    string `json:"title" validate:"max=256"`
	Artist   string `json:"artist" validate:"max=256"`
	Duration int64  `json:"duration" validate:"gte=0,lte=86400000"`
	Source   string `json:"source" validate:"required,oneof=upload stream link"`
	Locator  string `json:"locator" validate:"required,max=2048"`
}

func (c controller) handleAddSong(ctx context.Context, connID string, input AddSongInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	return c.roomService.Handle(ctx, connID, room.AddSong{
		Title:    input.Title,
		Artist:   input.Artist,
		Duration: input.Duration,
		Source:   domain.SourceKind(input.Source),
		Locator:  input.Locator,
	})
}

type SeekSongInput struct {
	Position int64 `json:"position" validate:"gte=0,lte=86400000"`
}

func (c controller) handleSeekSong(ctx context.Context, connID string, input SeekSongInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	return c.roomService.Handle(ctx, connID, room.Seek{
		Position: time.Duration(input.Position) * time.Millisecond,
	})
}

// handleCommand adapts payload-less messages.
func (c controller) handleCommand(cmd room.Command) func(context.Context, string, EmptyInput) error {
	return func(ctx context.Context, connID string, _ EmptyInput) error {
		return c.roomService.Handle(ctx, connID, cmd)
	}
}
