package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"

	"github.com/sharetube/roomsync/internal/repository/connection"
	roomRepo "github.com/sharetube/roomsync/internal/repository/room"
	"github.com/sharetube/roomsync/internal/service/room"
	"github.com/sharetube/roomsync/pkg/validator"
	"github.com/sharetube/roomsync/pkg/wsrouter"
)

type iRoomService interface {
	Connect(ctx context.Context, connID string, sender connection.Sender)
	Disconnect(ctx context.Context, connID string)
	Handle(ctx context.Context, connID string, cmd room.Command) error
	Stats(ctx context.Context) room.Stats
	ListRooms(ctx context.Context) []roomRepo.Stats
	GetRoom(ctx context.Context, roomID string) (roomRepo.Stats, error)
}

type Config struct {
	ICEServers     []webrtc.ICEServer
	SendBufferSize int
	ReadLimit      int64
	PongWait       time.Duration
	WriteWait      time.Duration
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsRouter    *wsrouter.WSRouter
	logger      *slog.Logger
	cfg         Config
}

func NewController(roomService iRoomService, logger *slog.Logger, cfg Config) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.NewValidator(),
		logger:      logger,
		cfg:         cfg,
	}
	c.wsRouter = c.getWSRouter()

	return c
}

func (c controller) pingPeriod() time.Duration {
	return (c.cfg.PongWait * 9) / 10
}
