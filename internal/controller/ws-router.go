package controller

import (
	"github.com/sharetube/roomsync/internal/service/room"
	"github.com/sharetube/roomsync/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())

	// presence
	wsrouter.Handle(mux, "join-room", c.handleJoinRoom)
	wsrouter.Handle(mux, "leave-room", c.handleCommand(room.Leave{}))
	wsrouter.Handle(mux, "ping", c.handleCommand(room.Ping{}))

	// signaling
	wsrouter.Handle(mux, "signal", c.handleSignal)
	wsrouter.Handle(mux, "start-screen-share", c.handleCommand(room.ScreenShare{Active: true}))
	wsrouter.Handle(mux, "stop-screen-share", c.handleCommand(room.ScreenShare{Active: false}))

	// playlist and transport
	wsrouter.Handle(mux, "add-song", c.handleAddSong)
	wsrouter.Handle(mux, "play-song", c.handleCommand(room.Play{}))
	wsrouter.Handle(mux, "pause-song", c.handleCommand(room.Pause{}))
	wsrouter.Handle(mux, "next-song", c.handleCommand(room.Next{}))
	wsrouter.Handle(mux, "seek-song", c.handleSeekSong)

	return mux
}
