package controller

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	client, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("server side was not upgraded")
	}
	t.Cleanup(func() { server.Close() })

	return server, client
}

func TestWSConnBackpressure(t *testing.T) {
	server, client := wsPair(t)
	c := newWSConn("c1", server, 1)

	require.NoError(t, c.Send(map[string]string{"type": "first"}))
	assert.ErrorIs(t, c.Send(map[string]string{"type": "second"}), ErrBackpressure)
	assert.ErrorIs(t, c.Send(map[string]string{"type": "third"}), ErrConnClosed)

	// the slow consumer is disconnected
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err)
}

func TestWSConnWritePump(t *testing.T) {
	server, client := wsPair(t)
	c := newWSConn("c1", server, 4)
	go c.writePump(context.Background(), slog.Default(), time.Minute, time.Second)
	t.Cleanup(c.close)

	require.NoError(t, c.Send(map[string]string{"type": "hello"}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]string
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, "hello", msg["type"])
}
