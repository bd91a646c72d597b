package wsrouter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetInput struct {
	Name string `json:"name"`
}

func TestDispatch(t *testing.T) {
	r := New()

	var (
		gotConn string
		gotName string
		gotType string
		order   []string
	)

	r.Use(
		func(next HandlerFunc[json.RawMessage]) HandlerFunc[json.RawMessage] {
			return func(ctx context.Context, connID string, payload json.RawMessage) error {
				order = append(order, "outer")
				return next(ctx, connID, payload)
			}
		},
		func(next HandlerFunc[json.RawMessage]) HandlerFunc[json.RawMessage] {
			return func(ctx context.Context, connID string, payload json.RawMessage) error {
				order = append(order, "inner")
				return next(ctx, connID, payload)
			}
		},
	)

	Handle(r, "greet", func(ctx context.Context, connID string, in greetInput) error {
		gotConn = connID
		gotName = in.Name
		gotType = GetMessageTypeFromCtx(ctx)
		return nil
	})

	err := r.Dispatch(context.Background(), "c1", []byte(`{"type":"greet","payload":{"name":"alice"}}`))
	require.NoError(t, err)
	assert.Equal(t, "c1", gotConn)
	assert.Equal(t, "alice", gotName)
	assert.Equal(t, "greet", gotType)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestDispatchWithoutPayload(t *testing.T) {
	r := New()
	called := false
	Handle(r, "ping", func(context.Context, string, struct{}) error {
		called = true
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), "c1", []byte(`{"type":"ping"}`)))
	assert.True(t, called)
}

func TestDispatchErrors(t *testing.T) {
	r := New()
	Handle(r, "greet", func(context.Context, string, greetInput) error { return nil })

	tests := []struct {
		name string
		data string
		err  error
	}{
		{"not json", `hello`, ErrInvalidMessage},
		{"unknown type", `{"type":"shout"}`, ErrUnknownMessageType},
		{"payload of wrong shape", `{"type":"greet","payload":{"name":1}}`, ErrInvalidMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.Dispatch(context.Background(), "c1", []byte(tt.data)), tt.err)
		})
	}
}

func TestGetMessageTypeFromEmptyCtx(t *testing.T) {
	assert.Empty(t, GetMessageTypeFromCtx(context.Background()))
}
