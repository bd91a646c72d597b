package omitnilpointers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOmitNilPointers(t *testing.T) {
	name := "alice"
	var nilName *string
	var nilRaw json.RawMessage

	got := OmitNilPointers(map[string]any{
		"name":        &name,
		"missing":     nilName,
		"description": json.RawMessage(`{"type":"offer"}`),
		"candidate":   nilRaw,
		"count":       0,
		"nothing":     nil,
	})

	assert.Equal(t, map[string]any{
		"name":        "alice",
		"description": json.RawMessage(`{"type":"offer"}`),
		"count":       0,
	}, got)
}
