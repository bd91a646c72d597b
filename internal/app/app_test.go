package app

import (
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
)

func validConfig() AppConfig {
	return AppConfig{
		Host:             "0.0.0.0",
		Port:             8080,
		LogLevel:         "info",
		MembersLimit:     9,
		PlaylistLimit:    25,
		SendBufferSize:   64,
		ReadLimit:        64 * 1024,
		PongWait:         time.Minute,
		WriteWait:        10 * time.Second,
		ICEServers:       []string{"stun:stun.l.google.com:19302"},
		MetadataEndpoint: "https://www.youtube.com/oembed",
		MetadataTimeout:  5 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"bad port", func(cfg *AppConfig) { cfg.Port = 0 }, true},
		{"bad log level", func(cfg *AppConfig) { cfg.LogLevel = "loud" }, true},
		{"zero members limit", func(cfg *AppConfig) { cfg.MembersLimit = 0 }, true},
		{"zero playlist limit", func(cfg *AppConfig) { cfg.PlaylistLimit = 0 }, true},
		{"zero send buffer", func(cfg *AppConfig) { cfg.SendBufferSize = 0 }, true},
		{"zero read limit", func(cfg *AppConfig) { cfg.ReadLimit = 0 }, true},
		{"short pong wait", func(cfg *AppConfig) { cfg.PongWait = time.Millisecond }, true},
		{"zero write wait", func(cfg *AppConfig) { cfg.WriteWait = 0 }, true},
		{"missing metadata endpoint", func(cfg *AppConfig) { cfg.MetadataEndpoint = "" }, true},
		{"bad ice server", func(cfg *AppConfig) { cfg.ICEServers = []string{"http://example.com"} }, true},
		{"redis without channel", func(cfg *AppConfig) {
			cfg.RedisHost = "localhost"
			cfg.EventsBufferSize = 10
		}, true},
		{"redis enabled", func(cfg *AppConfig) {
			cfg.RedisHost = "localhost"
			cfg.RedisChannel = "room-events"
			cfg.EventsBufferSize = 10
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestICEServers(t *testing.T) {
	cfg := validConfig()
	cfg.ICEServers = []string{
		"stun:stun1.example.com:3478",
		"turn:turn.example.com:3478?transport=udp",
		"stun:stun2.example.com:3478",
	}
	cfg.ICEUsername = "user"
	cfg.ICECredential = "secret"

	assert.Equal(t, []webrtc.ICEServer{
		{URLs: []string{"stun:stun1.example.com:3478", "stun:stun2.example.com:3478"}},
		{URLs: []string{"turn:turn.example.com:3478?transport=udp"}, Username: "user", Credential: "secret"},
	}, cfg.iceServers())
}
