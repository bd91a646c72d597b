package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/sharetube/roomsync/internal/controller"
	"github.com/sharetube/roomsync/internal/repository/connection/inmemory"
	"github.com/sharetube/roomsync/internal/repository/events"
	eventsRedis "github.com/sharetube/roomsync/internal/repository/events/redis"
	roomInmemory "github.com/sharetube/roomsync/internal/repository/room/inmemory"
	"github.com/sharetube/roomsync/internal/service/room"
	"github.com/sharetube/roomsync/pkg/ctxlogger"
	"github.com/sharetube/roomsync/pkg/linkmeta"
	"github.com/sharetube/roomsync/pkg/redisclient"
)

type AppConfig struct {
	Host             string        `json:"host"`
	Port             int           `json:"port"`
	LogLevel         string        `json:"log_level"`
	MembersLimit     int           `json:"members_limit"`
	PlaylistLimit    int           `json:"playlist_limit"`
	SendBufferSize   int           `json:"send_buffer_size"`
	ReadLimit        int64         `json:"read_limit"`
	PongWait         time.Duration `json:"pong_wait"`
	WriteWait        time.Duration `json:"write_wait"`
	ICEServers       []string      `json:"ice_servers"`
	ICEUsername      string        `json:"-"`
	ICECredential    string        `json:"-"`
	MetadataEndpoint string        `json:"metadata_endpoint"`
	MetadataTimeout  time.Duration `json:"metadata_timeout"`
	RedisHost        string        `json:"redis_host"`
	RedisPort        int           `json:"redis_port"`
	RedisPassword    string        `json:"-"`
	RedisChannel     string        `json:"redis_channel"`
	EventsBufferSize int           `json:"events_buffer_size"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.PlaylistLimit < 1 {
		return fmt.Errorf("playlist limit must be greater than 0")
	}
	if cfg.SendBufferSize < 1 {
		return fmt.Errorf("send buffer size must be greater than 0")
	}
	if cfg.ReadLimit < 1 {
		return fmt.Errorf("read limit must be greater than 0")
	}
	if cfg.PongWait < time.Second {
		return fmt.Errorf("pong wait must be at least 1s")
	}
	if cfg.WriteWait <= 0 {
		return fmt.Errorf("write wait must be greater than 0")
	}
	if cfg.MetadataEndpoint == "" {
		return fmt.Errorf("metadata endpoint is required")
	}
	if cfg.RedisHost != "" {
		if cfg.RedisChannel == "" {
			return fmt.Errorf("redis channel is required when redis is enabled")
		}
		if cfg.EventsBufferSize < 1 {
			return fmt.Errorf("events buffer size must be greater than 0")
		}
	}
	for _, url := range cfg.ICEServers {
		if !strings.HasPrefix(url, "stun:") && !strings.HasPrefix(url, "turn:") && !strings.HasPrefix(url, "turns:") {
			return fmt.Errorf("invalid ice server url: %s", url)
		}
	}
	return nil
}

// iceServers groups stun urls into one entry and gives every turn url the
// configured credentials.
func (cfg *AppConfig) iceServers() []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(cfg.ICEServers))

	var stun []string
	for _, url := range cfg.ICEServers {
		if strings.HasPrefix(url, "stun:") {
			stun = append(stun, url)
			continue
		}

		servers = append(servers, webrtc.ICEServer{
			URLs:       []string{url},
			Username:   cfg.ICEUsername,
			Credential: cfg.ICECredential,
		})
	}
	if len(stun) > 0 {
		servers = append([]webrtc.ICEServer{{URLs: stun}}, servers...)
	}

	return servers
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	serverCtx, serverStopCtx := context.WithCancel(ctx)
	defer serverStopCtx()

	var publisher interface {
		Publish(context.Context, events.Event)
	} = events.Nop{}
	if cfg.RedisHost != "" {
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Port:     cfg.RedisPort,
			Host:     cfg.RedisHost,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		p := eventsRedis.NewPublisher(rc, cfg.RedisChannel, cfg.EventsBufferSize, logger)
		go p.Run(serverCtx)
		publisher = p
	}

	roomRepo := roomInmemory.NewRepo(cfg.MembersLimit, cfg.PlaylistLimit, logger)
	connectionRepo := inmemory.NewRepo(logger)
	resolver := linkmeta.NewClient(cfg.MetadataEndpoint, cfg.MetadataTimeout)
	roomService := room.NewService(roomRepo, connectionRepo, resolver, publisher, logger)
	controller := controller.NewController(roomService, logger, controller.Config{
		ICEServers:     cfg.iceServers(),
		SendBufferSize: cfg.SendBufferSize,
		ReadLimit:      cfg.ReadLimit,
		PongWait:       cfg.PongWait,
		WriteWait:      cfg.WriteWait,
	})
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		select {
		case <-sig:
		case <-serverCtx.Done():
		}

		shutdownCtx, c := context.WithTimeout(context.Background(), 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down server", "error", err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-serverCtx.Done()

	return nil
}
