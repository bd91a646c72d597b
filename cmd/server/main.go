package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/roomsync/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
		usage:        "Server port",
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	membersLimit = configVar[int]{
		envKey:       "SERVER_MEMBERS_LIMIT",
		flagKey:      "members-limit",
		defaultValue: 9,
		usage:        "Maximum number of members in the room",
	}
	playlistLimit = configVar[int]{
		envKey:       "SERVER_PLAYLIST_LIMIT",
		flagKey:      "playlist-limit",
		defaultValue: 100,
		usage:        "Maximum number of songs in the playlist",
	}
	sendBuffer = configVar[int]{
		envKey:       "SERVER_SEND_BUFFER",
		flagKey:      "send-buffer",
		defaultValue: 256,
		usage:        "Outbound messages buffered per connection before it is dropped",
	}
	readLimit = configVar[int64]{
		envKey:       "SERVER_READ_LIMIT",
		flagKey:      "read-limit",
		defaultValue: 64 * 1024,
		usage:        "Maximum size in bytes of an inbound websocket message",
	}
	pongWait = configVar[time.Duration]{
		envKey:       "SERVER_PONG_WAIT",
		flagKey:      "pong-wait",
		defaultValue: 60 * time.Second,
		usage:        "Time allowed to read the next pong from a client",
	}
	writeWait = configVar[time.Duration]{
		envKey:       "SERVER_WRITE_WAIT",
		flagKey:      "write-wait",
		defaultValue: 10 * time.Second,
		usage:        "Time allowed to write a message to a client",
	}
	iceServers = configVar[[]string]{
		envKey:       "ICE_SERVERS",
		flagKey:      "ice-servers",
		defaultValue: []string{"stun:stun.l.google.com:19302"},
		usage:        "STUN/TURN server urls handed out to clients",
	}
	iceUsername = configVar[string]{
		envKey:       "ICE_USERNAME",
		flagKey:      "ice-username",
		defaultValue: "",
		usage:        "TURN username",
	}
	iceCredential = configVar[string]{
		envKey:       "ICE_CREDENTIAL",
		flagKey:      "ice-credential",
		defaultValue: "",
		usage:        "TURN credential",
	}
	metadataEndpoint = configVar[string]{
		envKey:       "METADATA_ENDPOINT",
		flagKey:      "metadata-endpoint",
		defaultValue: "https://www.youtube.com/oembed",
		usage:        "oEmbed endpoint used to resolve link titles",
	}
	metadataTimeout = configVar[time.Duration]{
		envKey:       "METADATA_TIMEOUT",
		flagKey:      "metadata-timeout",
		defaultValue: 5 * time.Second,
		usage:        "Timeout of a link metadata lookup",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "",
		usage:        "Redis host, room events are not published when empty",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
	redisChannel = configVar[string]{
		envKey:       "REDIS_CHANNEL",
		flagKey:      "redis-channel",
		defaultValue: "roomsync:events",
		usage:        "Redis channel room events are published to",
	}
	eventsBuffer = configVar[int]{
		envKey:       "EVENTS_BUFFER",
		flagKey:      "events-buffer",
		defaultValue: 1024,
		usage:        "Room events buffered before new ones are dropped",
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	pflag.Int(port.flagKey, port.defaultValue, port.usage)
	pflag.String(host.flagKey, host.defaultValue, host.usage)
	pflag.String(logLevel.flagKey, logLevel.defaultValue, logLevel.usage)
	pflag.Int(membersLimit.flagKey, membersLimit.defaultValue, membersLimit.usage)
	pflag.Int(playlistLimit.flagKey, playlistLimit.defaultValue, playlistLimit.usage)
	pflag.Int(sendBuffer.flagKey, sendBuffer.defaultValue, sendBuffer.usage)
	pflag.Int64(readLimit.flagKey, readLimit.defaultValue, readLimit.usage)
	pflag.Duration(pongWait.flagKey, pongWait.defaultValue, pongWait.usage)
	pflag.Duration(writeWait.flagKey, writeWait.defaultValue, writeWait.usage)
	pflag.StringSlice(iceServers.flagKey, iceServers.defaultValue, iceServers.usage)
	pflag.String(iceUsername.flagKey, iceUsername.defaultValue, iceUsername.usage)
	pflag.String(iceCredential.flagKey, iceCredential.defaultValue, iceCredential.usage)
	pflag.String(metadataEndpoint.flagKey, metadataEndpoint.defaultValue, metadataEndpoint.usage)
	pflag.Duration(metadataTimeout.flagKey, metadataTimeout.defaultValue, metadataTimeout.usage)
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, redisPort.usage)
	pflag.String(redisHost.flagKey, redisHost.defaultValue, redisHost.usage)
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, redisPassword.usage)
	pflag.String(redisChannel.flagKey, redisChannel.defaultValue, redisChannel.usage)
	pflag.Int(eventsBuffer.flagKey, eventsBuffer.defaultValue, eventsBuffer.usage)
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(port)
	bind(host)
	bind(logLevel)
	bind(membersLimit)
	bind(playlistLimit)
	bind(sendBuffer)
	bind(readLimit)
	bind(pongWait)
	bind(writeWait)
	bind(iceServers)
	bind(iceUsername)
	bind(iceCredential)
	bind(metadataEndpoint)
	bind(metadataTimeout)
	bind(redisPort)
	bind(redisHost)
	bind(redisPassword)
	bind(redisChannel)
	bind(eventsBuffer)

	config := &app.AppConfig{
		Host:             viper.GetString(host.flagKey),
		Port:             viper.GetInt(port.flagKey),
		LogLevel:         viper.GetString(logLevel.flagKey),
		MembersLimit:     viper.GetInt(membersLimit.flagKey),
		PlaylistLimit:    viper.GetInt(playlistLimit.flagKey),
		SendBufferSize:   viper.GetInt(sendBuffer.flagKey),
		ReadLimit:        viper.GetInt64(readLimit.flagKey),
		PongWait:         viper.GetDuration(pongWait.flagKey),
		WriteWait:        viper.GetDuration(writeWait.flagKey),
		ICEServers:       viper.GetStringSlice(iceServers.flagKey),
		ICEUsername:      viper.GetString(iceUsername.flagKey),
		ICECredential:    viper.GetString(iceCredential.flagKey),
		MetadataEndpoint: viper.GetString(metadataEndpoint.flagKey),
		MetadataTimeout:  viper.GetDuration(metadataTimeout.flagKey),
		RedisHost:        viper.GetString(redisHost.flagKey),
		RedisPort:        viper.GetInt(redisPort.flagKey),
		RedisPassword:    viper.GetString(redisPassword.flagKey),
		RedisChannel:     viper.GetString(redisChannel.flagKey),
		EventsBufferSize: viper.GetInt(eventsBuffer.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	if err := app.Run(ctx, appConfig); err != nil {
		log.Fatal(err)
	}
}
