// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package config loads the realtime service configuration.
//
// Configuration is layered with koanf: built-in defaults, then an optional
// YAML file, then environment variables. Later layers win. Only environment
// variables listed in the mapping table in koanf.go are read; anything else
// in the process environment is ignored.
//
//	cfg, err := config.LoadWithKoanf("")
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("invalid configuration")
//	}
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Realtime   RealtimeConfig   `koanf:"realtime"`
	Auth       AuthConfig       `koanf:"auth"`
	NATS       NATSConfig       `koanf:"nats"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// RealtimeConfig tunes the websocket gateway.
type RealtimeConfig struct {
	// WriteWait bounds a single socket write.
	WriteWait time.Duration `koanf:"write_wait"`

	// PongWait is how long a connection may stay silent before it is
	// considered dead. Pings go out at 90% of this.
	PongWait time.Duration `koanf:"pong_wait"`

	// MaxMessageSize caps inbound frames, in bytes.
	MaxMessageSize int64 `koanf:"max_message_size"`

	// SendBuffer is the per-connection outbound queue depth. A connection
	// whose queue is full is treated as a slow consumer and closed.
	SendBuffer int `koanf:"send_buffer"`

	// InboundRate and InboundBurst configure the per-connection token bucket
	// applied to client frames.
	InboundRate  float64 `koanf:"inbound_rate"`
	InboundBurst int     `koanf:"inbound_burst"`

	// StatsInterval is how often the gateway refreshes its gauges.
	StatsInterval time.Duration `koanf:"stats_interval"`

	// AllowedOrigins for the websocket upgrade. Empty means same-host only;
	// "*" allows any origin.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// AuthConfig selects how auth frame credentials are resolved to principals.
type AuthConfig struct {
	// Mode is "none" (credential is the principal id) or "jwt".
	Mode      string `koanf:"mode"`
	JWTSecret string `koanf:"jwt_secret"`
	JWTIssuer string `koanf:"jwt_issuer"`
}

// NATSConfig controls the optional domain event relay.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`

	// MirrorEnabled publishes every bus record to SubjectPrefix.<kind>.
	MirrorEnabled bool   `koanf:"mirror_enabled"`
	SubjectPrefix string `koanf:"subject_prefix"`
	MirrorBuffer  int    `koanf:"mirror_buffer"`

	// IngestEnabled consumes publications from IngestSubject into the bus.
	IngestEnabled bool   `koanf:"ingest_enabled"`
	IngestSubject string `koanf:"ingest_subject"`
	QueueGroup    string `koanf:"queue_group"`

	MaxReconnects   int           `koanf:"max_reconnects"`
	ReconnectWait   time.Duration `koanf:"reconnect_wait"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds HTTP edge settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// IngestToken, when set, is required as a bearer token on POST /api/v1/events.
	IngestToken string `koanf:"ingest_token"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SupervisorConfig tunes suture restart behaviour.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3857,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Realtime: RealtimeConfig{
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			MaxMessageSize: 64 * 1024,
			SendBuffer:     256,
			InboundRate:    20,
			InboundBurst:   40,
			StatsInterval:  15 * time.Second,
			AllowedOrigins: []string{},
		},
		Auth: AuthConfig{
			Mode: "none",
		},
		NATS: NATSConfig{
			Enabled:         false,
			URL:             "nats://127.0.0.1:4222",
			EmbeddedServer:  false,
			Host:            "127.0.0.1",
			Port:            4222,
			MirrorEnabled:   true,
			SubjectPrefix:   "cultiva.events",
			MirrorBuffer:    1024,
			IngestEnabled:   false,
			IngestSubject:   "cultiva.ingest",
			QueueGroup:      "cultiva-realtime",
			MaxReconnects:   -1,
			ReconnectWait:   2 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
