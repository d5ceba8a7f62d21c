// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when no explicit path is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cultiva/realtime.yaml",
	"/etc/cultiva/realtime.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// LoadWithKoanf builds a Config from defaults, an optional YAML file and the
// environment, in that order of increasing precedence, and validates it.
//
// explicitPath, when non-empty, must exist; it takes priority over
// CONFIG_PATH and the default search paths.
func LoadWithKoanf(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolveConfigFile(explicitPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func resolveConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"realtime.allowed_origins",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		vals := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				vals = append(vals, p)
			}
		}
		if err := k.Set(path, vals); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"http_host":              "server.host",
	"http_port":              "server.port",
	"http_read_timeout":      "server.read_timeout",
	"http_write_timeout":     "server.write_timeout",
	"http_shutdown_timeout":  "server.shutdown_timeout",
	"ws_write_wait":          "realtime.write_wait",
	"ws_pong_wait":           "realtime.pong_wait",
	"ws_max_message_size":    "realtime.max_message_size",
	"ws_send_buffer":         "realtime.send_buffer",
	"ws_inbound_rate":        "realtime.inbound_rate",
	"ws_inbound_burst":       "realtime.inbound_burst",
	"ws_stats_interval":      "realtime.stats_interval",
	"ws_allowed_origins":     "realtime.allowed_origins",
	"auth_mode":              "auth.mode",
	"jwt_secret":             "auth.jwt_secret",
	"jwt_issuer":             "auth.jwt_issuer",
	"nats_enabled":           "nats.enabled",
	"nats_url":               "nats.url",
	"nats_embedded":          "nats.embedded_server",
	"nats_host":              "nats.host",
	"nats_port":              "nats.port",
	"nats_mirror_enabled":    "nats.mirror_enabled",
	"nats_subject_prefix":    "nats.subject_prefix",
	"nats_mirror_buffer":     "nats.mirror_buffer",
	"nats_ingest_enabled":    "nats.ingest_enabled",
	"nats_ingest_subject":    "nats.ingest_subject",
	"nats_queue_group":       "nats.queue_group",
	"nats_max_reconnects":    "nats.max_reconnects",
	"nats_reconnect_wait":    "nats.reconnect_wait",
	"nats_breaker_failures":  "nats.breaker_failures",
	"nats_breaker_timeout":   "nats.breaker_timeout",
	"cors_origins":           "security.cors_origins",
	"rate_limit_reqs":        "security.rate_limit_reqs",
	"rate_limit_window":      "security.rate_limit_window",
	"disable_rate_limit":     "security.rate_limit_disabled",
	"ingest_token":           "security.ingest_token",
	"log_level":              "logging.level",
	"log_format":             "logging.format",
	"log_caller":             "logging.caller",
	"supervisor_threshold":   "supervisor.failure_threshold",
	"supervisor_decay":       "supervisor.failure_decay",
	"supervisor_backoff":     "supervisor.failure_backoff",
	"supervisor_shutdown":    "supervisor.shutdown_timeout",
}

// envTransformFunc returns "" for unmapped variables so they are skipped.
//
//	HTTP_PORT -> server.port
//	NATS_EMBEDDED -> nats.embedded_server
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
