// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/config"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{"none", nil, options{}, false},
		{"long config", []string{"--config", "/etc/cultiva.yaml"}, options{configPath: "/etc/cultiva.yaml"}, false},
		{"short config", []string{"-c", "c.yaml", "--check-config"}, options{configPath: "c.yaml", checkConfig: true}, false},
		{"version", []string{"--version"}, options{showVersion: true}, false},
		{"unknown flag", []string{"--nope"}, options{}, true},
		{"positional", []string{"extra"}, options{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseFlags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func loadTestConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	t.Setenv(config.ConfigPathEnvVar, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadWithKoanf(path)
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	return cfg
}

func TestNewApp_WithoutNATS(t *testing.T) {
	cfg := loadTestConfig(t, "security:\n  rate_limit_disabled: true\n")
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.close()

	if a.relay != nil {
		t.Error("relay wired with nats disabled")
	}

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready", "/api/v1/realtime/stats"} {
		rec := httptest.NewRecorder()
		a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}
}

func TestNewApp_RejectsBadAuth(t *testing.T) {
	cfg := loadTestConfig(t, "logging:\n  level: info\n")
	cfg.Auth.Mode = "ldap"
	if _, err := newApp(cfg); err == nil {
		t.Error("newApp() should fail for an unknown auth mode")
	}
}

func TestNewApp_EmbeddedNATS(t *testing.T) {
	if testing.Short() {
		t.Skip("embedded NATS in short mode")
	}
	cfg := loadTestConfig(t, `
nats:
  enabled: true
  embedded_server: true
  port: -1
  mirror_enabled: true
  ingest_enabled: true
`)
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.relay == nil || a.relay.embedded == nil || a.relay.mirror == nil || a.relay.ingest == nil {
		t.Fatalf("relay = %+v", a.relay)
	}

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready = %d body=%s", rec.Code, rec.Body.String())
	}

	a.close()
	if a.relay.embedded.IsRunning() {
		t.Error("embedded server still running after close")
	}
}
