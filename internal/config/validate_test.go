// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"zero send buffer", func(c *Config) { c.Realtime.SendBuffer = 0 }, "WS_SEND_BUFFER"},
		{"zero rate", func(c *Config) { c.Realtime.InboundRate = 0 }, "WS_INBOUND_RATE"},
		{"unknown auth mode", func(c *Config) { c.Auth.Mode = "oidc" }, "AUTH_MODE"},
		{"jwt without secret", func(c *Config) { c.Auth.Mode = AuthModeJWT }, "JWT_SECRET"},
		{"nats bad url", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.URL = "not a url"
		}, "NATS_URL"},
		{"nats wildcard prefix", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.SubjectPrefix = "cultiva.>"
		}, "NATS_SUBJECT_PREFIX"},
		{"nats disabled ignores prefix", func(c *Config) {
			c.NATS.SubjectPrefix = ""
		}, ""},
		{"ingest without subject", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.IngestEnabled = true
			c.NATS.IngestSubject = ""
		}, "NATS_INGEST_SUBJECT"},
		{"ingest under mirror prefix", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.IngestEnabled = true
			c.NATS.IngestSubject = "cultiva.events.ingest"
		}, "overlaps mirrored subjects"},
		{"ingest wildcard covers mirror", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.IngestEnabled = true
			c.NATS.IngestSubject = "cultiva.>"
		}, "overlaps mirrored subjects"},
		{"ingest beside mirror prefix", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.IngestEnabled = true
			c.NATS.IngestSubject = "cultiva.ingest"
		}, ""},
		{"overlap allowed without mirror", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.IngestEnabled = true
			c.NATS.MirrorEnabled = false
			c.NATS.IngestSubject = "cultiva.events.ingest"
		}, ""},
		{"rate limit disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestSubjectsOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"cultiva.events.in", "cultiva.events.>", true},
		{"cultiva.*.in", "cultiva.events.>", true},
		{"cultiva.>", "cultiva.events.>", true},
		{"cultiva.events", "cultiva.events.>", false},
		{"cultiva.ingest", "cultiva.events.>", false},
		{"*", "cultiva.events.>", false},
		{"a.b", "a.b", true},
		{"a.b", "a.c", false},
	}
	for _, tt := range tests {
		if got := subjectsOverlap(tt.a, tt.b); got != tt.want {
			t.Errorf("subjectsOverlap(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = -1
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"HTTP_PORT", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error missing %s: %v", want, err)
		}
	}
}
