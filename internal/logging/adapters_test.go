// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	orig := GetLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(orig)

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Warn("service restarted",
		slog.String("service", "gateway"),
		slog.Int("restarts", 2),
		slog.Duration("backoff", time.Second),
		slog.Any("err", errors.New("eof")),
	)

	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"service":"gateway"`,
		`"restarts":2`,
		`"err":"eof"`,
		`"message":"service restarted"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	orig := GetLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(orig)

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf))).
		With("tree", "root").
		WithGroup("suture")

	logger.Info("event", slog.String("kind", "terminate"), slog.Group("svc", slog.String("name", "relay")))

	out := buf.String()
	for _, want := range []string{`"tree":"root"`, `"suture.kind":"terminate"`, `"suture.svc.name":"relay"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	orig := GetLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(orig)

	h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))

	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestWatermillAdapter(t *testing.T) {
	orig := GetLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(orig)

	var buf bytes.Buffer
	var adapter watermill.LoggerAdapter = NewWatermillAdapterWithLogger(NewTestLogger(&buf))
	adapter = adapter.With(watermill.LogFields{"topic": "cultiva.events.plant_created"})

	adapter.Error("publish failed", errors.New("nats: timeout"), watermill.LogFields{"uuid": "m1"})
	adapter.Info("subscribed", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}
	for _, want := range []string{`"level":"error"`, `"error":"nats: timeout"`, `"uuid":"m1"`, `"topic":"cultiva.events.plant_created"`} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("error line missing %s: %s", want, lines[0])
		}
	}
	if !strings.Contains(lines[1], `"topic":"cultiva.events.plant_created"`) {
		t.Errorf("With fields should persist: %s", lines[1])
	}
}

func TestWatermillAdapter_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWatermillAdapterWithLogger(NewTestLogger(&buf))
	_ = parent.With(watermill.LogFields{"child": true})

	parent.Info("parent", nil)
	if strings.Contains(buf.String(), "child") {
		t.Errorf("parent picked up child fields: %s", buf.String())
	}
}
