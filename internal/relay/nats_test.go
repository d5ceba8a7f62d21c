// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package relay

import (
	"context"
	"strings"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/config"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/eventbus"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/realtime"
)

func startEmbedded(t *testing.T) *EmbeddedServer {
	t.Helper()
	srv, err := NewEmbeddedServer("127.0.0.1", -1)
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	if !srv.IsRunning() {
		t.Fatal("server not running")
	}
	return srv
}

func testNATSConfig(url string) *config.NATSConfig {
	return &config.NATSConfig{
		URL:           url,
		SubjectPrefix: "cultiva.events",
		IngestSubject: "cultiva.ingest",
		QueueGroup:    "cultiva-realtime-test",
		MaxReconnects: 2,
		ReconnectWait: 100 * time.Millisecond,
	}
}

func TestNATS_MirrorAndIngest(t *testing.T) {
	if testing.Short() {
		t.Skip("embedded NATS in short mode")
	}
	srv := startEmbedded(t)
	cfg := testNATSConfig(srv.ClientURL())
	logger := logging.NewWatermillAdapter("relay-test")

	pub, err := NewPublisher(cfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = pub.Close() })
	sub, err := NewSubscriber(cfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sub.Close() })

	nc, err := natsgo.Connect(srv.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(nc.Close)
	mirrored, err := nc.SubscribeSync("cultiva.events.>")
	if err != nil {
		t.Fatal(err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatal(err)
	}

	bus := eventbus.New(realtime.NewGateway(realtime.DefaultOptions(), nil))
	mirror := NewMirror(pub, MirrorConfigFromNATS(cfg))
	mirror.Attach(bus)
	runInBackground(t, mirror.Run)
	runInBackground(t, NewIngest(sub, bus, cfg.IngestSubject).Run)

	// A raw NATS producer with no Watermill headers.
	raw := []byte(`{"kind":"weather:updated","data":{"locationKey":"oslo","report":{"condition":"snow","observedAt":"2026-01-02T03:04:05Z"}}}`)
	var msg *natsgo.Msg
	deadline := time.Now().Add(5 * time.Second)
	for msg == nil && time.Now().Before(deadline) {
		if err := nc.Publish(cfg.IngestSubject, raw); err != nil {
			t.Fatal(err)
		}
		msg, _ = mirrored.NextMsg(200 * time.Millisecond)
	}
	if msg == nil {
		t.Fatal("ingested publication was never mirrored")
	}
	if msg.Subject != "cultiva.events.weather.updated" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if got := string(msg.Data); !strings.Contains(got, `"kind":"weather:updated"`) || !strings.Contains(got, `"locationKey":"oslo"`) {
		t.Errorf("mirrored body = %s", got)
	}
}

func TestNATS_EmbeddedShutdown(t *testing.T) {
	srv, err := NewEmbeddedServer("127.0.0.1", -1)
	if err != nil {
		t.Fatal(err)
	}
	if srv.ClientURL() == "" {
		t.Error("ClientURL() is empty")
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("server still running after Shutdown")
	}
}

func TestMirror_SubjectsAreValidTokens(t *testing.T) {
	m := NewMirror(nil, MirrorConfig{})
	for _, kind := range eventbus.Kinds() {
		subject := m.Subject(kind)
		for _, bad := range []string{" ", "..", ":", "*", ">"} {
			if strings.Contains(subject, bad) {
				t.Errorf("Subject(%q) = %q contains %q", kind, subject, bad)
			}
		}
	}
}
