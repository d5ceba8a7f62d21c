// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/config"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/eventbus"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/metrics"
)

// ErrMirrorUnavailable is reported by Ready while the breaker is open.
var ErrMirrorUnavailable = errors.New("nats mirror circuit open")

// Publish results for relay_messages_published_total.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
)

// MirrorConfig configures a Mirror.
type MirrorConfig struct {
	SubjectPrefix   string
	Buffer          int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// MirrorConfigFromNATS copies the mirror settings.
func MirrorConfigFromNATS(cfg *config.NATSConfig) MirrorConfig {
	return MirrorConfig{
		SubjectPrefix:   cfg.SubjectPrefix,
		Buffer:          cfg.MirrorBuffer,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout,
	}
}

// Mirror republishes every bus record on NATS so that other services can
// observe domain events. It never slows the bus down: records are queued and
// dropped when the queue is full.
type Mirror struct {
	pub     message.Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
	prefix  string
	queue   chan eventbus.Record
	log     zerolog.Logger
}

// NewMirror returns a mirror publishing through pub.
func NewMirror(pub message.Publisher, cfg MirrorConfig) *Mirror {
	if cfg.Buffer < 1 {
		cfg.Buffer = 1024
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "cultiva.events"
	}
	return &Mirror{
		pub:     pub,
		breaker: newBreaker("nats-mirror", cfg.BreakerFailures, cfg.BreakerTimeout),
		prefix:  cfg.SubjectPrefix,
		queue:   make(chan eventbus.Record, cfg.Buffer),
		log:     logging.WithComponent("relay-mirror"),
	}
}

// Subject maps an event kind to its NATS subject:
// care:task:created becomes <prefix>.care.task.created.
func (m *Mirror) Subject(kind string) string {
	return m.prefix + "." + strings.ReplaceAll(kind, ":", ".")
}

// Attach subscribes the mirror to bus and returns the unsubscribe func.
func (m *Mirror) Attach(bus *eventbus.Bus) func() {
	return bus.Subscribe(m.Enqueue)
}

// Enqueue is the bus listener. It never blocks.
func (m *Mirror) Enqueue(rec eventbus.Record) {
	select {
	case m.queue <- rec:
	default:
		metrics.RelayMirrorDropped.Inc()
		metrics.RecordFrameDropped(metrics.ReasonMirrorQueueFull)
		m.log.Warn().Str("event", rec.Kind).Msg("mirror queue full, dropping record")
	}
}

// Ready reports ErrMirrorUnavailable while publishing is short-circuited.
func (m *Mirror) Ready(context.Context) error {
	if m.breaker.State() == gobreaker.StateOpen {
		return ErrMirrorUnavailable
	}
	return nil
}

// Run publishes queued records until ctx is done.
func (m *Mirror) Run(ctx context.Context) error {
	m.log.Info().Str("prefix", m.prefix).Msg("mirror started")
	for {
		select {
		case <-ctx.Done():
			m.log.Info().Int("pending", len(m.queue)).Msg("mirror stopped")
			return ctx.Err()
		case rec := <-m.queue:
			if err := m.publish(rec); err != nil {
				m.log.Debug().Err(err).Str("event", rec.Kind).Msg("mirror publish failed")
			}
		}
	}
}

func (m *Mirror) publish(rec eventbus.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		metrics.RecordRelayPublish(ResultFailure)
		return fmt.Errorf("marshal record: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set("kind", rec.Kind)
	if rec.PrincipalID != "" {
		msg.Metadata.Set("principal_id", rec.PrincipalID)
	}

	subject := m.Subject(rec.Kind)
	_, err = m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.pub.Publish(subject, msg)
	})
	switch {
	case err == nil:
		metrics.RecordRelayPublish(ResultSuccess)
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordRelayPublish(ResultRejected)
	default:
		metrics.RecordRelayPublish(ResultFailure)
	}
	return fmt.Errorf("publish %s: %w", subject, err)
}
