// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"
)

// EmbeddedServer is satisfied by *relay.EmbeddedServer.
type EmbeddedServer interface {
	Shutdown(ctx context.Context) error
	IsRunning() bool
}

// ErrServerStopped is returned when the embedded server dies on its own.
var ErrServerStopped = errors.New("embedded NATS server stopped")

// NATSServerService owns an already started embedded NATS server and shuts
// it down when the tree stops. The server is started before the tree so that
// clients can connect during wiring.
type NATSServerService struct {
	server          EmbeddedServer
	shutdownTimeout time.Duration
	pollInterval    time.Duration
	name            string
}

// NewNATSServerService wraps server. A non-positive timeout means 10s.
func NewNATSServerService(server EmbeddedServer, shutdownTimeout time.Duration) *NATSServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		pollInterval:    5 * time.Second,
		name:            "nats-server",
	}
}

// Serve implements suture.Service. A dead server cannot be restarted from
// here, so the service asks not to be restarted; the relay services surface
// the outage through their own failures.
func (n *NATSServerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(n.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), n.shutdownTimeout)
			defer cancel()
			if err := n.server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
			if !n.server.IsRunning() {
				return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, ErrServerStopped)
			}
		}
	}
}

// String implements fmt.Stringer.
func (n *NATSServerService) String() string {
	return n.name
}
