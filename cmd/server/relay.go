// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package main

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/api"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/config"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/eventbus"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/relay"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/supervisor"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/supervisor/services"
)

var errEmbeddedDown = errors.New("embedded NATS server is not running")

// relayComponents is the optional NATS side of the gateway.
type relayComponents struct {
	embedded *relay.EmbeddedServer
	pub      message.Publisher
	sub      message.Subscriber
	mirror   *relay.Mirror
	ingest   *relay.Ingest
	detach   func()
}

func newRelayComponents(cfg *config.NATSConfig, bus *eventbus.Bus) (_ *relayComponents, err error) {
	rc := &relayComponents{}
	defer func() {
		if err != nil {
			rc.close()
		}
	}()

	natsCfg := *cfg
	if cfg.EmbeddedServer {
		rc.embedded, err = relay.NewEmbeddedServer(cfg.Host, cfg.Port)
		if err != nil {
			return nil, err
		}
		natsCfg.URL = rc.embedded.ClientURL()
		logging.Info().Str("url", natsCfg.URL).Msg("Embedded NATS server started")
	}

	logger := logging.NewWatermillAdapter("watermill")

	if cfg.MirrorEnabled {
		rc.pub, err = relay.NewPublisher(&natsCfg, logger)
		if err != nil {
			return nil, err
		}
		rc.mirror = relay.NewMirror(rc.pub, relay.MirrorConfigFromNATS(&natsCfg))
		rc.detach = rc.mirror.Attach(bus)
	}

	if cfg.IngestEnabled {
		rc.sub, err = relay.NewSubscriber(&natsCfg, logger)
		if err != nil {
			return nil, err
		}
		rc.ingest = relay.NewIngest(rc.sub, bus, natsCfg.IngestSubject)
	}

	logging.Info().
		Bool("embedded", cfg.EmbeddedServer).
		Bool("mirror", cfg.MirrorEnabled).
		Bool("ingest", cfg.IngestEnabled).
		Msg("NATS relay configured")
	return rc, nil
}

// register adds the relay services and readiness checks.
func (rc *relayComponents) register(tree *supervisor.SupervisorTree, h *api.Handler, shutdownTimeout time.Duration) {
	if rc.embedded != nil {
		tree.AddBrokerService(services.NewNATSServerService(rc.embedded, shutdownTimeout))
		h.AddReadinessCheck("nats_server", func(context.Context) error {
			if !rc.embedded.IsRunning() {
				return errEmbeddedDown
			}
			return nil
		})
	}
	if rc.mirror != nil {
		tree.AddMessagingService(services.NewRunnerService("nats-mirror", rc.mirror))
		h.AddReadinessCheck("nats_mirror", rc.mirror.Ready)
	}
	if rc.ingest != nil {
		tree.AddMessagingService(services.NewRunnerService("nats-ingest", rc.ingest))
	}
}

func (rc *relayComponents) close() {
	if rc.detach != nil {
		rc.detach()
	}
	if rc.sub != nil {
		if err := rc.sub.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing NATS subscriber")
		}
	}
	if rc.pub != nil {
		if err := rc.pub.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing NATS publisher")
		}
	}
	// Without a supervisor run the embedded server has no owner.
	if rc.embedded != nil && rc.embedded.IsRunning() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rc.embedded.Shutdown(ctx)
	}
}
