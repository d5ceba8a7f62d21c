// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/api"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/auth"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/config"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/eventbus"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/realtime"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/supervisor"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/supervisor/services"
)

// app holds the wired components before the tree starts.
type app struct {
	gw      *realtime.Gateway
	bus     *eventbus.Bus
	handler *api.Handler
	server  *http.Server
	tree    *supervisor.SupervisorTree
	relay   *relayComponents
}

func newApp(cfg *config.Config) (*app, error) {
	resolver, err := auth.NewResolver(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	gw := realtime.NewGateway(realtime.OptionsFromConfig(&cfg.Realtime), resolver)
	bus := eventbus.New(gw)
	handler := api.NewHandler(gw, bus, cfg.Security.IngestToken)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, &cfg.Security),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFromConfig(&cfg.Supervisor))
	if err != nil {
		return nil, fmt.Errorf("supervisor: %w", err)
	}

	a := &app{gw: gw, bus: bus, handler: handler, server: server, tree: tree}

	if cfg.NATS.Enabled {
		rc, err := newRelayComponents(&cfg.NATS, bus)
		if err != nil {
			return nil, fmt.Errorf("nats relay: %w", err)
		}
		a.relay = rc
		rc.register(tree, handler, cfg.Supervisor.ShutdownTimeout)
	}

	tree.AddMessagingService(services.NewGatewayService(gw))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return a, nil
}

// close releases what the supervisor does not own.
func (a *app) close() {
	if a.relay != nil {
		a.relay.close()
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("auth_mode", cfg.Auth.Mode).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting realtime gateway")

	errCh := a.tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := a.tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}
