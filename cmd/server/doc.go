// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Command server runs the Cultiva realtime gateway.
//
// It accepts websocket connections on /ws, fans domain events out to the
// connections subscribed to them and exposes the HTTP API and Prometheus
// metrics described in package api. With nats.enabled it also mirrors every
// domain event to NATS and consumes publications from NATS.
//
// # Startup
//
//  1. Configuration: defaults, then config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog, console or JSON
//  3. Gateway and event bus
//  4. NATS relay (optional): embedded server, mirror, ingest
//  5. Supervisor tree: broker, messaging and API layers under suture
//
// # Flags
//
//	-c, --config string   path to config.yaml (overrides CONFIG_PATH)
//	    --check-config    validate the configuration and exit
//	    --version         print the version and exit
//
// # Example
//
//	AUTH_MODE=jwt JWT_SECRET=$(openssl rand -hex 32) \
//	NATS_ENABLED=true NATS_EMBEDDED=true \
//	./cultiva-realtime --config config.yaml
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server stops
// accepting requests, the gateway closes every websocket with a going-away
// frame, and the relay drains its subscriptions before the process exits.
package main
