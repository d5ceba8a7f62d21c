// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

/*
Package supervisor runs the gateway's long-lived services under suture v4.

# Overview

	RootSupervisor ("cultiva-realtime")
	├── BrokerSupervisor ("broker-layer")
	│   └── NATSServerService (if nats.embedded_server)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── GatewayService
	│   ├── RunnerService "nats-mirror" (if nats.mirror_enabled)
	│   └── RunnerService "nats-ingest" (if nats.ingest_enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold is
exceeded. Supervisor events are logged through sutureslog, bridged to
zerolog by logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(),
	    supervisor.TreeConfigFromConfig(&cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewGatewayService(gw))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

Services live in the services subpackage.
*/
package supervisor
