// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package relay connects the event bus to NATS using Watermill.
//
// Mirror is a bus listener that republishes each domain record on
// <subject_prefix>.<kind>, with ':' in the kind replaced by '.', behind a
// circuit breaker. Ingest reads publications from a NATS subject and
// dispatches them into the bus, so producers in other processes can trigger
// realtime events. Neither is used to fan events out between gateway
// instances; websocket delivery stays local to the process holding the
// connection.
//
// EmbeddedServer runs a broker in-process when no external NATS is available.
package relay
