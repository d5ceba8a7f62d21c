// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

/*
Package eventbus is the domain-facing side of realtime delivery.

Producers call one method per domain event after their mutation succeeds:

	bus.TaskCreated(userID, events.Task{ID: task.ID, Title: task.Title})
	bus.PostLiked(postID, userID, likeCount)

Each method builds the typed event, emits it to the right topics through the
gateway and then notifies in-process listeners. None of them return errors:
realtime delivery is best effort and must never fail the mutation that
triggered it.

Sinks:

	plant:*, health:*, ai:disease:detected   user:<id> and entity:<id>
	care:task:*                              user:<id> and user:<id>:caretasks
	community:*                              broadcast
	notification:*, ai:response              user:<id>
	weather:updated                          weather:<locationKey>

Listeners:

Subscribe registers a func(Record) called synchronously after every emission.
The relay package uses it to mirror domain events to NATS. A panicking
listener is recovered and counted in eventbus_listener_panics_total.

Dispatch:

Publications from other processes (POST /api/v1/events, the NATS ingest
subject) arrive as {kind, principalId, entityId, data}. Dispatch validates the
data for the kind and calls the matching method, returning ErrUnknownKind or
ErrInvalidPublication so the transport can reject the input.
*/
package eventbus
