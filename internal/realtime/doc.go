// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

/*
Package realtime pushes typed domain events to browser and mobile clients over
websockets.

Key Components:

  - Registry: live connections and the principal each one authenticated as
  - Rooms: topic membership (user, user scope, entity, weather)
  - Gateway: the emit API, inbound frame handling and lifecycle
  - Client: one gorilla/websocket connection with read and write pumps

Topics:

	user:<principalId>             every connection of a principal
	user:<principalId>:caretasks   opt-in care task stream
	entity:<entityId>              explicit subscription, e.g. a plant
	weather:<locationKey>          explicit subscription
	broadcast                      every registered connection

Topics exist only while they have members. broadcast is never stored; it is
resolved from the Registry at emit time, so anonymous connections receive
broadcasts too.

Client Protocol:

Clients send {"type": ..., "payload": ...} frames:

	auth                   principal id or token, bare or {"token": ...}
	subscribe:entity       entity id
	subscribe:caretasks    no payload
	subscribe:weather      location key
	unsubscribe:*          same payload as the matching subscribe
	ping                   answered with a pong event

Subscriptions are refused until an auth frame has been accepted. A second auth
for a different principal leaves the old principal's user topics first.
Rejected frames are logged, counted in realtime_protocol_errors_total and
otherwise ignored; the connection stays open.

The server sends {"eventName": ..., "payload": ...} envelopes built by package
events.

Delivery:

Emit encodes the envelope once and queues the bytes on every member with a
non-blocking send. A member whose queue is full is a slow consumer: it is
closed and removed, and the emit carries on with the rest. Delivery is
at-most-once with no replay.

Thread Safety:

Registry and Rooms each guard their maps with a mutex. The Registry takes its
lock before the Rooms lock, never the reverse, and presence callbacks run
after the Registry lock is released so they may emit.

Usage Example:

	gw := realtime.NewGateway(realtime.OptionsFromConfig(&cfg.Realtime), resolver)
	r.Get("/ws", gw.ServeWS)

	gw.EmitToUser("u1", events.TaskCreated{Task: events.Task{ID: "t1"}})
*/
package realtime
