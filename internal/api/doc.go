// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package api provides the HTTP surface of the realtime gateway using the
// Chi router.
//
// Routes:
//
//	GET  /ws                                     websocket upgrade
//	GET  /api/v1/health/live                     liveness probe
//	GET  /api/v1/health/ready                    readiness probe
//	GET  /api/v1/realtime/stats                  connection and topic counts
//	GET  /api/v1/realtime/presence/{principalID} online flag and connection count
//	POST /api/v1/events                          publish a domain event
//	GET  /metrics                                Prometheus exposition
//	GET  /swagger/*                              Swagger UI and doc.json
//
// Handlers carry swag annotations; regenerate the OpenAPI document with:
//
//	swag init -g cmd/server/docs.go -o docs
//
// JSON endpoints answer with the APIResponse envelope:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {"field": "taskId"}},
//	  "metadata": {"timestamp": "2026-05-01T08:00:00Z", "request_id": "..."}
//	}
//
// POST /api/v1/events accepts the same Publication documents as the NATS
// ingest subject. When security.ingest_token is set the request must carry
// it as a bearer token.
package api
