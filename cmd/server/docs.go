// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package main provides the Cultiva realtime gateway server
//
// @title Cultiva Realtime API
// @version 1.0
// @description Realtime event fan-out for the Cultiva plant-care app.
// @description
// @description ## Websocket
// @description
// @description Clients connect to /ws, authenticate with an auth frame and subscribe to entity,
// @description care task and weather topics. Plant, care task, community, notification,
// @description weather and AI events are pushed as {eventName, payload} frames.
// @description
// @description ## Rate Limiting
// @description
// @description Health probes share a budget of 1000 requests per minute per IP address.
// @description Other endpoints use security.rate_limit_requests per security.rate_limit_window.
// @description
// @description ## Error Responses
// @description
// @description Errors use the APIResponse envelope with status "error" and an error object
// @description carrying code, message and optional details.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/Vansh-Parate/Cultiva/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3857
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Ingest token as "Bearer <token>". Required on /events when security.ingest_token is set.
//
// @tag.name Core
// @tag.description Health and readiness probes
//
// @tag.name Realtime
// @tag.description Websocket gateway statistics and presence
//
// @tag.name Events
// @tag.description Domain event ingestion into the event bus
package main
