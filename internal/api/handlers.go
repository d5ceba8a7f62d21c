// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/eventbus"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/metrics"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/realtime"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/validation"
)

// MaxPublicationBytes bounds POST /api/v1/events bodies.
const MaxPublicationBytes = 1 << 20

const readinessTimeout = 2 * time.Second

// Gateway is the part of *realtime.Gateway the handlers use.
type Gateway interface {
	Stats() realtime.Stats
	Presence(principalID string) (bool, int)
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// Dispatcher is satisfied by *eventbus.Bus.
type Dispatcher interface {
	Dispatch(p *eventbus.Publication) error
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler serves the gateway's HTTP endpoints.
type Handler struct {
	gw          Gateway
	bus         Dispatcher
	ingestToken string
	startTime   time.Time

	mu     sync.RWMutex
	checks map[string]ReadinessCheck
}

// NewHandler creates a handler. An empty ingestToken leaves
// POST /api/v1/events open.
func NewHandler(gw Gateway, bus Dispatcher, ingestToken string) *Handler {
	return &Handler{
		gw:          gw,
		bus:         bus,
		ingestToken: ingestToken,
		startTime:   time.Now(),
		checks:      make(map[string]ReadinessCheck),
	}
}

// AddReadinessCheck registers a check consulted by HealthReady.
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// HealthLive answers 200 while the process is up.
//
// @Summary Liveness probe
// @Description Returns 200 OK while the process is alive, regardless of NATS or other dependencies.
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 503 when any readiness check fails.
//
// @Summary Readiness probe
// @Description Runs every registered readiness check (embedded NATS server, mirror circuit breaker).
// @Description Returns 503 with the per-check results when any of them fails.
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse "Service is ready"
// @Failure 503 {object} APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	results := make(map[string]interface{}, len(names))
	ready := true
	for _, name := range names {
		h.mu.RLock()
		check := h.checks[name]
		h.mu.RUnlock()
		if err := check(ctx); err != nil {
			ready = false
			results[name] = err.Error()
			logging.Ctx(r.Context()).Warn().Err(err).Str("check", name).Msg("readiness check failed")
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		respondError(w, r, http.StatusServiceUnavailable, &APIError{
			Code:    CodeNotReady,
			Message: "Service is not ready",
			Details: map[string]interface{}{"checks": results},
		})
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"ready":  true,
		"checks": results,
	})
}

// RealtimeStats reports connection, principal and topic counts.
//
// @Summary Realtime gateway statistics
// @Description Returns the number of live websocket connections, online principals and materialized topics.
// @Tags Realtime
// @Produce json
// @Success 200 {object} APIResponse{data=realtime.Stats} "Gateway statistics"
// @Failure 429 {object} APIResponse "Rate limit exceeded"
// @Router /realtime/stats [get]
func (h *Handler) RealtimeStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.gw.Stats())
}

// PresenceResponse is the body of GET /api/v1/realtime/presence/{principalID}.
type PresenceResponse struct {
	PrincipalID string `json:"principalId"`
	Online      bool   `json:"online"`
	Connections int    `json:"connections"`
}

// Presence reports whether a principal has live connections.
//
// @Summary Principal presence
// @Description Reports whether the principal has at least one live authenticated connection.
// @Tags Realtime
// @Produce json
// @Param principalID path string true "Principal ID"
// @Success 200 {object} APIResponse{data=PresenceResponse} "Presence retrieved"
// @Failure 400 {object} APIResponse "Invalid principal ID"
// @Failure 429 {object} APIResponse "Rate limit exceeded"
// @Router /realtime/presence/{principalID} [get]
func (h *Handler) Presence(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "principalID")
	if verr := validation.ValidateVar("principalID", id, "required,topickey"); verr != nil {
		respondValidation(w, r, verr)
		return
	}
	online, n := h.gw.Presence(id)
	respondJSON(w, r, http.StatusOK, PresenceResponse{PrincipalID: id, Online: online, Connections: n})
}

// PublishResponse is the body of a 202 from POST /api/v1/events.
type PublishResponse struct {
	Kind     string `json:"kind"`
	Accepted bool   `json:"accepted"`
}

// PublishEvent dispatches one Publication into the event bus.
//
// @Summary Publish a domain event
// @Description Decodes a publication and fans it out to the matching websocket topics.
// @Description Requires a bearer token when security.ingest_token is configured.
// @Tags Events
// @Accept json
// @Produce json
// @Param publication body eventbus.Publication true "Domain event publication"
// @Success 202 {object} APIResponse{data=PublishResponse} "Publication accepted"
// @Failure 400 {object} APIResponse "Unknown kind or invalid data"
// @Failure 401 {object} APIResponse "Missing or invalid bearer token"
// @Failure 413 {object} APIResponse "Publication too large"
// @Failure 429 {object} APIResponse "Rate limit exceeded"
// @Security BearerAuth
// @Router /events [post]
func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	log := logging.Ctx(r.Context())

	if err := h.authorize(r); err != nil {
		metrics.IngestRequests.WithLabelValues("unauthorized").Inc()
		log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("rejected event publication")
		w.Header().Set("WWW-Authenticate", `Bearer realm="cultiva"`)
		respondError(w, r, http.StatusUnauthorized, &APIError{
			Code:    CodeUnauthorized,
			Message: "A valid bearer token is required",
		})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPublicationBytes))
	if err != nil {
		metrics.IngestRequests.WithLabelValues("invalid").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, &APIError{
				Code:    CodeTooLarge,
				Message: "Publication exceeds the maximum size",
				Details: map[string]interface{}{"limit": MaxPublicationBytes},
			})
			return
		}
		respondValidation(w, r, err)
		return
	}

	p, err := eventbus.DecodePublication(body)
	if err == nil {
		err = h.bus.Dispatch(p)
	}
	if err != nil {
		metrics.IngestRequests.WithLabelValues("invalid").Inc()
		log.Debug().Err(err).Msg("invalid publication")
		respondValidation(w, r, err)
		return
	}

	metrics.IngestRequests.WithLabelValues("accepted").Inc()
	log.Debug().Str("kind", p.Kind).Str("principal_id", p.PrincipalID).Msg("publication accepted")
	respondJSON(w, r, http.StatusAccepted, PublishResponse{Kind: p.Kind, Accepted: true})
}

func (h *Handler) authorize(r *http.Request) error {
	if h.ingestToken == "" {
		return nil
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return ErrMissingToken
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.ingestToken)) != 1 {
		return ErrBadToken
	}
	return nil
}
