// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/auth"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/config"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/events"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/metrics"
)

// ShutdownReason describes why the gateway stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Options tunes connection handling.
type Options struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
	SendBuffer     int
	InboundRate    float64
	InboundBurst   int
	StatsInterval  time.Duration
	AllowedOrigins []string
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBuffer:     256,
		InboundRate:    20,
		InboundBurst:   40,
		StatsInterval:  15 * time.Second,
	}
}

// OptionsFromConfig copies the realtime section.
func OptionsFromConfig(cfg *config.RealtimeConfig) Options {
	return Options{
		WriteWait:      cfg.WriteWait,
		PongWait:       cfg.PongWait,
		MaxMessageSize: cfg.MaxMessageSize,
		SendBuffer:     cfg.SendBuffer,
		InboundRate:    cfg.InboundRate,
		InboundBurst:   cfg.InboundBurst,
		StatsInterval:  cfg.StatsInterval,
		AllowedOrigins: cfg.AllowedOrigins,
	}
}

func (o Options) pingPeriod() time.Duration {
	return (o.PongWait * 9) / 10
}

// Stats is a point-in-time view of the gateway.
type Stats struct {
	Connections      int `json:"connections"`
	PrincipalsOnline int `json:"principals_online"`
	Topics           int `json:"topics"`
}

// Gateway fans typed events out to websocket connections.
//
// Emit methods never fail and never block on the network: each one encodes
// the envelope once and queues it on every member connection. A connection
// whose queue is full or closed is removed; the others still receive the
// frame. The return value is the number of connections the frame was queued
// on.
type Gateway struct {
	opts     Options
	registry *Registry
	rooms    *Rooms
	resolver auth.PrincipalResolver
	now      func() time.Time
	log      zerolog.Logger
}

// NewGateway builds a gateway. A nil resolver accepts the credential as the
// principal id.
func NewGateway(opts Options, resolver auth.PrincipalResolver) *Gateway {
	if resolver == nil {
		resolver = auth.IdentityResolver{}
	}
	defaults := DefaultOptions()
	if opts.SendBuffer < 1 {
		opts.SendBuffer = defaults.SendBuffer
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = defaults.WriteWait
	}
	if opts.PongWait <= 0 {
		opts.PongWait = defaults.PongWait
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaults.MaxMessageSize
	}
	if opts.InboundRate <= 0 || opts.InboundBurst < 1 {
		opts.InboundRate, opts.InboundBurst = defaults.InboundRate, defaults.InboundBurst
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = defaults.StatsInterval
	}

	g := &Gateway{
		opts:     opts,
		resolver: resolver,
		now:      time.Now,
		log:      logging.WithComponent("realtime-gateway"),
	}
	g.registry = NewRegistry(g.presence)
	g.rooms = g.registry.Rooms()
	return g
}

// Registry exposes the connection registry for read helpers.
func (g *Gateway) Registry() *Registry { return g.registry }

// Rooms exposes the topic manager for read helpers.
func (g *Gateway) Rooms() *Rooms { return g.rooms }

// EmitToUser delivers to every connection of principalID.
func (g *Gateway) EmitToUser(principalID string, e events.Event) int {
	return g.Emit(UserTopic(principalID), e)
}

// EmitToEntity delivers to connections subscribed to entityID.
func (g *Gateway) EmitToEntity(entityID string, e events.Event) int {
	return g.Emit(EntityTopic(entityID), e)
}

// EmitToUserScope delivers to connections of principalID that subscribed to scope.
func (g *Gateway) EmitToUserScope(principalID, scope string, e events.Event) int {
	return g.Emit(UserScopeTopic(principalID, scope), e)
}

// EmitToWeather delivers to connections subscribed to locationKey.
func (g *Gateway) EmitToWeather(locationKey string, e events.Event) int {
	return g.Emit(WeatherTopic(locationKey), e)
}

// Broadcast delivers to every registered connection.
func (g *Gateway) Broadcast(e events.Event) int {
	return g.Emit(Broadcast, e)
}

// Emit delivers e to the members of topic. A topic without members is not an
// error.
func (g *Gateway) Emit(topic string, e events.Event) int {
	members := g.rooms.MembersOf(topic)
	if len(members) == 0 {
		return 0
	}

	frame, err := events.Encode(e)
	if err != nil {
		metrics.RecordFrameDropped(metrics.ReasonEncodeFailed)
		g.log.Error().Err(err).Str("topic", topic).Msg("failed to encode event")
		return 0
	}

	name := e.Name()
	delivered := 0
	for _, id := range members {
		c, ok := g.registry.Get(id)
		if !ok {
			continue
		}
		if err := c.Enqueue(frame); err != nil {
			g.dropDelivery(c, topic, name, err)
			continue
		}
		delivered++
	}

	if delivered > 0 {
		metrics.RecordFramesSent(name, delivered)
	}
	return delivered
}

// dropDelivery handles a failed enqueue. The connection is closed and removed
// in every case; only the log level and metric reason differ.
func (g *Gateway) dropDelivery(c Conn, topic, event string, err error) {
	reason := metrics.ReasonConnectionClosed
	logEvent := g.log.Debug()
	if errors.Is(err, ErrSendBufferFull) {
		reason = metrics.ReasonBufferFull
		metrics.RealtimeSlowConsumers.Inc()
		logEvent = g.log.Warn()
	}
	metrics.RecordFrameDropped(reason)
	logEvent.Err(err).
		Str("conn_id", c.ID()).
		Str("topic", topic).
		Str("event", event).
		Msg("dropping frame and closing connection")

	g.disconnect(c)
}

// presence is the Registry hook; it broadcasts user:online / user:offline.
func (g *Gateway) presence(principalID string, online bool) {
	metrics.RecordPresence(online)
	ts := g.now().UTC()

	var e events.Event = events.UserOffline{UserID: principalID, Timestamp: ts}
	if online {
		e = events.UserOnline{UserID: principalID, Timestamp: ts}
	}
	n := g.Broadcast(e)

	g.log.Debug().
		Str("principal_id", principalID).
		Bool("online", online).
		Int("notified", n).
		Msg("presence changed")
}

// Connect registers c as a live, unauthenticated connection.
func (g *Gateway) Connect(c Conn) {
	g.registry.Register(c)
	metrics.RealtimeConnectionsTotal.Inc()
	g.log.Debug().Str("conn_id", c.ID()).Int("connections", g.registry.Count()).Msg("connection registered")
}

// Disconnect closes and removes connID. Unknown ids are ignored.
func (g *Gateway) Disconnect(connID string) {
	if c, ok := g.registry.Get(connID); ok {
		g.disconnect(c)
	}
}

func (g *Gateway) disconnect(c Conn) {
	c.Close()
	g.registry.Remove(c.ID())
}

// HandleFrame applies one client frame to connection c. A returned error is
// a protocol error: the frame had no effect and the connection stays open.
func (g *Gateway) HandleFrame(ctx context.Context, c Conn, data []byte) error {
	f, err := decodeFrame(data)
	if err != nil {
		return err
	}
	metrics.RecordInboundFrame(frameLabel(f.Type))

	switch f.Type {
	case FrameAuth:
		return g.handleAuth(ctx, c, f)
	case FramePing:
		if err := c.Enqueue(mustEncode(events.Pong{Timestamp: g.now().UTC()})); err != nil {
			g.dropDelivery(c, "", events.NamePong, err)
		}
		return nil
	}

	if !knownFrameTypes[f.Type] {
		return fmt.Errorf("%w: %q", ErrUnknownFrameType, f.Type)
	}

	principal, ok := g.registry.PrincipalOf(c.ID())
	if !ok {
		return ErrUnknownConnection
	}
	if principal == "" {
		return fmt.Errorf("%w: %s before auth", ErrNotAuthenticated, f.Type)
	}

	switch f.Type {
	case FrameSubscribeCareTasks, FrameUnsubscribeCareTasks:
		return g.toggle(c.ID(), principal, UserScopeTopic(principal, ScopeCareTasks), f.Type == FrameSubscribeCareTasks)
	case FrameSubscribeEntity, FrameUnsubscribeEntity:
		id, err := topicKeyPayload(f.Payload, "entityId", "entityId", "plantId", "id")
		if err != nil {
			return err
		}
		return g.toggle(c.ID(), principal, EntityTopic(id), f.Type == FrameSubscribeEntity)
	case FrameSubscribeWeather, FrameUnsubscribeWeather:
		key, err := topicKeyPayload(f.Payload, "locationKey", "locationKey", "location")
		if err != nil {
			return err
		}
		return g.toggle(c.ID(), principal, WeatherTopic(key), f.Type == FrameSubscribeWeather)
	}
	return nil
}

// toggle changes one subscription. Joins go through the registry so a
// connection removed since principal was read is never re-added.
func (g *Gateway) toggle(connID, principal, topic string, join bool) error {
	if join {
		if err := g.registry.JoinIfRegistered(connID, principal, topic); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	} else {
		g.rooms.Leave(connID, topic)
	}
	g.log.Debug().Str("conn_id", connID).Str("topic", topic).Bool("joined", join).Msg("subscription changed")
	return nil
}

func (g *Gateway) handleAuth(ctx context.Context, c Conn, f *Frame) error {
	credential, err := stringPayload(f.Payload, "token", "principalId", "userId")
	if err != nil {
		return err
	}
	principal, err := g.resolver.Resolve(ctx, credential)
	if err != nil {
		return err
	}
	if err := g.registry.AttachPrincipal(c.ID(), principal); err != nil {
		return err
	}
	g.log.Debug().Str("conn_id", c.ID()).Str("principal_id", principal).Msg("connection authenticated")
	return nil
}

// protocolError records and logs a rejected frame.
func (g *Gateway) protocolError(connID string, err error) {
	reason := protocolReason(err)
	metrics.RecordProtocolError(reason)
	g.log.Warn().Err(err).Str("conn_id", connID).Str("reason", reason).Msg("dropped client frame")
}

// Stats returns current counts.
func (g *Gateway) Stats() Stats {
	return Stats{
		Connections:      g.registry.Count(),
		PrincipalsOnline: g.registry.PrincipalCount(),
		Topics:           g.rooms.TopicCount(),
	}
}

// Presence reports whether principalID is online and on how many connections.
func (g *Gateway) Presence(principalID string) (bool, int) {
	n := len(g.registry.ConnectionsOf(principalID))
	return n > 0, n
}

func (g *Gateway) refreshGauges() {
	s := g.Stats()
	metrics.UpdateRealtimeGauges(s.Connections, s.PrincipalsOnline, s.Topics)
}

// Shutdown closes every connection and empties the registry. Clients get a
// close frame from their write pump. No presence events are sent.
func (g *Gateway) Shutdown() int {
	conns := g.registry.Drain()
	for _, c := range conns {
		c.Close()
	}
	g.refreshGauges()
	return len(conns)
}

// RunWithContext refreshes gauges until ctx is done, then shuts the gateway
// down. Intended to run under a supervisor.
func (g *Gateway) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(g.opts.StatsInterval)
	defer ticker.Stop()

	g.refreshGauges()
	for {
		select {
		case <-ctx.Done():
			closed := g.Shutdown()
			g.log.Info().
				Str("reason", string(shutdownReason(ctx))).
				Int("connections_closed", closed).
				Msg("realtime gateway stopped")
			return ctx.Err()
		case <-ticker.C:
			g.refreshGauges()
		}
	}
}

func shutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// mustEncode is for events whose encoding cannot fail.
func mustEncode(e events.Event) []byte {
	frame, err := events.Encode(e)
	if err != nil {
		panic(err)
	}
	return frame
}
