// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
)

// Client is one websocket connection. Frames queued with Enqueue are written
// by its write pump; client frames are read by its read pump and applied
// through the gateway.
type Client struct {
	id        string
	gw        *Gateway
	conn      *websocket.Conn
	send      chan []byte
	limiter   *rate.Limiter
	log       zerolog.Logger
	createdAt time.Time

	mu     sync.Mutex
	closed bool
}

// NewClient wraps an upgraded connection. It is not registered until Start.
func NewClient(gw *Gateway, conn *websocket.Conn) *Client {
	id := uuid.NewString()
	return &Client{
		id:        id,
		gw:        gw,
		conn:      conn,
		send:      make(chan []byte, gw.opts.SendBuffer),
		limiter:   rate.NewLimiter(rate.Limit(gw.opts.InboundRate), gw.opts.InboundBurst),
		log:       logging.With().Str("component", "realtime-client").Str("conn_id", id).Logger(),
		createdAt: time.Now(),
	}
}

// ID returns the connection id.
func (c *Client) ID() string {
	return c.id
}

// Enqueue queues a frame for the write pump without blocking.
func (c *Client) Enqueue(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close stops delivery. The write pump sends a close frame and closes the
// socket once it drains the channel.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Start registers the client and begins reading and writing.
func (c *Client) Start() {
	c.gw.Connect(c)
	go c.writePump()
	go c.readPump()
}

// readPump applies client frames until the socket fails.
func (c *Client) readPump() {
	defer func() {
		c.gw.Disconnect(c.id)
		_ = c.conn.Close() // best-effort cleanup
		c.log.Debug().Dur("connected_for", time.Since(c.createdAt)).Msg("read pump stopped")
	}()

	opts := c.gw.opts
	c.conn.SetReadLimit(opts.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(opts.PongWait)); err != nil {
		c.log.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	})

	// The upgrade request context ends with the handshake.
	ctx := logging.ContextWithLogger(context.Background(), c.log)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				c.gw.protocolError(c.id, err)
			case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure):
				c.log.Warn().Err(err).Msg("unexpected websocket close error")
			}
			return
		}

		if !c.limiter.Allow() {
			c.gw.protocolError(c.id, ErrRateLimited)
			continue
		}
		if err := c.gw.HandleFrame(ctx, c, data); err != nil {
			c.gw.protocolError(c.id, err)
		}
	}
}

// writePump writes queued frames and keepalive pings.
func (c *Client) writePump() {
	opts := c.gw.opts
	ticker := time.NewTicker(opts.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // best-effort cleanup
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait)); err != nil {
				c.log.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// Closed by the gateway.
				if err := c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
					c.log.Debug().Err(err).Msg("failed to write close message")
				}
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug().Err(err).Msg("failed to write frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait)); err != nil {
				c.log.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades r and starts a client for it.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      g.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	NewClient(g, conn).Start()
}

// checkOrigin validates the handshake Origin header.
//
// With no configured origins only same-host browsers are accepted, and
// clients that send no Origin (mobile apps, scripts) are let through. With a
// configured list, "*" accepts anything and otherwise the Origin must match
// an entry exactly.
func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	allowed := g.opts.AllowedOrigins

	if len(allowed) == 0 {
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
		g.log.Warn().Str("origin", sanitizeOrigin(origin)).Msg("websocket rejected from cross-origin request")
		return false
	}

	for _, o := range allowed {
		if o == "*" || (origin != "" && o == origin) {
			return true
		}
	}

	if origin == "" {
		g.log.Warn().Msg("websocket rejected: missing Origin header")
	} else {
		g.log.Warn().Str("origin", sanitizeOrigin(origin)).Msg("websocket rejected from unauthorized origin")
	}
	return false
}

// sanitizeOrigin strips control characters and bounds length for logging.
func sanitizeOrigin(s string) string {
	const maxLen = 200
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
