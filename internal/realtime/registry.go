// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import (
	"sort"
	"sync"
	"time"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
)

// Conn is the delivery side of one live connection.
type Conn interface {
	ID() string
	// Enqueue queues a pre-encoded frame without blocking.
	Enqueue(frame []byte) error
	// Close stops delivery and closes the transport. Idempotent.
	Close()
}

// PresenceFunc is told when a principal gains its first connection or loses
// its last one.
type PresenceFunc func(principalID string, online bool)

// Registry is the set of live connections and the principal each one has
// authenticated as. It owns the Rooms so that connection removal and
// membership removal happen together.
//
// Lock order is Registry then Rooms. Presence callbacks run after the
// Registry lock is released.
type Registry struct {
	mu         sync.RWMutex
	conns      map[string]*registration
	principals map[string]map[string]struct{} // principal -> conn ids
	rooms      *Rooms
	onPresence PresenceFunc
}

type registration struct {
	conn      Conn
	principal string
	createdAt time.Time
}

// NewRegistry returns an empty registry. onPresence may be nil.
func NewRegistry(onPresence PresenceFunc) *Registry {
	r := &Registry{
		conns:      make(map[string]*registration),
		principals: make(map[string]map[string]struct{}),
		onPresence: onPresence,
	}
	r.rooms = NewRooms(r.ConnectionIDs)
	return r
}

// Rooms returns the topic manager bound to this registry.
func (r *Registry) Rooms() *Rooms {
	return r.rooms
}

// Register adds an anonymous connection. Registering an id twice replaces
// the transport but keeps the principal and memberships.
func (r *Registry) Register(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg, ok := r.conns[c.ID()]; ok {
		reg.conn = c
		return
	}
	r.conns[c.ID()] = &registration{conn: c, createdAt: time.Now()}
}

// AttachPrincipal binds connID to principalID and joins user:<principalID>.
//
// Attaching the principal the connection already has is a no-op. Attaching a
// different principal first leaves every user:<old> and user:<old>:* topic
// and, if that was the old principal's last connection, reports it offline.
// The first connection of a principal reports it online.
func (r *Registry) AttachPrincipal(connID, principalID string) error {
	if principalID == "" {
		return ErrEmptyPrincipal
	}

	r.mu.Lock()
	reg, ok := r.conns[connID]
	if !ok {
		r.mu.Unlock()
		return ErrUnknownConnection
	}
	if reg.principal == principalID {
		r.mu.Unlock()
		return nil
	}

	previous := reg.principal
	previousOffline := false
	if previous != "" {
		r.rooms.LeaveMatching(connID, func(topic string) bool {
			return isPrincipalTopic(topic, previous)
		})
		previousOffline = r.detachLocked(connID, previous)
	}

	reg.principal = principalID
	set, online := r.principals[principalID]
	if !online {
		set = make(map[string]struct{})
		r.principals[principalID] = set
	}
	set[connID] = struct{}{}
	r.rooms.Join(connID, UserTopic(principalID))
	r.mu.Unlock()

	if previous != "" {
		logging.Info().
			Str("conn_id", connID).
			Str("principal_id", principalID).
			Str("previous_principal_id", previous).
			Msg("connection re-authenticated")
	}
	if previousOffline {
		r.notify(previous, false)
	}
	if !online {
		r.notify(principalID, true)
	}
	return nil
}

// JoinIfRegistered joins connID to topic only while the connection is still
// registered as principalID. Registration and membership are checked and
// changed under the Registry lock, so a concurrent Remove cannot be undone
// by a late join.
func (r *Registry) JoinIfRegistered(connID, principalID, topic string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.conns[connID]
	if !ok {
		return ErrUnknownConnection
	}
	if reg.principal == "" || reg.principal != principalID {
		return ErrNotAuthenticated
	}
	r.rooms.Join(connID, topic)
	return nil
}

// detachLocked removes connID from principal's set and reports whether the
// principal has no connections left. Caller holds r.mu.
func (r *Registry) detachLocked(connID, principalID string) bool {
	set, ok := r.principals[principalID]
	if !ok {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.principals, principalID)
		return true
	}
	return false
}

// Remove drops connID and all its memberships. It reports whether the
// connection was registered; removing twice is a silent no-op.
func (r *Registry) Remove(connID string) bool {
	r.mu.Lock()
	reg, ok := r.conns[connID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.conns, connID)
	topics := r.rooms.LeaveAll(connID)
	offline := reg.principal != "" && r.detachLocked(connID, reg.principal)
	r.mu.Unlock()

	logging.Debug().
		Str("conn_id", connID).
		Str("principal_id", reg.principal).
		Int("topics_left", topics).
		Dur("connected_for", time.Since(reg.createdAt)).
		Msg("connection removed")

	if offline {
		r.notify(reg.principal, false)
	}
	return true
}

// Drain empties the registry without presence notifications and returns the
// connections that were registered, for shutdown.
func (r *Registry) Drain() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Conn, 0, len(r.conns))
	for _, reg := range r.conns {
		out = append(out, reg.conn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })

	r.conns = make(map[string]*registration)
	r.principals = make(map[string]map[string]struct{})
	r.rooms.reset()
	return out
}

func (r *Registry) notify(principalID string, online bool) {
	if r.onPresence != nil {
		r.onPresence(principalID, online)
	}
}

// Get returns the connection registered under connID.
func (r *Registry) Get(connID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	return reg.conn, true
}

// Connections returns every registered connection, ordered by id.
func (r *Registry) Connections() []Conn {
	r.mu.RLock()
	out := make([]Conn, 0, len(r.conns))
	for _, reg := range r.conns {
		out = append(out, reg.conn)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// ConnectionIDs returns every registered connection id, sorted.
func (r *Registry) ConnectionIDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// PrincipalOf returns the principal bound to connID ("" while anonymous) and
// whether the connection is registered at all.
func (r *Registry) PrincipalOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.conns[connID]
	if !ok {
		return "", false
	}
	return reg.principal, true
}

// IsOnline reports whether principalID has at least one connection.
func (r *Registry) IsOnline(principalID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.principals[principalID]) > 0
}

// ConnectionsOf returns the connection ids of principalID, sorted.
func (r *Registry) ConnectionsOf(principalID string) []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.principals[principalID]))
	for id := range r.principals[principalID] {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Count is the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// PrincipalCount is the number of principals online.
func (r *Registry) PrincipalCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.principals)
}
