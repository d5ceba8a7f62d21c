// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package eventbus

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/events"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/metrics"
)

// Emitter is the part of the realtime gateway the bus drives.
type Emitter interface {
	EmitToUser(principalID string, e events.Event) int
	EmitToEntity(entityID string, e events.Event) int
	EmitToUserScope(principalID, scope string, e events.Event) int
	EmitToWeather(locationKey string, e events.Event) int
	Broadcast(e events.Event) int
}

// Record is what listeners see for every bus call.
type Record struct {
	Kind        string       `json:"kind"`
	PrincipalID string       `json:"principalId,omitempty"`
	EntityID    string       `json:"entityId,omitempty"`
	Event       events.Event `json:"payload"`
	OccurredAt  time.Time    `json:"occurredAt"`
	Delivered   int          `json:"delivered"`
}

// Listener is notified synchronously after the gateway emits.
type Listener func(Record)

// Bus turns domain mutations into realtime events. Methods never return
// errors; a failed or empty delivery is invisible to the producer.
type Bus struct {
	gw  Emitter
	now func() time.Time
	log zerolog.Logger

	mu        sync.RWMutex
	listeners map[uint64]Listener
	nextID    uint64
}

// New returns a bus emitting through gw.
func New(gw Emitter) *Bus {
	return &Bus{
		gw:        gw,
		now:       time.Now,
		log:       logging.WithComponent("eventbus"),
		listeners: make(map[uint64]Listener),
	}
}

// Subscribe adds l and returns a func that removes it. The returned func is
// safe to call more than once.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// ListenerCount is the number of subscribed listeners.
func (b *Bus) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// publish records the call and notifies listeners in subscription order,
// outside the bus lock.
func (b *Bus) publish(principalID, entityID string, e events.Event, delivered int) {
	kind := e.Name()
	metrics.RecordBusEvent(kind, delivered)

	b.log.Debug().
		Str("event", kind).
		Str("principal_id", principalID).
		Str("entity_id", entityID).
		Int("delivered", delivered).
		Msg("domain event emitted")

	b.mu.RLock()
	if len(b.listeners) == 0 {
		b.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ls := make([]Listener, len(ids))
	for i, id := range ids {
		ls[i] = b.listeners[id]
	}
	b.mu.RUnlock()

	rec := Record{
		Kind:        kind,
		PrincipalID: principalID,
		EntityID:    entityID,
		Event:       e,
		OccurredAt:  b.now().UTC(),
		Delivered:   delivered,
	}
	for _, l := range ls {
		b.notify(l, rec)
	}
}

func (b *Bus) notify(l Listener, rec Record) {
	defer func() {
		if r := recover(); r != nil {
			metrics.BusListenerPanics.Inc()
			b.log.Error().
				Str("event", rec.Kind).
				Str("panic", fmt.Sprint(r)).
				Msg("event bus listener panicked")
		}
	}()
	l(rec)
}
