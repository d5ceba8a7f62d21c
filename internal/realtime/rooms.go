// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import (
	"sort"
	"sync"
)

// Rooms tracks topic membership in both directions.
//
// Topics exist only while they have members: Join creates them and the last
// Leave deletes them. The Broadcast topic is never stored; its members are
// whatever the population function returns, normally every connection in
// the Registry. Rooms never calls the population function while holding its
// own lock.
type Rooms struct {
	mu       sync.RWMutex
	members  map[string]map[string]struct{} // topic -> conn ids
	joined   map[string]map[string]struct{} // conn id -> topics
	everyone func() []string
}

// NewRooms returns an empty manager. everyone resolves Broadcast; nil means
// Broadcast has no members.
func NewRooms(everyone func() []string) *Rooms {
	return &Rooms{
		members:  make(map[string]map[string]struct{}),
		joined:   make(map[string]map[string]struct{}),
		everyone: everyone,
	}
}

// Join adds connID to topic. It reports whether membership changed.
// Joining Broadcast is a no-op.
func (r *Rooms) Join(connID, topic string) bool {
	if topic == Broadcast || topic == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[topic]
	if !ok {
		set = make(map[string]struct{})
		r.members[topic] = set
	}
	if _, dup := set[connID]; dup {
		return false
	}
	set[connID] = struct{}{}

	topics, ok := r.joined[connID]
	if !ok {
		topics = make(map[string]struct{})
		r.joined[connID] = topics
	}
	topics[topic] = struct{}{}
	return true
}

// Leave removes connID from topic. It reports whether membership changed.
func (r *Rooms) Leave(connID, topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(connID, topic)
}

func (r *Rooms) leaveLocked(connID, topic string) bool {
	set, ok := r.members[topic]
	if !ok {
		return false
	}
	if _, in := set[connID]; !in {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.members, topic)
	}
	if topics, ok := r.joined[connID]; ok {
		delete(topics, topic)
		if len(topics) == 0 {
			delete(r.joined, connID)
		}
	}
	return true
}

// LeaveAll removes connID from every topic and returns how many it left.
func (r *Rooms) LeaveAll(connID string) int {
	return r.LeaveMatching(connID, func(string) bool { return true })
}

// LeaveMatching removes connID from every topic for which match returns true.
func (r *Rooms) LeaveMatching(connID string, match func(topic string) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var left []string
	for topic := range r.joined[connID] {
		if match(topic) {
			left = append(left, topic)
		}
	}
	for _, topic := range left {
		r.leaveLocked(connID, topic)
	}
	return len(left)
}

// MembersOf returns a snapshot of topic's members in stable order. Unknown
// and empty topics yield an empty, non-nil slice.
//
// Broadcast is resolved against the population function rather than stored
// membership, so it always equals the set of registered connections, whether
// or not they have authenticated.
func (r *Rooms) MembersOf(topic string) []string {
	if topic == Broadcast {
		if r.everyone == nil {
			return []string{}
		}
		ids := r.everyone()
		if ids == nil {
			ids = []string{}
		}
		return ids
	}

	r.mu.RLock()
	set := r.members[topic]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// TopicsOf returns the topics connID has joined, sorted.
func (r *Rooms) TopicsOf(connID string) []string {
	r.mu.RLock()
	topics := make([]string, 0, len(r.joined[connID]))
	for t := range r.joined[connID] {
		topics = append(topics, t)
	}
	r.mu.RUnlock()

	sort.Strings(topics)
	return topics
}

// IsMember reports whether connID has joined topic.
func (r *Rooms) IsMember(connID, topic string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[topic][connID]
	return ok
}

// TopicCount is the number of materialized topics.
func (r *Rooms) TopicCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// reset drops all membership.
func (r *Rooms) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = make(map[string]map[string]struct{})
	r.joined = make(map[string]map[string]struct{})
}
