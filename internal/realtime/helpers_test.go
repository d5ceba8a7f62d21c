// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import (
	"io"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// fakeConn records frames in memory. fail, if set, is returned by Enqueue.
type fakeConn struct {
	id string

	mu     sync.Mutex
	frames [][]byte
	fail   error
	closed int
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Enqueue(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	if f.closed > 0 {
		return ErrConnectionClosed
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

func (f *fakeConn) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// received decodes every frame as an envelope with a generic payload.
func (f *fakeConn) received(t *testing.T) []envelope {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]envelope, 0, len(f.frames))
	for _, raw := range f.frames {
		var e envelope
		if err := json.Unmarshal(raw, &e); err != nil {
			t.Fatalf("frame %s is not an envelope: %v", raw, err)
		}
		out = append(out, e)
	}
	return out
}

// names returns the eventName of each received frame.
func (f *fakeConn) names(t *testing.T) []string {
	t.Helper()
	envs := f.received(t)
	names := make([]string, len(envs))
	for i, e := range envs {
		names[i] = e.EventName
	}
	return names
}

type envelope struct {
	EventName string         `json:"eventName"`
	Payload   map[string]any `json:"payload"`
}

// presenceRecorder collects presence callbacks.
type presenceRecorder struct {
	mu     sync.Mutex
	events []presenceEvent
}

type presenceEvent struct {
	principal string
	online    bool
}

func (p *presenceRecorder) record(principal string, online bool) {
	p.mu.Lock()
	p.events = append(p.events, presenceEvent{principal, online})
	p.mu.Unlock()
}

func (p *presenceRecorder) snapshot() []presenceEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]presenceEvent(nil), p.events...)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
