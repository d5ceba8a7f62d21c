// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/auth"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/events"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/metrics"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func setupGateway(t *testing.T) *Gateway {
	t.Helper()
	gw := NewGateway(DefaultOptions(), nil)
	gw.now = func() time.Time { return fixedNow }
	return gw
}

// connect registers a fake connection and, if principal is set, authenticates it.
func connect(t *testing.T, gw *Gateway, id, principal string) *fakeConn {
	t.Helper()
	c := newFakeConn(id)
	gw.Connect(c)
	if principal != "" {
		if err := gw.HandleFrame(context.Background(), c, []byte(`{"type":"auth","payload":"`+principal+`"}`)); err != nil {
			t.Fatalf("auth %s as %s: %v", id, principal, err)
		}
	}
	return c
}

func frame(t *testing.T, gw *Gateway, c Conn, data string) error {
	t.Helper()
	return gw.HandleFrame(context.Background(), c, []byte(data))
}

// reset drops frames recorded so far, typically presence noise.
func (f *fakeConn) reset() {
	f.mu.Lock()
	f.frames = nil
	f.mu.Unlock()
}

func TestGateway_EmitToUser_AllConnections(t *testing.T) {
	gw := setupGateway(t)
	a := connect(t, gw, "a", "u1")
	b := connect(t, gw, "b", "u1")
	other := connect(t, gw, "c", "u2")
	for _, c := range []*fakeConn{a, b, other} {
		c.reset()
	}

	n := gw.EmitToUser("u1", events.TaskCreated{Task: events.Task{ID: "t1"}})
	if n != 2 {
		t.Errorf("EmitToUser() = %d, want 2", n)
	}

	for _, c := range []*fakeConn{a, b} {
		got := c.received(t)
		if len(got) != 1 {
			t.Fatalf("%s received %d frames, want 1", c.id, len(got))
		}
		if got[0].EventName != events.NameTaskCreated || got[0].Payload["id"] != "t1" {
			t.Errorf("%s received %+v", c.id, got[0])
		}
	}
	if len(other.received(t)) != 0 {
		t.Error("u2 must not receive u1's events")
	}
}

func TestGateway_EmitToOfflineUser(t *testing.T) {
	gw := setupGateway(t)
	c := connect(t, gw, "a", "u1")
	c.reset()

	if n := gw.EmitToUser("u2", events.NotificationSent{Notification: events.Notification{ID: "n1"}}); n != 0 {
		t.Errorf("EmitToUser(offline) = %d, want 0", n)
	}
	if n := gw.Emit(EntityTopic("nobody-watching"), events.PlantDeleted{PlantID: "p9"}); n != 0 {
		t.Errorf("Emit(empty topic) = %d, want 0", n)
	}
	if len(c.received(t)) != 0 {
		t.Error("no frames expected")
	}
}

func TestGateway_BroadcastIgnoresSubscriptions(t *testing.T) {
	gw := setupGateway(t)
	subscribed := connect(t, gw, "a", "u1")
	plain := connect(t, gw, "b", "u2")
	anon := connect(t, gw, "c", "")
	if err := frame(t, gw, subscribed, `{"type":"subscribe:entity","payload":"p1"}`); err != nil {
		t.Fatal(err)
	}
	for _, c := range []*fakeConn{subscribed, plain, anon} {
		c.reset()
	}

	n := gw.Broadcast(events.PostCreated{ID: "post1", Title: "Repotting", Timestamp: fixedNow})
	if n != 3 {
		t.Errorf("Broadcast() = %d, want 3", n)
	}
	if n := gw.EmitToEntity("p1", events.PlantUpdated{Plant: events.Plant{ID: "p1"}}); n != 1 {
		t.Errorf("EmitToEntity() = %d, want 1", n)
	}

	if got := subscribed.names(t); !equalStrings(got, []string{events.NamePostCreated, events.NamePlantUpdated}) {
		t.Errorf("subscribed received %v", got)
	}
	if got := plain.names(t); !equalStrings(got, []string{events.NamePostCreated}) {
		t.Errorf("unsubscribed received %v", got)
	}
	if got := anon.names(t); !equalStrings(got, []string{events.NamePostCreated}) {
		t.Errorf("anonymous received %v", got)
	}
}

func TestGateway_FailingMemberIsolated(t *testing.T) {
	tests := []struct {
		name       string
		fail       error
		wantReason string
	}{
		{"slow consumer", ErrSendBufferFull, metrics.ReasonBufferFull},
		{"closed transport", ErrConnectionClosed, metrics.ReasonConnectionClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := setupGateway(t)
			conns := []*fakeConn{
				connect(t, gw, "a", "u1"),
				connect(t, gw, "b", "u1"),
				connect(t, gw, "c", "u1"),
			}
			for _, c := range conns {
				c.reset()
			}
			conns[1].fail = tt.fail
			dropped := testutil.ToFloat64(metrics.RealtimeFramesDropped.WithLabelValues(tt.wantReason))

			n := gw.EmitToUser("u1", events.TaskDeleted{TaskID: "t1"})
			if n != 2 {
				t.Errorf("EmitToUser() = %d, want 2", n)
			}
			for _, c := range []*fakeConn{conns[0], conns[2]} {
				if got := c.names(t); !equalStrings(got, []string{events.NameTaskDeleted}) {
					t.Errorf("%s received %v", c.id, got)
				}
			}
			if conns[1].closeCount() != 1 {
				t.Errorf("failing connection closed %d times, want 1", conns[1].closeCount())
			}
			if _, ok := gw.Registry().Get("b"); ok {
				t.Error("failing connection should be removed")
			}
			if got := testutil.ToFloat64(metrics.RealtimeFramesDropped.WithLabelValues(tt.wantReason)); got != dropped+1 {
				t.Errorf("frames dropped{%s} = %v, want %v", tt.wantReason, got, dropped+1)
			}
		})
	}
}

func TestGateway_PresenceBroadcasts(t *testing.T) {
	gw := setupGateway(t)
	watcher := connect(t, gw, "w", "watcher")
	watcher.reset()

	a := connect(t, gw, "a", "u1")
	connect(t, gw, "b", "u1")

	gw.Disconnect("a")
	gw.Disconnect("a")
	gw.Disconnect("b")

	got := watcher.received(t)
	if len(got) != 2 {
		t.Fatalf("watcher received %d frames, want online then offline", len(got))
	}
	if got[0].EventName != events.NameUserOnline || got[0].Payload["userId"] != "u1" {
		t.Errorf("first frame = %+v", got[0])
	}
	if got[1].EventName != events.NameUserOffline || got[1].Payload["userId"] != "u1" {
		t.Errorf("second frame = %+v", got[1])
	}
	if got[1].Payload["timestamp"] != fixedNow.Format(time.RFC3339) {
		t.Errorf("timestamp = %v", got[1].Payload["timestamp"])
	}
	if a.closeCount() != 1 {
		t.Errorf("Disconnect closed a %d times, want 1", a.closeCount())
	}
}

func TestGateway_HandleFrame(t *testing.T) {
	tests := []struct {
		name      string
		auth      bool
		data      string
		wantErr   error
		wantTopic string
	}{
		{"malformed json", true, `{"type":`, ErrMalformedFrame, ""},
		{"missing type", true, `{"payload":"x"}`, ErrMalformedFrame, ""},
		{"unknown type", true, `{"type":"subscribe:everything"}`, ErrUnknownFrameType, ""},
		{"subscribe before auth", false, `{"type":"subscribe:entity","payload":"p1"}`, ErrNotAuthenticated, ""},
		{"caretasks before auth", false, `{"type":"subscribe:caretasks"}`, ErrNotAuthenticated, ""},
		{"entity bare string", true, `{"type":"subscribe:entity","payload":"p1"}`, nil, "entity:p1"},
		{"entity object", true, `{"type":"subscribe:entity","payload":{"plantId":"p2"}}`, nil, "entity:p2"},
		{"entity missing id", true, `{"type":"subscribe:entity"}`, ErrInvalidPayload, ""},
		{"entity with colon", true, `{"type":"subscribe:entity","payload":"a:b"}`, ErrInvalidPayload, ""},
		{"entity number", true, `{"type":"subscribe:entity","payload":42}`, ErrInvalidPayload, ""},
		{"caretasks", true, `{"type":"subscribe:caretasks"}`, nil, "user:u1:caretasks"},
		{"weather", true, `{"type":"subscribe:weather","payload":{"locationKey":"oslo"}}`, nil, "weather:oslo"},
		{"empty auth", false, `{"type":"auth","payload":""}`, auth.ErrInvalidCredential, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := setupGateway(t)
			principal := ""
			if tt.auth {
				principal = "u1"
			}
			c := connect(t, gw, "c1", principal)
			before := gw.Rooms().TopicsOf("c1")

			err := frame(t, gw, c, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("HandleFrame() error = %v, want %v", err, tt.wantErr)
				}
				if got := gw.Rooms().TopicsOf("c1"); !equalStrings(got, before) {
					t.Errorf("rejected frame changed topics: %v -> %v", before, got)
				}
				if _, ok := gw.Registry().Get("c1"); !ok {
					t.Error("protocol errors must not close the connection")
				}
				return
			}
			if err != nil {
				t.Fatalf("HandleFrame() error = %v", err)
			}
			if !gw.Rooms().IsMember("c1", tt.wantTopic) {
				t.Errorf("not a member of %s; topics = %v", tt.wantTopic, gw.Rooms().TopicsOf("c1"))
			}
		})
	}
}

func TestGateway_Unsubscribe(t *testing.T) {
	gw := setupGateway(t)
	c := connect(t, gw, "c1", "u1")

	steps := []string{
		`{"type":"subscribe:entity","payload":"p1"}`,
		`{"type":"subscribe:caretasks"}`,
		`{"type":"subscribe:weather","payload":"oslo"}`,
		`{"type":"unsubscribe:entity","payload":{"entityId":"p1"}}`,
		`{"type":"unsubscribe:caretasks"}`,
		`{"type":"unsubscribe:weather","payload":{"location":"oslo"}}`,
	}
	for _, s := range steps {
		if err := frame(t, gw, c, s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	if got := gw.Rooms().TopicsOf("c1"); !equalStrings(got, []string{"user:u1"}) {
		t.Errorf("TopicsOf() = %v, want only user topic", got)
	}
}

func TestGateway_SubscribeAfterDisconnect(t *testing.T) {
	gw := setupGateway(t)
	c := connect(t, gw, "c1", "u1")
	gw.Disconnect("c1")

	for _, s := range []string{
		`{"type":"subscribe:entity","payload":"p1"}`,
		`{"type":"subscribe:caretasks"}`,
		`{"type":"subscribe:weather","payload":"oslo"}`,
	} {
		if err := frame(t, gw, c, s); !errors.Is(err, ErrUnknownConnection) {
			t.Errorf("%s: error = %v, want ErrUnknownConnection", s, err)
		}
	}
	if got := gw.Rooms().TopicsOf("c1"); len(got) != 0 {
		t.Errorf("TopicsOf() = %v, want none", got)
	}
	if n := gw.Stats().Topics; n != 0 {
		t.Errorf("Stats().Topics = %d, want 0", n)
	}
}

func TestGateway_CareTaskScope(t *testing.T) {
	gw := setupGateway(t)
	scoped := connect(t, gw, "a", "u1")
	plain := connect(t, gw, "b", "u1")
	if err := frame(t, gw, scoped, `{"type":"subscribe:caretasks"}`); err != nil {
		t.Fatal(err)
	}
	scoped.reset()
	plain.reset()

	if n := gw.EmitToUserScope("u1", ScopeCareTasks, events.TaskSnoozed{TaskID: "t1", NewDueDate: fixedNow}); n != 1 {
		t.Errorf("EmitToUserScope() = %d, want 1", n)
	}
	if len(plain.received(t)) != 0 {
		t.Error("plain connection did not subscribe to caretasks")
	}
}

func TestGateway_WeatherTopic(t *testing.T) {
	gw := setupGateway(t)
	c := connect(t, gw, "a", "u1")
	if err := frame(t, gw, c, `{"type":"subscribe:weather","payload":"berlin"}`); err != nil {
		t.Fatal(err)
	}
	c.reset()

	if n := gw.EmitToWeather("berlin", events.WeatherUpdated{LocationKey: "berlin"}); n != 1 {
		t.Errorf("EmitToWeather() = %d, want 1", n)
	}
	if n := gw.EmitToWeather("paris", events.WeatherUpdated{LocationKey: "paris"}); n != 0 {
		t.Errorf("EmitToWeather(unsubscribed) = %d, want 0", n)
	}
}

func TestGateway_Ping(t *testing.T) {
	gw := setupGateway(t)
	c := connect(t, gw, "a", "")

	if err := frame(t, gw, c, `{"type":"ping"}`); err != nil {
		t.Fatalf("ping error = %v", err)
	}
	if got := c.names(t); !equalStrings(got, []string{events.NamePong}) {
		t.Errorf("received %v, want pong", got)
	}
}

func TestGateway_Reauth(t *testing.T) {
	gw := setupGateway(t)
	c := connect(t, gw, "a", "u1")
	for _, s := range []string{
		`{"type":"subscribe:caretasks"}`,
		`{"type":"subscribe:entity","payload":"p1"}`,
		`{"type":"auth","payload":{"principalId":"u2"}}`,
	} {
		if err := frame(t, gw, c, s); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"entity:p1", "user:u2"}
	if got := gw.Rooms().TopicsOf("a"); !equalStrings(got, want) {
		t.Errorf("TopicsOf() = %v, want %v", got, want)
	}
	c.reset()
	if n := gw.EmitToUser("u1", events.TaskDeleted{TaskID: "t1"}); n != 0 {
		t.Errorf("stale principal still receives events: %d", n)
	}
	if n := gw.EmitToUserScope("u1", ScopeCareTasks, events.TaskDeleted{TaskID: "t1"}); n != 0 {
		t.Errorf("stale scope still receives events: %d", n)
	}
}

func TestGateway_JWTAuth(t *testing.T) {
	resolver, err := auth.NewJWTResolver("0123456789abcdef0123456789abcdef", "cultiva")
	if err != nil {
		t.Fatal(err)
	}
	token, err := resolver.IssueToken("u7", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	gw := NewGateway(DefaultOptions(), resolver)
	c := newFakeConn("a")
	gw.Connect(c)

	if err := frame(t, gw, c, `{"type":"auth","payload":"not-a-token"}`); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Fatalf("bad token error = %v", err)
	}
	if err := frame(t, gw, c, `{"type":"auth","payload":{"token":"`+token+`"}}`); err != nil {
		t.Fatalf("valid token error = %v", err)
	}
	if p, _ := gw.Registry().PrincipalOf("a"); p != "u7" {
		t.Errorf("principal = %q, want u7", p)
	}
}

func TestGateway_ShutdownClosesEverything(t *testing.T) {
	gw := setupGateway(t)
	watcher := connect(t, gw, "w", "watcher")
	a := connect(t, gw, "a", "u1")
	watcher.reset()

	if n := gw.Shutdown(); n != 2 {
		t.Errorf("Shutdown() = %d, want 2", n)
	}
	if a.closeCount() != 1 || watcher.closeCount() != 1 {
		t.Error("every connection should be closed once")
	}
	if s := gw.Stats(); s != (Stats{}) {
		t.Errorf("Stats() after shutdown = %+v", s)
	}
	if len(watcher.received(t)) != 0 {
		t.Error("shutdown must not broadcast presence")
	}
}

func TestGateway_RunWithContext(t *testing.T) {
	opts := DefaultOptions()
	opts.StatsInterval = 10 * time.Millisecond
	gw := NewGateway(opts, nil)
	c := newFakeConn("a")
	gw.Connect(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gw.RunWithContext(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}
	if c.closeCount() != 1 {
		t.Error("connections should be closed on stop")
	}
}

func TestGateway_StatsAndPresence(t *testing.T) {
	gw := setupGateway(t)
	connect(t, gw, "a", "u1")
	b := connect(t, gw, "b", "u1")
	connect(t, gw, "c", "")
	_ = frame(t, gw, b, `{"type":"subscribe:entity","payload":"p1"}`)

	want := Stats{Connections: 3, PrincipalsOnline: 1, Topics: 2}
	if got := gw.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
	online, n := gw.Presence("u1")
	if !online || n != 2 {
		t.Errorf("Presence(u1) = %v, %d", online, n)
	}
	if online, n := gw.Presence("ghost"); online || n != 0 {
		t.Errorf("Presence(ghost) = %v, %d", online, n)
	}
}

func TestProtocolReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotAuthenticated, metrics.ReasonNotAuthenticated},
		{ErrUnknownFrameType, metrics.ReasonUnknownType},
		{ErrInvalidPayload, metrics.ReasonInvalidPayload},
		{auth.ErrInvalidCredential, metrics.ReasonInvalidToken},
		{ErrRateLimited, metrics.ReasonRateLimited},
		{ErrMalformedFrame, metrics.ReasonMalformedFrame},
		{errors.New("other"), metrics.ReasonMalformedFrame},
	}
	for _, tt := range tests {
		if got := protocolReason(tt.err); got != tt.want {
			t.Errorf("protocolReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	gw := NewGateway(Options{}, nil)
	if !reflect.DeepEqual(gw.opts, DefaultOptions()) {
		t.Errorf("zero Options should fall back to defaults, got %+v", gw.opts)
	}
	if got := DefaultOptions().pingPeriod(); got != 54*time.Second {
		t.Errorf("pingPeriod() = %v", got)
	}
}
