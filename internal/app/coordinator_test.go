package app

import (
	"testing"

	"github.com/LtsTibby/connectsite/internal/core"
	"github.com/LtsTibby/connectsite/internal/domain"
)

func TestJoinSequence(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "A")
	b := connect(c, "B")

	c.Join("A", domain.Participant{UserID: "alice"}, "r")

	evs := a.events(t)
	if len(evs) != 2 {
		t.Fatalf("A got %d events, want 2: %v", len(evs), evs)
	}
	if evs[0]["type"] != core.TypeJoined || evs[0]["selfId"] != "A" {
		t.Fatalf("first event %v, want joined ack", evs[0])
	}
	if ids := participantIDs(t, evs[0]); len(ids) != 0 {
		t.Fatalf("joined ack for first member lists others: %v", ids)
	}
	if evs[1]["type"] != core.TypeParticipantUpdate {
		t.Fatalf("second event %v, want participant-update", evs[1])
	}
	a.reset()

	c.Join("B", domain.Participant{UserID: "bob"}, "r")

	bevs := b.events(t)
	if len(bevs) != 2 {
		t.Fatalf("B got %d events, want 2: %v", len(bevs), bevs)
	}
	if bevs[0]["type"] != core.TypeJoined || bevs[0]["selfId"] != "B" {
		t.Fatalf("B first event %v", bevs[0])
	}
	ids := participantIDs(t, bevs[0])
	if len(ids) != 1 || !ids["A"] {
		t.Fatalf("B's joined ack lists %v, want just A", ids)
	}
	if got := participantIDs(t, bevs[1]); len(got) != 2 || !got["A"] || !got["B"] {
		t.Fatalf("B's update lists %v, want A and B", got)
	}

	aevs := a.events(t)
	if len(aevs) != 2 {
		t.Fatalf("A got %d events after B joined, want 2: %v", len(aevs), aevs)
	}
	if aevs[0]["type"] != core.TypeParticipantArrived || aevs[0]["id"] != "B" || aevs[0]["userId"] != "bob" {
		t.Fatalf("A's arrival notice %v", aevs[0])
	}
	if got := participantIDs(t, aevs[1]); len(got) != 2 || !got["A"] || !got["B"] {
		t.Fatalf("A's update lists %v, want A and B", got)
	}
}

func TestJoinEmptyUserIDRejected(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "A")

	c.Join("A", domain.Participant{UserID: "   "}, "r")

	evs := a.events(t)
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1: %v", len(evs), evs)
	}
	if evs[0]["type"] != core.TypeRejected || evs[0]["code"] != core.CodeInvalidJoin {
		t.Fatalf("event %v, want rejected INVALID_JOIN", evs[0])
	}
	if _, ok := c.Registry.Get("A"); ok {
		t.Fatal("rejected join created a session")
	}
	if c.Directory.Has("r") {
		t.Fatal("rejected join created a room")
	}
}

type denyUser struct{ user string }

func (d denyUser) CanJoin(userID string, _ domain.RoomName) bool { return userID != d.user }

func TestAdmissionRejection(t *testing.T) {
	c := NewCoordinator(NewRegistry(), NewDirectory(), denyUser{user: "mallory"}, "main")
	a := connect(c, "A")
	b := connect(c, "B")

	c.Join("B", domain.Participant{UserID: "bob"}, "r")
	b.reset()

	c.Join("A", domain.Participant{UserID: "mallory"}, "r")

	evs := a.events(t)
	if len(evs) != 1 || evs[0]["type"] != core.TypeRejected || evs[0]["code"] != core.CodeForbidden {
		t.Fatalf("requester events %v, want single rejected FORBIDDEN", evs)
	}
	if len(b.events(t)) != 0 {
		t.Fatal("admission rejection leaked a broadcast to the room")
	}
	if _, ok := c.Registry.Get("A"); ok {
		t.Fatal("forbidden join created a session")
	}
	if n := c.Directory.MemberCount("r"); n != 1 {
		t.Fatalf("room member count = %d, want 1", n)
	}
}

func TestJoinRoomNormalizationAndFallback(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "A")
	connect(c, "B")

	c.Join("A", domain.Participant{UserID: "alice"}, "My Room!")
	s, _ := c.Registry.Get("A")
	if s.Room != "myroom" {
		t.Fatalf("room = %q, want myroom", s.Room)
	}

	c.Join("B", domain.Participant{UserID: "bob"}, "???")
	s, _ = c.Registry.Get("B")
	if s.Room != "main" {
		t.Fatalf("room = %q, want default main", s.Room)
	}
}

func TestSetMuted(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "A")
	b := connect(c, "B")
	c.Join("A", domain.Participant{UserID: "alice"}, "r")
	c.Join("B", domain.Participant{UserID: "bob"}, "r")
	a.reset()
	b.reset()

	c.SetMuted("A", true)

	for name, fc := range map[string]*fakeConn{"A": a, "B": b} {
		evs := fc.events(t)
		if len(evs) != 1 || evs[0]["type"] != core.TypeParticipantUpdate {
			t.Fatalf("%s events %v, want single participant-update", name, evs)
		}
		if m := findParticipant(t, evs[0], "A"); m["muted"] != true {
			t.Fatalf("%s sees A unmuted: %v", name, m)
		}
		if m := findParticipant(t, evs[0], "B"); m["muted"] != false {
			t.Fatalf("%s sees B muted: %v", name, m)
		}
	}
}

func TestSetMutedUnknownConnNoop(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "A")
	c.Join("A", domain.Participant{UserID: "alice"}, "r")
	a.reset()

	c.SetMuted("ghost", true)

	if len(a.events(t)) != 0 {
		t.Fatal("mute update for an unknown connection produced a broadcast")
	}
}

func TestDisconnectRemovalIdempotent(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "A")
	b := connect(c, "B")
	c.Join("A", domain.Participant{UserID: "alice"}, "r")
	c.Join("B", domain.Participant{UserID: "bob"}, "r")
	a.reset()
	b.reset()

	c.HandleDisconnect("A")
	c.HandleDisconnect("A")
	c.Leave("A")

	evs := b.events(t)
	if len(evs) != 2 {
		t.Fatalf("B got %d events, want exactly 2 (one removal): %v", len(evs), evs)
	}
	if evs[0]["type"] != core.TypePeerDeparted || evs[0]["id"] != "A" {
		t.Fatalf("first event %v, want peer-departed A", evs[0])
	}
	if got := participantIDs(t, evs[1]); len(got) != 1 || !got["B"] {
		t.Fatalf("update lists %v, want just B", got)
	}
	if len(a.events(t)) != 0 {
		t.Fatal("departed connection received events")
	}
	if _, ok := c.Registry.Get("A"); ok {
		t.Fatal("session survives disconnect")
	}
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "A")
	c.Join("A", domain.Participant{UserID: "alice"}, "r")

	c.Leave("A")

	if c.Directory.Has("r") {
		t.Fatal("room persists after last member left")
	}
}

func TestDuplicateJoinMovesRooms(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "A")
	b := connect(c, "B")
	c.Join("A", domain.Participant{UserID: "alice"}, "one")
	c.Join("B", domain.Participant{UserID: "bob"}, "one")
	a.reset()
	b.reset()

	c.Join("A", domain.Participant{UserID: "alice"}, "two")

	// Old room saw a departure before the new membership was applied.
	bevs := b.events(t)
	if len(bevs) != 2 || bevs[0]["type"] != core.TypePeerDeparted || bevs[0]["id"] != "A" {
		t.Fatalf("old-room events %v, want peer-departed then update", bevs)
	}
	if got := participantIDs(t, bevs[1]); len(got) != 1 || !got["B"] {
		t.Fatalf("old-room update lists %v, want just B", got)
	}

	s, ok := c.Registry.Get("A")
	if !ok || s.Room != "two" {
		t.Fatalf("session %+v, want room two", s)
	}
	one := c.Directory.ListMembers("one")
	if len(one) != 1 || one[0].ID != "B" {
		t.Fatalf("room one members %v, want just B", one)
	}
	two := c.Directory.ListMembers("two")
	if len(two) != 1 || two[0].ID != "A" {
		t.Fatalf("room two members %v, want just A", two)
	}
}

func TestEvictRoom(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "A")
	connect(c, "B")
	c.Join("A", domain.Participant{UserID: "alice"}, "r")
	c.Join("B", domain.Participant{UserID: "bob"}, "r")

	c.EvictRoom("r")

	if c.Directory.Has("r") {
		t.Fatal("room persists after eviction")
	}
	for _, id := range []core.ConnID{"A", "B"} {
		if _, ok := c.Registry.Get(id); ok {
			t.Fatalf("session %s survives eviction", id)
		}
	}
}

func TestBroadcastToleratesFailedRecipient(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "A")
	b := connect(c, "B")
	c.Join("A", domain.Participant{UserID: "alice"}, "r")
	c.Join("B", domain.Participant{UserID: "bob"}, "r")
	a.reset()
	b.fail = true

	c.SetMuted("A", true)

	evs := a.events(t)
	if len(evs) != 1 || evs[0]["type"] != core.TypeParticipantUpdate {
		t.Fatalf("healthy recipient events %v, want one participant-update", evs)
	}
}

func TestJoinPreservesExtensionFields(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "A")
	c.Join("A", domain.Participant{
		UserID:     "alice",
		ExternalID: 42,
		Active:     true,
		Position:   &domain.Position{X: 1, Y: 2, Z: 3},
	}, "r")

	evs := a.events(t)
	m := findParticipant(t, evs[1], "A")
	if m["extId"] != float64(42) || m["active"] != true {
		t.Fatalf("extension fields dropped: %v", m)
	}
	pos := m["position"].(map[string]any)
	if pos["x"] != float64(1) || pos["z"] != float64(3) {
		t.Fatalf("position mangled: %v", pos)
	}
}
