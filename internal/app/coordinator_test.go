package app

import (
	"encoding/json"
	"testing"

	"github.com/chitchat/realtime/internal/proto"
)

func TestCoordinatorDial(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	bob := &fakeConn{}
	reg.Attach("c1", bob)
	reg.Register("bob", "c1")

	NewCoordinator(reg).Dial("alice", "bob", "Alice")

	ev := bob.lastEvent(t)
	if ev["type"] != proto.TypeCallIncoming {
		t.Errorf("type: got %v, want %v", ev["type"], proto.TypeCallIncoming)
	}
	if ev["fromIdentity"] != "alice" {
		t.Errorf("fromIdentity: got %v, want alice", ev["fromIdentity"])
	}
	if ev["displayName"] != "Alice" {
		t.Errorf("displayName: got %v, want Alice", ev["displayName"])
	}
}

func TestCoordinatorOfferCarriesSignal(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	bob := &fakeConn{}
	reg.Attach("c1", bob)
	reg.Register("bob", "c1")

	signal := json.RawMessage(`{"sdp":"v=0","type":"offer"}`)
	NewCoordinator(reg).Offer("alice", "bob", "Alice", signal)

	ev := bob.lastEvent(t)
	if ev["type"] != proto.TypeCallOffer {
		t.Errorf("type: got %v, want %v", ev["type"], proto.TypeCallOffer)
	}
	payload, ok := ev["signalPayload"].(map[string]any)
	if !ok {
		t.Fatalf("signalPayload: got %T, want object", ev["signalPayload"])
	}
	if payload["sdp"] != "v=0" {
		t.Errorf("signalPayload.sdp: got %v, want v=0", payload["sdp"])
	}
}

func TestCoordinatorAnswerReachesCaller(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	alice := &fakeConn{}
	reg.Attach("c1", alice)
	reg.Register("alice", "c1")

	NewCoordinator(reg).Answer("alice", json.RawMessage(`{"type":"answer"}`))

	ev := alice.lastEvent(t)
	if ev["type"] != proto.TypeCallAccepted {
		t.Errorf("type: got %v, want %v", ev["type"], proto.TypeCallAccepted)
	}
}

func TestCoordinatorEnd(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	bob := &fakeConn{}
	reg.Attach("c1", bob)
	reg.Register("bob", "c1")

	NewCoordinator(reg).End("bob")

	ev := bob.lastEvent(t)
	if ev["type"] != proto.TypeCallEnded {
		t.Errorf("type: got %v, want %v", ev["type"], proto.TypeCallEnded)
	}
}

func TestCoordinatorUnreachablePeerNoOp(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	c := NewCoordinator(reg)
	c.Dial("alice", "ghost", "Alice")
	c.Offer("alice", "ghost", "Alice", nil)
	c.Answer("ghost", nil)
	c.End("ghost")
	// Stateless coordinator: nothing buffered, nothing errors.
}
