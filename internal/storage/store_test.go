package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/chitchat/realtime/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "chitchat.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCallRecordRoundTrip(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()

	for _, rec := range []domain.CallRecord{
		{Caller: "alice", Receiver: "bob", Duration: 95 * time.Second, Status: domain.CallCompleted, Kind: domain.CallVideo},
		{Caller: "carol", Receiver: "alice", Status: domain.CallMissed, Kind: domain.CallVideo},
		{Caller: "bob", Receiver: "carol", Status: domain.CallDeclined, Kind: domain.CallVideo},
	} {
		if err := store.CreateCallRecord(ctx, rec); err != nil {
			t.Fatalf("CreateCallRecord: %v", err)
		}
	}

	got, err := store.CallsFor(ctx, "alice")
	if err != nil {
		t.Fatalf("CallsFor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("CallsFor(alice): got %d records, want 2", len(got))
	}
	// Newest first.
	if got[0].Caller != "carol" {
		t.Errorf("got[0].Caller: got %q, want carol", got[0].Caller)
	}
	if got[0].Status != domain.CallMissed {
		t.Errorf("got[0].Status: got %q, want %q", got[0].Status, domain.CallMissed)
	}
	if got[1].Duration != 95*time.Second {
		t.Errorf("got[1].Duration: got %v, want 95s", got[1].Duration)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()
	conv := domain.ConversationID("alice", "bob")

	msgs := []domain.Message{
		{ConversationID: conv, Sender: "alice", Receiver: "bob", Text: "hi", Kind: domain.MsgText},
		{ConversationID: conv, Sender: "bob", Receiver: "alice", Text: "Video Call • 0m 30s", Kind: domain.MsgCallEnded},
		{ConversationID: domain.SystemConversation, Sender: domain.SystemSender, Text: "downtime", Kind: domain.MsgText},
	}
	for _, msg := range msgs {
		if err := store.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	got, err := store.MessagesIn(ctx, conv)
	if err != nil {
		t.Fatalf("MessagesIn: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("MessagesIn(%q): got %d messages, want 2", conv, len(got))
	}
	if got[0].Text != "hi" || got[1].Kind != domain.MsgCallEnded {
		t.Errorf("messages out of order or malformed: %+v", got)
	}

	system, err := store.MessagesIn(ctx, domain.SystemConversation)
	if err != nil {
		t.Fatalf("MessagesIn(system): %v", err)
	}
	if len(system) != 1 || system[0].Sender != domain.SystemSender {
		t.Errorf("system conversation: got %+v, want one SYSTEM message", system)
	}
}

func TestMaintenanceFlag(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	ctx := context.Background()

	// Unset flag reads as off.
	active, err := store.Maintenance(ctx)
	if err != nil {
		t.Fatalf("Maintenance: %v", err)
	}
	if active {
		t.Error("fresh store: maintenance on, want off")
	}

	for _, want := range []bool{true, false, true} {
		if err := store.SetMaintenance(ctx, want); err != nil {
			t.Fatalf("SetMaintenance(%v): %v", want, err)
		}
		got, err := store.Maintenance(ctx)
		if err != nil {
			t.Fatalf("Maintenance: %v", err)
		}
		if got != want {
			t.Errorf("Maintenance after SetMaintenance(%v): got %v", want, got)
		}
	}
}
