package app

import (
	"context"
	"errors"
	"testing"

	"github.com/chitchat/realtime/internal/domain"
	"github.com/chitchat/realtime/internal/proto"
)

type memMessageLog struct {
	messages []domain.Message
	fail     bool
}

func (m *memMessageLog) CreateMessage(_ context.Context, msg domain.Message) error {
	if m.fail {
		return errors.New("disk full")
	}
	m.messages = append(m.messages, msg)
	return nil
}

type memSettings struct {
	maintenance bool
}

func (m *memSettings) SetMaintenance(_ context.Context, active bool) error {
	m.maintenance = active
	return nil
}

func (m *memSettings) Maintenance(_ context.Context) (bool, error) {
	return m.maintenance, nil
}

func TestBroadcastAnnouncement(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	alice := &fakeConn{}
	anon := &fakeConn{} // attached but never registered, still hears broadcasts
	reg.Attach("c1", alice)
	reg.Attach("c2", anon)
	reg.Register("alice", "c1")

	msgs := &memMessageLog{}
	b := NewBroadcaster(reg, msgs, &memSettings{}, SimplePolicy{})
	if err := b.BroadcastAnnouncement(context.Background(), "scheduled downtime at noon"); err != nil {
		t.Fatalf("BroadcastAnnouncement: %v", err)
	}

	if len(msgs.messages) != 1 {
		t.Fatalf("persisted messages: got %d, want 1", len(msgs.messages))
	}
	stored := msgs.messages[0]
	if stored.Sender != domain.SystemSender {
		t.Errorf("stored sender: got %q, want %q", stored.Sender, domain.SystemSender)
	}
	if stored.ConversationID != domain.SystemConversation {
		t.Errorf("stored conversation: got %q, want %q", stored.ConversationID, domain.SystemConversation)
	}

	// Every transport hears it twice: toast plus chat entry.
	for name, conn := range map[string]*fakeConn{"registered": alice, "anonymous": anon} {
		if got := conn.frameCount(); got != 2 {
			t.Errorf("%s frames: got %d, want 2", name, got)
		}
	}
	if ev := alice.lastEvent(t); ev["type"] != proto.TypeMessageReceive {
		t.Errorf("second frame type: got %v, want %v", ev["type"], proto.TypeMessageReceive)
	}
}

func TestBroadcastAnnouncementPersistFailure(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	alice := &fakeConn{}
	reg.Attach("c1", alice)
	reg.Register("alice", "c1")

	b := NewBroadcaster(reg, &memMessageLog{fail: true}, &memSettings{}, SimplePolicy{})
	if err := b.BroadcastAnnouncement(context.Background(), "lost"); err == nil {
		t.Fatal("BroadcastAnnouncement: got nil error, want persist failure")
	}
	if got := alice.frameCount(); got != 0 {
		t.Errorf("frames after failed persist: got %d, want 0", got)
	}
}

func TestSetMaintenanceMode(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	alice := &fakeConn{}
	reg.Attach("c1", alice)

	settings := &memSettings{}
	b := NewBroadcaster(reg, &memMessageLog{}, settings, SimplePolicy{})
	if err := b.SetMaintenanceMode(context.Background(), true); err != nil {
		t.Fatalf("SetMaintenanceMode: %v", err)
	}

	if !settings.maintenance {
		t.Error("maintenance flag not persisted")
	}
	ev := alice.lastEvent(t)
	if ev["type"] != proto.TypeMaintenance {
		t.Errorf("type: got %v, want %v", ev["type"], proto.TypeMaintenance)
	}
	if ev["active"] != true {
		t.Errorf("active: got %v, want true", ev["active"])
	}
}
