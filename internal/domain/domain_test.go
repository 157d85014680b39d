package domain

import (
	"strings"
	"testing"
)

func TestConversationIDOrderIndependent(t *testing.T) {
	t.Parallel()
	ab := ConversationID("alice", "bob")
	ba := ConversationID("bob", "alice")
	if ab != ba {
		t.Errorf("ConversationID not symmetric: %q vs %q", ab, ba)
	}
	if ab != "alice-bob" {
		t.Errorf("ConversationID: got %q, want alice-bob", ab)
	}
}

func TestIdentityValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		id   Identity
		err  error
	}{
		{"ok", "alice", nil},
		{"uuid length", Identity(strings.Repeat("a", MaxIdentityLen)), nil},
		{"empty", "", ErrIdentityEmpty},
		{"too long", Identity(strings.Repeat("a", MaxIdentityLen+1)), ErrIdentityTooLong},
	}
	for _, tc := range tests {
		if got := tc.id.Validate(); got != tc.err {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.err)
		}
	}
}

func TestNewUserRejectsLongName(t *testing.T) {
	t.Parallel()
	if _, err := NewUser("alice", strings.Repeat("x", MaxDisplayNameLen+1)); err != ErrDisplayNameTooLong {
		t.Errorf("got %v, want %v", err, ErrDisplayNameTooLong)
	}
	u, err := NewUser("alice", "Alice")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if u.ID != "alice" || u.DisplayName != "Alice" {
		t.Errorf("NewUser: got %+v", u)
	}
}
