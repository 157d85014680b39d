package core

import (
	"context"

	"github.com/chitchat/realtime/internal/domain"
)

// CallLog is the external call-record collaborator. Consumed fire-and-forget
// when a call session reaches its end state.
type CallLog interface {
	CreateCallRecord(ctx context.Context, rec domain.CallRecord) error
}

// MessageLog is the external message-store collaborator. The relay never
// reads from it; durability is its job, delivery ours.
type MessageLog interface {
	CreateMessage(ctx context.Context, msg domain.Message) error
}

// SettingsStore keeps operator-level flags that outlive any one connection.
type SettingsStore interface {
	SetMaintenance(ctx context.Context, active bool) error
	Maintenance(ctx context.Context) (bool, error)
}
