package app

import (
	"context"
	"fmt"

	"github.com/chitchat/realtime/internal/core"
	"github.com/chitchat/realtime/internal/domain"
	"github.com/chitchat/realtime/internal/proto"
	"github.com/rs/zerolog/log"
)

// Broadcaster fans operator announcements and the maintenance flag to
// every attached transport. Announcements are persisted first so clients
// that are offline now still see them in the system conversation later.
type Broadcaster struct {
	Registry *Registry
	Messages core.MessageLog
	Settings core.SettingsStore
	Policy   Policy
}

func NewBroadcaster(reg *Registry, messages core.MessageLog, settings core.SettingsStore, policy Policy) *Broadcaster {
	return &Broadcaster{Registry: reg, Messages: messages, Settings: settings, Policy: policy}
}

// BroadcastAnnouncement persists the announcement as a system chat entry,
// then fans it to everyone twice: once as a transient toast and once as a
// regular chat message so open conversations pick it up.
func (b *Broadcaster) BroadcastAnnouncement(ctx context.Context, text string) error {
	msg := domain.Message{
		ConversationID: domain.SystemConversation,
		Sender:         domain.SystemSender,
		Text:           text,
		Kind:           domain.MsgText,
	}
	if err := b.Messages.CreateMessage(ctx, msg); err != nil {
		return fmt.Errorf("persist announcement: %w", err)
	}

	now := proto.NowMillis()
	b.fan(proto.Announcement{Type: proto.TypeAnnouncement, Text: text, At: now})
	b.fan(proto.MessageReceive{
		Type:   proto.TypeMessageReceive,
		Sender: domain.SystemSender,
		Text:   text,
		Kind:   string(domain.MsgText),
		SentAt: now,
	})
	log.Info().Str("module", "app.broadcast").Msg("announcement broadcast")
	return nil
}

// SetMaintenanceMode persists the flag and fans the flip to everyone.
func (b *Broadcaster) SetMaintenanceMode(ctx context.Context, active bool) error {
	if err := b.Settings.SetMaintenance(ctx, active); err != nil {
		return fmt.Errorf("persist maintenance flag: %w", err)
	}
	b.fan(proto.Maintenance{Type: proto.TypeMaintenance, Active: active})
	log.Info().Str("module", "app.broadcast").Bool("active", active).Msg("maintenance mode broadcast")
	return nil
}

func (b *Broadcaster) fan(v any) {
	frame, err := proto.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Msg("encode broadcast")
		return
	}
	fanOut(b.Registry.Connections(), frame, b.Policy)
}
