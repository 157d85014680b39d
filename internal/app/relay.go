package app

import (
	"github.com/chitchat/realtime/internal/domain"
	"github.com/chitchat/realtime/internal/proto"
	"github.com/rs/zerolog/log"
)

// Relay forwards chat messages and read receipts to a target identity's
// live channel. At-most-once, best-effort: no live channel, no delivery,
// no error. The message store is the system of record; the relay never
// replays.
type Relay struct {
	Registry *Registry
}

func NewRelay(reg *Registry) *Relay {
	return &Relay{Registry: reg}
}

// RelayMessage forwards one chat message to the channel its envelope
// declares as target.
func (r *Relay) RelayMessage(env proto.MessageSend) {
	conn, ok := r.Registry.Resolve(env.Target)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("target", string(env.Target)).Msg("target unreachable, message dropped")
		return
	}
	frame, err := proto.Encode(proto.MessageReceive{
		Type:     proto.TypeMessageReceive,
		Sender:   env.Sender,
		Receiver: env.Receiver,
		Text:     env.Text,
		Kind:     env.Kind,
		MediaURL: env.MediaURL,
		SentAt:   proto.NowMillis(),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode message")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.relay").Str("target", string(env.Target)).Msg("message dropped")
	}
}

// RelayReadReceipt notifies the original sender that reader has read
// their messages. Note the direction: the receipt travels to the person
// whose messages were read, not to the reader.
func (r *Relay) RelayReadReceipt(ev domain.ReadReceipt) {
	conn, ok := r.Registry.Resolve(ev.OriginalSender)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("target", string(ev.OriginalSender)).Msg("original sender unreachable, receipt dropped")
		return
	}
	frame, err := proto.Encode(proto.ReceiptRead{
		Type:           proto.TypeReceiptRead,
		Reader:         ev.Reader,
		OriginalSender: ev.OriginalSender,
		ConversationID: ev.ConversationID,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode receipt")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.relay").Str("target", string(ev.OriginalSender)).Msg("receipt dropped")
	}
}
