// Package proto defines the JSON event vocabulary spoken over the
// per-client websocket channel. Every frame carries a "type"
// discriminator; the rest of the shape depends on the event.
package proto

import (
	"encoding/json"
	"time"

	"github.com/chitchat/realtime/internal/domain"
)

// Client → server.
const (
	TypeSubscribe        = "subscribe"
	TypePresenceRegister = "presence.register"
	TypeMessageSend      = "message.send"
	TypeReceiptRead      = "receipt.read"
	TypeCallDial         = "call.dial"
	TypeCallOffer        = "call.offer"
	TypeCallAnswer       = "call.answer"
	TypeCallEnd          = "call.end"
	TypeAdminBroadcast   = "admin.broadcast"
	TypeAdminMaintenance = "admin.maintenance"
	TypePing             = "ping"
)

// Server → client.
const (
	TypePresenceRoster = "presence.roster"
	TypeMessageReceive = "message.receive"
	TypeCallIncoming   = "call.incoming"
	TypeCallAccepted   = "call.accepted"
	TypeCallEnded      = "call.ended"
	TypeAnnouncement   = "system.announcement"
	TypeMaintenance    = "system.maintenance"
	TypePong           = "pong"
	TypeError          = "error"
)

// Envelope is the minimal frame every handler peeks at first.
type Envelope struct {
	Type string `json:"type"`
}

type Subscribe struct {
	Type     string          `json:"type"`
	Identity domain.Identity `json:"identity"`
}

type MessageSend struct {
	Type     string          `json:"type"`
	Sender   domain.Identity `json:"senderIdentity"`
	Receiver domain.Identity `json:"receiverIdentity"`
	Text     string          `json:"text"`
	Kind     string          `json:"kind"`
	MediaURL string          `json:"mediaUrl,omitempty"`
	Target   domain.Identity `json:"target"`
}

type MessageReceive struct {
	Type     string          `json:"type"`
	Sender   domain.Identity `json:"senderIdentity"`
	Receiver domain.Identity `json:"receiverIdentity"`
	Text     string          `json:"text"`
	Kind     string          `json:"kind"`
	MediaURL string          `json:"mediaUrl,omitempty"`
	SentAt   int64           `json:"sentAt"`
}

type ReceiptRead struct {
	Type           string          `json:"type"`
	Reader         domain.Identity `json:"readerIdentity"`
	OriginalSender domain.Identity `json:"originalSenderIdentity"`
	ConversationID string          `json:"conversationId"`
}

type CallDial struct {
	Type string          `json:"type"`
	To   domain.Identity `json:"toIdentity"`
	From domain.Identity `json:"fromIdentity"`
	Name string          `json:"displayName"`
}

type CallIncoming struct {
	Type string          `json:"type"`
	From domain.Identity `json:"fromIdentity"`
	Name string          `json:"displayName"`
}

type CallOffer struct {
	Type   string          `json:"type"`
	To     domain.Identity `json:"toIdentity,omitempty"`
	From   domain.Identity `json:"fromIdentity"`
	Name   string          `json:"displayName"`
	Signal json.RawMessage `json:"signalPayload"`
}

type CallAnswer struct {
	Type   string          `json:"type"`
	To     domain.Identity `json:"toIdentity"`
	Signal json.RawMessage `json:"signalPayload"`
}

type CallAccepted struct {
	Type   string          `json:"type"`
	Signal json.RawMessage `json:"signalPayload"`
}

type CallEnd struct {
	Type string          `json:"type"`
	To   domain.Identity `json:"toIdentity"`
}

type CallEnded struct {
	Type string `json:"type"`
}

type PresenceRoster struct {
	Type   string            `json:"type"`
	Online []domain.Identity `json:"online"`
}

type AdminBroadcast struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Announcement struct {
	Type string `json:"type"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

type AdminMaintenance struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

type Maintenance struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

type Error struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Encode marshals an event for the wire. Marshalling our own structs does
// not fail; the error return exists for the rare hand-built map payload.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func NowMillis() int64 { return time.Now().UnixMilli() }
