package domain

import "strings"

// MessageKind mirrors the message store's type column.
type MessageKind string

const (
	MsgText         MessageKind = "text"
	MsgImage        MessageKind = "image"
	MsgVideo        MessageKind = "video"
	MsgFile         MessageKind = "file"
	MsgGif          MessageKind = "gif"
	MsgCallEnded    MessageKind = "call_ended"
	MsgCallMissed   MessageKind = "call_missed"
	MsgCallDeclined MessageKind = "call_declined"
)

// SystemSender marks messages originated by the server itself
// (operator announcements).
const SystemSender Identity = "SYSTEM"

// SystemConversation is the conversation id system broadcasts land in.
const SystemConversation = "system-broadcast"

// Message is one chat entry as the store persists it.
type Message struct {
	ConversationID string      `json:"conversationId"`
	Sender         Identity    `json:"sender"`
	Receiver       Identity    `json:"receiver"`
	Text           string      `json:"text"`
	Kind           MessageKind `json:"kind"`
	MediaURL       string      `json:"mediaUrl,omitempty"`
}

// ReadReceipt notifies the original sender that their messages were read.
type ReadReceipt struct {
	Reader         Identity `json:"readerIdentity"`
	OriginalSender Identity `json:"originalSenderIdentity"`
	ConversationID string   `json:"conversationId"`
}

// ConversationID derives the stable conversation key for a pair of users:
// the two identities sorted and joined with a dash.
func ConversationID(a, b Identity) string {
	if b < a {
		a, b = b, a
	}
	return strings.Join([]string{string(a), string(b)}, "-")
}
