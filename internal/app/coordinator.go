package app

import (
	"encoding/json"

	"github.com/chitchat/realtime/internal/domain"
	"github.com/chitchat/realtime/internal/proto"
	"github.com/rs/zerolog/log"
)

// Coordinator forwards call-lifecycle control messages between exactly
// two parties. It keeps no call state of its own: each party runs its own
// session state machine and the coordinator is only the wire between
// them. Unreachable targets are a silent no-op, like the relay.
type Coordinator struct {
	Registry *Registry
}

func NewCoordinator(reg *Registry) *Coordinator {
	return &Coordinator{Registry: reg}
}

// Dial tells the callee someone is ringing them.
func (c *Coordinator) Dial(from, to domain.Identity, name string) {
	c.forward(to, proto.CallIncoming{
		Type: proto.TypeCallIncoming,
		From: from,
		Name: name,
	})
}

// Offer carries the caller's connection offer payload to the callee.
func (c *Coordinator) Offer(from, to domain.Identity, name string, signal json.RawMessage) {
	c.forward(to, proto.CallOffer{
		Type:   proto.TypeCallOffer,
		From:   from,
		Name:   name,
		Signal: signal,
	})
}

// Answer carries the callee's answer payload back to the caller.
func (c *Coordinator) Answer(to domain.Identity, signal json.RawMessage) {
	c.forward(to, proto.CallAccepted{
		Type:   proto.TypeCallAccepted,
		Signal: signal,
	})
}

// End tells the peer the call is over.
func (c *Coordinator) End(to domain.Identity) {
	c.forward(to, proto.CallEnded{Type: proto.TypeCallEnded})
}

func (c *Coordinator) forward(to domain.Identity, v any) {
	conn, ok := c.Registry.Resolve(to)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("target", string(to)).Msg("peer unreachable, signal dropped")
		return
	}
	frame, err := proto.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("encode signal")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.coordinator").Str("target", string(to)).Msg("signal dropped")
	}
}
