package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/chitchat/realtime/internal/core"
	"github.com/chitchat/realtime/internal/proto"
)

// handleRegister binds the sender's identity to this transport and joins
// its private channel. subscribe and presence.register share the same
// idempotent table: first registration wins, duplicates are no-ops, and
// every attempt re-publishes the roster.
func (ctl *WSController) handleRegister(cid core.ConnID, c *WsConn, data []byte) {
	var p proto.Subscribe
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad register payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if err := p.Identity.Validate(); err != nil {
		ctl.sendError(c, "invalid_identity")
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("identity", string(p.Identity)).Msg("register")
	ctl.Orch.Registry.Register(p.Identity, cid)
}

func (ctl *WSController) handlePing(c *WsConn) {
	ctl.sendJSON(c, proto.Envelope{Type: proto.TypePong})
}
