package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/chitchat/realtime/internal/proto"
)

func (ctl *WSController) handleCallDial(c *WsConn, data []byte) {
	var p proto.CallDial
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad dial payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if !ctl.Dials.Allow(p.From) {
		log.Warn().Str("module", "signal").Str("from", string(p.From)).Msg("dial rate limited")
		ctl.sendError(c, "too_many_dial_attempts")
		return
	}
	log.Info().Str("module", "signal").Str("from", string(p.From)).Str("to", string(p.To)).Msg("dial")
	ctl.Orch.Calls.Dial(p.From, p.To, p.Name)
}

func (ctl *WSController) handleCallOffer(c *WsConn, data []byte) {
	var p proto.CallOffer
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad offer payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.Calls.Offer(p.From, p.To, p.Name, p.Signal)
}

func (ctl *WSController) handleCallAnswer(c *WsConn, data []byte) {
	var p proto.CallAnswer
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad answer payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.Calls.Answer(p.To, p.Signal)
}

func (ctl *WSController) handleCallEnd(c *WsConn, data []byte) {
	var p proto.CallEnd
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad end payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.Calls.End(p.To)
}
