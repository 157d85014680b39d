package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/chitchat/realtime/internal/domain"
	"github.com/chitchat/realtime/internal/proto"
)

func (ctl *WSController) handleMessageSend(c *WsConn, data []byte) {
	var p proto.MessageSend
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.Target == "" {
		p.Target = p.Receiver
	}
	ctl.Orch.Relay.RelayMessage(p)
}

func (ctl *WSController) handleReceiptRead(c *WsConn, data []byte) {
	var p proto.ReceiptRead
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad receipt payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.Relay.RelayReadReceipt(domain.ReadReceipt{
		Reader:         p.Reader,
		OriginalSender: p.OriginalSender,
		ConversationID: p.ConversationID,
	})
}
