package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/chitchat/realtime/internal/core"
	"github.com/chitchat/realtime/internal/proto"
)

func (ctl *WSController) writePump(ctx context.Context, c *WsConn) {
	pingPeriod := ctl.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Info().Err(err).Str("module", "signal").Msg("writePump ping failed")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *WSController) readPump(ctx context.Context, cancel context.CancelFunc, cid core.ConnID, c *WsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		cancel()
		ctl.Orch.OnDisconnect(cid)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.handleFrame(cid, c, data)
		}
	}
}

func (ctl *WSController) handleFrame(cid core.ConnID, c *WsConn, data []byte) {
	var env proto.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case proto.TypeSubscribe, proto.TypePresenceRegister:
		ctl.handleRegister(cid, c, data)
	case proto.TypeMessageSend:
		ctl.handleMessageSend(c, data)
	case proto.TypeReceiptRead:
		ctl.handleReceiptRead(c, data)
	case proto.TypeCallDial:
		ctl.handleCallDial(c, data)
	case proto.TypeCallOffer:
		ctl.handleCallOffer(c, data)
	case proto.TypeCallAnswer:
		ctl.handleCallAnswer(c, data)
	case proto.TypeCallEnd:
		ctl.handleCallEnd(c, data)
	case proto.TypeAdminBroadcast:
		ctl.handleAdminBroadcast(c, data)
	case proto.TypeAdminMaintenance:
		ctl.handleAdminMaintenance(c, data)
	case proto.TypePing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *WSController) sendJSON(c *WsConn, v any) {
	b, err := proto.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *WSController) sendError(c *WsConn, msg string) {
	ctl.sendJSON(c, proto.Error{Type: proto.TypeError, Error: msg})
}
