package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chitchat/realtime/internal/proto"
)

func (ctl *WSController) handleAdminBroadcast(c *WsConn, data []byte) {
	var p proto.AdminBroadcast
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad broadcast payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.Text == "" {
		ctl.sendError(c, "empty_broadcast")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctl.Orch.Admin.BroadcastAnnouncement(ctx, p.Text); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast announcement")
		ctl.sendError(c, "broadcast_failed")
	}
}

func (ctl *WSController) handleAdminMaintenance(c *WsConn, data []byte) {
	var p proto.AdminMaintenance
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad maintenance payload")
		ctl.sendError(c, "bad_payload")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctl.Orch.Admin.SetMaintenanceMode(ctx, p.Active); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("set maintenance mode")
		ctl.sendError(c, "maintenance_failed")
	}
}
