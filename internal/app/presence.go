package app

import (
	"github.com/chitchat/realtime/internal/core"
	"github.com/chitchat/realtime/internal/proto"
	"github.com/rs/zerolog/log"
)

// PresenceBroadcaster pushes the full reachable-identity set to every
// attached transport after each registry mutation. No batching, no
// debouncing: one mutation, one roster frame.
type PresenceBroadcaster struct {
	Registry *Registry
	Policy   Policy
}

func NewPresenceBroadcaster(reg *Registry, policy Policy) *PresenceBroadcaster {
	return &PresenceBroadcaster{Registry: reg, Policy: policy}
}

func (b *PresenceBroadcaster) PublishRoster() {
	roster := b.Registry.Roster()
	frame, err := proto.Encode(proto.PresenceRoster{
		Type:   proto.TypePresenceRoster,
		Online: roster,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("encode roster")
		return
	}
	sent, dropped := fanOut(b.Registry.Connections(), frame, b.Policy)
	log.Debug().Str("module", "app.presence").Int("online", len(roster)).Int("sent_to", sent).Int("dropped", dropped).Msg("roster published")
}

// fanOut delivers one frame to every connection, best-effort. Slow
// consumers are handed to the policy.
func fanOut(conns []core.SignalConnection, frame core.Frame, policy Policy) (sent, dropped int) {
	for _, conn := range conns {
		if err := conn.TrySend(frame); err != nil {
			dropped++
			if policy != nil && policy.OnBackPressure(conn) == KickConnection {
				conn.Close()
			}
			continue
		}
		sent++
	}
	return sent, dropped
}
