package app

import (
	"github.com/chitchat/realtime/internal/core"
)

// Orchestrator bundles the server-side components the transport adapter
// drives. Construction wires the registry's change hook to the presence
// broadcaster; everything downstream resolves targets through the same
// registry.
type Orchestrator struct {
	Registry *Registry
	Presence *PresenceBroadcaster
	Relay    *Relay
	Calls    *Coordinator
	Admin    *Broadcaster
}

func NewOrchestrator(messages core.MessageLog, settings core.SettingsStore, policy Policy) *Orchestrator {
	reg := NewRegistry()
	o := &Orchestrator{
		Registry: reg,
		Presence: NewPresenceBroadcaster(reg, policy),
		Relay:    NewRelay(reg),
		Calls:    NewCoordinator(reg),
		Admin:    NewBroadcaster(reg, messages, settings, policy),
	}
	reg.OnChange(o.Presence.PublishRoster)
	return o
}

// OnDisconnect cleans up after a dropped transport. Deregister removes
// every identity bound to the handle and triggers the roster broadcast.
func (o *Orchestrator) OnDisconnect(cid core.ConnID) {
	o.Registry.Deregister(cid)
}
