package app

import (
	"sort"
	"sync"
	"time"

	"github.com/chitchat/realtime/internal/core"
	"github.com/chitchat/realtime/internal/domain"
	"github.com/rs/zerolog/log"
)

// connRecord binds one identity to one live transport handle.
type connRecord struct {
	Conn         core.ConnID
	RegisteredAt time.Time
}

// Registry is the source of truth for "is this user reachable right now".
// It owns two maps: every attached transport, and the identity bindings
// on top of them. All other components resolve targets through it.
type Registry struct {
	mu         sync.RWMutex
	conns      map[core.ConnID]core.SignalConnection
	identities map[domain.Identity]connRecord

	onChange func()
}

func NewRegistry() *Registry {
	return &Registry{
		conns:      make(map[core.ConnID]core.SignalConnection),
		identities: make(map[domain.Identity]connRecord),
	}
}

// OnChange installs the hook fired after every register/deregister.
// Set once at wiring time, before any transport attaches.
func (r *Registry) OnChange(fn func()) { r.onChange = fn }

func (r *Registry) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}

// Attach adds a live transport that has not announced an identity yet.
// Roster broadcasts reach it from this point on.
func (r *Registry) Attach(cid core.ConnID, conn core.SignalConnection) {
	r.mu.Lock()
	r.conns[cid] = conn
	r.mu.Unlock()
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("transport attached")
}

// Register binds an identity to a transport. First registration wins: if
// the identity is already bound, the call is a no-op and the existing
// handle stays, even when it belongs to a dead-but-not-yet-detached
// connection. A stale binding lasts until that connection's Deregister.
func (r *Registry) Register(identity domain.Identity, cid core.ConnID) {
	r.mu.Lock()
	if _, exists := r.identities[identity]; !exists {
		r.identities[identity] = connRecord{Conn: cid, RegisteredAt: time.Now()}
		log.Info().Str("module", "app.registry").Str("identity", string(identity)).Str("cid", string(cid)).Msg("registered")
	}
	r.mu.Unlock()
	r.notify()
}

// Deregister removes a transport and every identity bound to it. Used on
// transport disconnect.
func (r *Registry) Deregister(cid core.ConnID) {
	r.mu.Lock()
	delete(r.conns, cid)
	for identity, rec := range r.identities {
		if rec.Conn == cid {
			delete(r.identities, identity)
			log.Info().Str("module", "app.registry").Str("identity", string(identity)).Str("cid", string(cid)).Msg("deregistered")
		}
	}
	r.mu.Unlock()
	r.notify()
}

// Resolve returns the live channel for an identity, if any. Callers treat
// absence as "drop silently"; unreachable targets are not an error here.
func (r *Registry) Resolve(identity domain.Identity) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.identities[identity]
	if !ok {
		return nil, false
	}
	conn, ok := r.conns[rec.Conn]
	return conn, ok
}

// Roster returns the currently reachable identities, sorted for stable
// wire output.
func (r *Registry) Roster() []domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Identity, 0, len(r.identities))
	for identity := range r.identities {
		out = append(out, identity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Connections snapshots every attached transport, identity-bound or not.
func (r *Registry) Connections() []core.SignalConnection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.SignalConnection, 0, len(r.conns))
	for _, conn := range r.conns {
		out = append(out, conn)
	}
	return out
}
