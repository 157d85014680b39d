// Package call implements one party's view of a call attempt: the state
// machine, the ring timer, the media lifecycle and the end-of-call
// bookkeeping. Each party runs its own Session; the two machines are
// never reconciled by a shared authority, they only exchange signals
// through the coordinator.
package call

import (
	"context"

	"github.com/chitchat/realtime/internal/domain"
)

// Role says which side of the attempt this session is.
type Role int

const (
	RoleCaller Role = iota
	RoleCallee
)

func (r Role) String() string {
	if r == RoleCaller {
		return "caller"
	}
	return "callee"
}

// State of one session. Callers move Idle→Dialing→OfferSent→Ringing→
// Connecting→Active→Ended; callees Idle→IncomingRing→AwaitingOffer→
// Answering→Active→Ended. Not every state is visited on every attempt.
type State int

const (
	StateIdle State = iota
	StateDialing
	StateOfferSent
	StateRinging
	StateIncomingRing
	StateAwaitingOffer
	StateAnswering
	StateConnecting
	StateActive
	StateEnded
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateDialing:       "dialing",
	StateOfferSent:     "offer_sent",
	StateRinging:       "ringing",
	StateIncomingRing:  "incoming_ring",
	StateAwaitingOffer: "awaiting_offer",
	StateAnswering:     "answering",
	StateConnecting:    "connecting",
	StateActive:        "active",
	StateEnded:         "ended",
}

func (s State) String() string { return stateNames[s] }

// Facing selects which capture device feeds the outgoing video track.
type Facing int

const (
	FacingUser Facing = iota
	FacingEnvironment
)

// Signaler sends one hop of call-control data to the peer, via the
// signaling server. Implementations must not block on the peer.
type Signaler interface {
	SendDial(to, from domain.Identity, name string) error
	SendOffer(to domain.Identity, signal []byte) error
	SendAnswer(to domain.Identity, signal []byte) error
	SendEnd(to domain.Identity) error
}

// Media owns the local capture devices and the peer connection. Camera
// and microphone are exclusive OS resources: acquire before use, stop
// before reacquire.
type Media interface {
	// Acquire grabs camera and microphone. Failure is non-retriable for
	// this attempt.
	Acquire(ctx context.Context, facing Facing) error
	// Release stops and frees every local track. Safe to call twice.
	Release()
	// SwitchCamera releases the current video capture before opening the
	// new one and replaces the outgoing track in place, no renegotiation.
	SwitchCamera(ctx context.Context, facing Facing) error
	CreateOffer(ctx context.Context) ([]byte, error)
	CreateAnswer(ctx context.Context, offer []byte) ([]byte, error)
	// ApplyRemote applies the peer's payload. Returns a *SignalError so
	// the session can tell a harmless duplicate from a real failure.
	ApplyRemote(signal []byte) error
	// OnConnected registers the callback fired when the underlying
	// transport reports a live connection.
	OnConnected(fn func())
}
