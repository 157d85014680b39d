package app

import "github.com/chitchat/realtime/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickConnection
)

// Policy decides what happens to a connection whose send buffer is full
// during a fan-out.
type Policy interface {
	OnBackPressure(conn core.SignalConnection) BackpressureAction
}

// SimplePolicy drops the frame. Delivery here is at-most-once anyway; the
// stores are the system of record.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(conn core.SignalConnection) BackpressureAction {
	return DropFrame
}
