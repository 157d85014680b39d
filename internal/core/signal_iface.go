package core

// Frame is a raw wire payload, already encoded for the transport.
type Frame []byte

// ConnID identifies one live transport connection. A reconnecting client
// gets a fresh ConnID; its Identity stays the same.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
