package core

// Frame is a raw signaling payload, one JSON object per frame.
type Frame []byte

// SignalConn abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConn interface {
	TrySend(Frame) error
	Close()
}
