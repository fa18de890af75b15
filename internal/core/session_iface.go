package core

// ConnID is the opaque per-connection identity assigned by the transport
// layer. Unique while the connection is open and never reused during it.
type ConnID string
