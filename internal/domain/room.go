package domain

import "strings"

// RoomName is a normalized room identity. Rooms have no existence independent
// of their members.
type RoomName string

const MaxRoomNameLen = 32

// NormalizeRoomName lower-cases the raw name, strips characters outside
// [a-z0-9_-] and truncates to MaxRoomNameLen. An empty result means the
// caller should fall back to the configured default room.
func NormalizeRoomName(raw string) RoomName {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range raw {
		if b.Len() >= MaxRoomNameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteByte(byte(r))
		}
	}
	return RoomName(b.String())
}
