// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const MaxUserIDLen = 36

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
)

// Position is an optional 3D coordinate carried for spatial-audio clients.
// Stored and echoed as-is, never interpreted by the server.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Participant is the wire-visible membership record for one connection.
type Participant struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Muted  bool   `json:"muted"`

	// Pass-through extension fields for spatial/attenuation features.
	ExternalID int64     `json:"extId,omitempty"`
	Active     bool      `json:"active,omitempty"`
	Position   *Position `json:"position,omitempty"`
}

// CleanUserID trims and validates a caller-supplied display identity.
func CleanUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return "", ErrUserIDTooLong
	}
	return id, nil
}
