package core

import (
	"encoding/json"

	"github.com/LtsTibby/connectsite/internal/domain"
)

// Reject codes surfaced to the requester on a failed join. Neither is
// retriable; both are terminal responses to the triggering request.
const (
	CodeInvalidJoin = "INVALID_JOIN"
	CodeForbidden   = "FORBIDDEN"
)

// SignalKind tags a relayed negotiation message. The three kinds share one
// routing path and differ only in the tag.
type SignalKind string

const (
	KindOffer     SignalKind = "offer"
	KindAnswer    SignalKind = "answer"
	KindCandidate SignalKind = "candidate"
)

// Outbound event type tags.
const (
	TypeJoined             = "joined"
	TypeParticipantArrived = "participant-arrived"
	TypeParticipantUpdate  = "participant-update"
	TypePeerDeparted       = "peer-departed"
	TypeRejected           = "rejected"
)

// JoinedEvent acknowledges a successful join to the requester only.
// Participants holds the pre-join snapshot, excluding the requester itself.
type JoinedEvent struct {
	Type         string               `json:"type"`
	SelfID       ConnID               `json:"selfId"`
	Participants []domain.Participant `json:"participants"`
}

// ParticipantArrivedEvent notifies an existing member of a new arrival.
type ParticipantArrivedEvent struct {
	Type   string `json:"type"`
	ID     ConnID `json:"id"`
	UserID string `json:"userId"`
}

// ParticipantUpdateEvent carries the full room snapshot after any
// membership or mute change.
type ParticipantUpdateEvent struct {
	Type         string               `json:"type"`
	Participants []domain.Participant `json:"participants"`
}

// PeerDepartedEvent names a connection that left or disconnected.
type PeerDepartedEvent struct {
	Type string `json:"type"`
	ID   ConnID `json:"id"`
}

// RejectedEvent is sent to the requester only, on join failure.
type RejectedEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SignalEnvelope is a relayed negotiation message as delivered to its target.
// Data is opaque: produced and consumed by the media transport on either end.
type SignalEnvelope struct {
	Type   SignalKind      `json:"type"`
	From   ConnID          `json:"from"`
	UserID string          `json:"userId"`
	Data   json.RawMessage `json:"data,omitempty"`
}
