package app

import "github.com/LtsTibby/connectsite/internal/domain"

// AdmissionPolicy decides whether a join is allowed. It is a pure predicate
// consulted before any state mutation; a rejection surfaces as FORBIDDEN to
// the requester only. Deployments that gate on game context (e.g. "is this
// user currently in an active match") substitute their own implementation.
type AdmissionPolicy interface {
	CanJoin(userID string, room domain.RoomName) bool
}

// AllowAll is the default policy.
type AllowAll struct{}

func (AllowAll) CanJoin(string, domain.RoomName) bool { return true }
