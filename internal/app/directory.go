package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/LtsTibby/connectsite/internal/core"
	"github.com/LtsTibby/connectsite/internal/domain"
)

// Directory maps room names to their member sets. Rooms are created lazily on
// first AddMember and deleted the moment the member set empties; an empty
// room never persists.
type Directory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]map[core.ConnID]domain.Participant
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[domain.RoomName]map[core.ConnID]domain.Participant)}
}

// AddMember inserts or replaces the participant in the room's member set.
func (d *Directory) AddMember(room domain.RoomName, p domain.Participant) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[room]
	if !ok {
		members = make(map[core.ConnID]domain.Participant)
		d.rooms[room] = members
		log.Info().Str("module", "app.directory").Str("room", string(room)).Msg("room created")
	}
	members[core.ConnID(p.ID)] = p
	log.Info().Str("module", "app.directory").Str("room", string(room)).Str("conn", p.ID).Msg("member added")
}

// RemoveMember removes the member and deletes the room entry if the set
// emptied. Unknown room or member is a no-op.
func (d *Directory) RemoveMember(room domain.RoomName, id core.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[room]
	if !ok {
		return
	}
	delete(members, id)
	log.Info().Str("module", "app.directory").Str("room", string(room)).Str("conn", string(id)).Msg("member removed")
	if len(members) == 0 {
		delete(d.rooms, room)
		log.Info().Str("module", "app.directory").Str("room", string(room)).Msg("room deleted")
	}
}

// ListMembers returns a copied snapshot of the room's participants.
// Order is not significant.
func (d *Directory) ListMembers(room domain.RoomName) []domain.Participant {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members := d.rooms[room]
	out := make([]domain.Participant, 0, len(members))
	for _, p := range members {
		out = append(out, p)
	}
	return out
}

// Has reports whether the room currently exists, i.e. has at least one member.
func (d *Directory) Has(room domain.RoomName) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[room]
	return ok
}

func (d *Directory) MemberCount(room domain.RoomName) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms[room])
}

type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"memberCount"`
}

// List returns infos for all live rooms, for the REST surface.
func (d *Directory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]RoomInfo, 0, len(d.rooms))
	for name, members := range d.rooms {
		out = append(out, RoomInfo{Name: name, MemberCount: len(members)})
	}
	return out
}
