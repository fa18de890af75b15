package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/LtsTibby/connectsite/internal/core"
	"github.com/LtsTibby/connectsite/internal/domain"
)

// Coordinator orchestrates join, leave, mute-update and disconnect events.
// It is the only writer of Registry sessions and Directory membership; one
// mutex serializes membership mutations together with their broadcasts, so a
// snapshot can never interleave a half-applied change.
type Coordinator struct {
	mu sync.Mutex

	Registry  *Registry
	Directory *Directory
	Gate      AdmissionPolicy

	// DefaultRoom receives joins whose normalized room name comes out empty.
	DefaultRoom domain.RoomName
}

func NewCoordinator(reg *Registry, dir *Directory, gate AdmissionPolicy, defaultRoom domain.RoomName) *Coordinator {
	if gate == nil {
		gate = AllowAll{}
	}
	if defaultRoom == "" {
		defaultRoom = "main"
	}
	return &Coordinator{
		Registry:    reg,
		Directory:   dir,
		Gate:        gate,
		DefaultRoom: defaultRoom,
	}
}

// Join admits a connection into a room and broadcasts the change. The
// participant's ID is overwritten with the connection identity; UserID is
// taken from the caller after trimming. A connection that is already a member
// somewhere (a stale rejoin) is first removed from its old room, old-room
// broadcast included, before the new membership is applied.
func (c *Coordinator) Join(id core.ConnID, p domain.Participant, roomName string) {
	userID, err := domain.CleanUserID(p.UserID)
	if err != nil {
		c.reject(id, core.CodeInvalidJoin, err.Error())
		return
	}

	room := domain.NormalizeRoomName(roomName)
	if room == "" {
		room = c.DefaultRoom
	}

	if !c.Gate.CanJoin(userID, room) {
		log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("room", string(room)).Msg("join forbidden")
		c.reject(id, core.CodeForbidden, "admission denied")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Stale rejoin: drop the old membership first so the connection is never
	// in two rooms at once.
	if prev, ok := c.Registry.Get(id); ok {
		log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("from_room", string(prev.Room)).Msg("rejoin, removing old membership")
		c.removeLocked(id, prev)
	}

	p.ID = string(id)
	p.UserID = userID

	others := c.Directory.ListMembers(room)

	c.Directory.AddMember(room, p)
	c.Registry.Put(id, room, p)
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("user", userID).Str("room", string(room)).Msg("joined")

	c.sendTo(id, core.JoinedEvent{Type: core.TypeJoined, SelfID: id, Participants: others})
	arrived := core.ParticipantArrivedEvent{Type: core.TypeParticipantArrived, ID: id, UserID: userID}
	for _, m := range others {
		c.sendTo(core.ConnID(m.ID), arrived)
	}
	c.broadcastUpdate(room)
}

// SetMuted updates the connection's mute state and broadcasts the room
// snapshot. No session means the connection already disconnected; no-op.
func (c *Coordinator) SetMuted(id core.ConnID, muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.Registry.Get(id)
	if !ok {
		return
	}
	c.Registry.UpdateMuted(id, muted)
	sess.Participant.Muted = muted
	c.Directory.AddMember(sess.Room, sess.Participant)
	c.broadcastUpdate(sess.Room)
}

// Leave and HandleDisconnect converge on the identical removal routine; the
// only difference is who initiated it.
func (c *Coordinator) Leave(id core.ConnID) { c.remove(id) }

func (c *Coordinator) HandleDisconnect(id core.ConnID) { c.remove(id) }

// EvictRoom force-removes every member through the normal removal routine.
func (c *Coordinator) EvictRoom(room domain.RoomName) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.Directory.ListMembers(room) {
		id := core.ConnID(m.ID)
		if sess, ok := c.Registry.Get(id); ok {
			c.removeLocked(id, sess)
		}
	}
}

func (c *Coordinator) remove(id core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.Registry.Get(id)
	if !ok {
		return
	}
	c.removeLocked(id, sess)
}

// removeLocked is the single cleanup path for leave, disconnect, eviction and
// stale rejoin. Caller holds c.mu.
func (c *Coordinator) removeLocked(id core.ConnID, sess Session) {
	c.Directory.RemoveMember(sess.Room, id)
	c.Registry.Remove(id)
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("room", string(sess.Room)).Msg("removed from room")

	departed := core.PeerDepartedEvent{Type: core.TypePeerDeparted, ID: id}
	for _, m := range c.Directory.ListMembers(sess.Room) {
		c.sendTo(core.ConnID(m.ID), departed)
	}
	c.broadcastUpdate(sess.Room)
}

func (c *Coordinator) broadcastUpdate(room domain.RoomName) {
	members := c.Directory.ListMembers(room)
	if len(members) == 0 {
		return
	}
	ev := core.ParticipantUpdateEvent{Type: core.TypeParticipantUpdate, Participants: members}
	for _, m := range members {
		c.sendTo(core.ConnID(m.ID), ev)
	}
}

func (c *Coordinator) reject(id core.ConnID, code, msg string) {
	c.sendTo(id, core.RejectedEvent{Type: core.TypeRejected, Code: code, Message: msg})
}

// sendTo delivers one event to one connection. Delivery failure (closed or
// backlogged endpoint) affects that recipient only.
func (c *Coordinator) sendTo(id core.ConnID, v any) {
	conn, ok := c.Registry.Conn(id)
	if !ok {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("marshal event")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Debug().Err(err).Str("module", "app.coordinator").Str("conn", string(id)).Msg("send dropped")
	}
}
