package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/LtsTibby/connectsite/internal/core"
	"github.com/LtsTibby/connectsite/internal/domain"
)

// Session records which room a connection belongs to and its last-known
// participant meta. Entries exist only between a successful join and the
// matching removal.
type Session struct {
	Room        domain.RoomName
	Participant domain.Participant
}

// Registry is the session side-table plus the live transport endpoints.
// It is the sole source of truth for "which room is this connection in"
// during cleanup. All session mutation goes through the Coordinator.
type Registry struct {
	mu       sync.RWMutex
	conns    map[core.ConnID]core.SignalConn
	sessions map[core.ConnID]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		conns:    make(map[core.ConnID]core.SignalConn),
		sessions: make(map[core.ConnID]*Session),
	}
}

// BindConn attaches a transport endpoint to a connection identity.
// Called by the adapter on upgrade, before any join.
func (r *Registry) BindConn(id core.ConnID, conn core.SignalConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = conn
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("bound connection")
}

func (r *Registry) UnbindConn(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbound connection")
}

// Conn returns the live transport endpoint for a connection, if any.
func (r *Registry) Conn(id core.ConnID) (core.SignalConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// Put creates or overwrites the session for a connection.
func (r *Registry) Put(id core.ConnID, room domain.RoomName, p domain.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &Session{Room: room, Participant: p}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(room)).Msg("session put")
}

// Get returns a copy of the session for a connection.
func (r *Registry) Get(id core.ConnID) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[id]; ok {
		return *s, true
	}
	return Session{}, false
}

// Remove deletes the session and returns it. Calling it twice is safe;
// the second call reports not-found and changes nothing.
func (r *Registry) Remove(id core.ConnID) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	delete(r.sessions, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(s.Room)).Msg("session removed")
	return *s, true
}

// UpdateMuted mutates the stored mute flag in place. A missing session is a
// no-op: the connection may already be gone by the time the update arrives.
func (r *Registry) UpdateMuted(id core.ConnID, muted bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.Participant.Muted = muted
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Bool("muted", muted).Msg("updated mute state")
	return true
}
