package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/LtsTibby/connectsite/internal/core"
)

// RelayRouter forwards opaque negotiation payloads point-to-point. It never
// inspects or mutates the payload, and it does not check that sender and
// target share a room: the client is trusted to target room-mates only, which
// keeps the relay O(1) and protocol-agnostic.
type RelayRouter struct {
	Registry *Registry
}

// Relay delivers payload to the target connection, tagged with the sender's
// identity. A sender without a session has no room context and the call is a
// no-op. A missing or backlogged target drops this one message without
// affecting anything else.
func (r *RelayRouter) Relay(from, to core.ConnID, kind core.SignalKind, payload json.RawMessage) {
	sess, ok := r.Registry.Get(from)
	if !ok {
		return
	}
	conn, ok := r.Registry.Conn(to)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("to", string(to)).Msg("relay target gone")
		return
	}

	b, err := json.Marshal(core.SignalEnvelope{
		Type:   kind,
		From:   from,
		UserID: sess.Participant.UserID,
		Data:   payload,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal envelope")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Debug().Err(err).Str("module", "app.relay").Str("to", string(to)).Str("kind", string(kind)).Msg("relay send dropped")
	}
}
