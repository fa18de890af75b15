package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/LtsTibby/connectsite/internal/core"
)

// Negotiation messages bypass the coordinator and go straight through the
// relay router to the named target connection.
func (ctl *Controller) handleRelay(id core.ConnID, kind core.SignalKind, data []byte) {
	type relayPayload struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", string(kind)).Msg("bad relay payload")
		return
	}
	if p.To == "" {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Str("kind", string(kind)).Msg("relay without target")
		return
	}
	ctl.Relay.Relay(id, core.ConnID(p.To), kind, p.Data)
}
