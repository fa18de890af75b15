package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/LtsTibby/connectsite/internal/core"
	"github.com/LtsTibby/connectsite/internal/domain"
)

func (ctl *Controller) handleJoin(
	id core.ConnID,
	conn *WSConn,
	data []byte,
) {
	type joinPayload struct {
		Type     string           `json:"type"`
		UserID   string           `json:"userId"`
		Room     string           `json:"room,omitempty"`
		Muted    bool             `json:"muted,omitempty"`
		ExtID    int64            `json:"extId,omitempty"`
		Active   bool             `json:"active,omitempty"`
		Position *domain.Position `json:"position,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	if !ctl.limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("join rate limited")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "rate_limited",
		})
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.Room).Msg("join")
	ctl.Coord.Join(id, domain.Participant{
		UserID:     p.UserID,
		Muted:      p.Muted,
		ExternalID: p.ExtID,
		Active:     p.Active,
		Position:   p.Position,
	}, p.Room)
}

// handleLeave exits the current room; the connection itself stays open.
func (ctl *Controller) handleLeave(id core.ConnID) {
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("leave")
	ctl.Coord.Leave(id)
}

func (ctl *Controller) handleSetMuted(id core.ConnID, data []byte) {
	type mutePayload struct {
		Type  string `json:"type"`
		Muted bool   `json:"muted"`
	}
	var p mutePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad set-muted payload")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Bool("muted", p.Muted).Msg("set-muted")
	ctl.Coord.SetMuted(id, p.Muted)
}
