package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/domain"
)

// handlePeerSignal is a pure pass-through: the payload is the two
// endpoints' business, the relay never looks inside it.
func (ctl *Controller) handlePeerSignal(id domain.EndpointID, data []byte) {
	type peerPayload struct {
		Type   string          `json:"type"`
		To     string          `json:"to"`
		Signal json.RawMessage `json:"signal"`
	}
	var p peerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad peer signal payload")
		return
	}

	ctl.sendTo(domain.EndpointID(p.To), struct {
		Type   string            `json:"type"`
		From   domain.EndpointID `json:"from"`
		Signal json.RawMessage   `json:"signal"`
	}{
		Type:   "peer_signal",
		From:   id,
		Signal: p.Signal,
	})
}
