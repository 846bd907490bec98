package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
)

// Chat and file announcements share a precondition: the sender must
// have completed a join (and so have a display name). Events from
// half-connected endpoints are dropped without a reply.

func (ctl *Controller) handleChat(id domain.EndpointID, data []byte) {
	type chatPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		Text   string `json:"text"`
	}
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}

	ep, ok := ctl.Orch.Registry.Lookup(id)
	if !ok || ep.DisplayName == "" {
		log.Debug().Str("module", "signal").Str("endpoint", string(id)).Msg("chat from endpoint without profile, dropping")
		return
	}

	members := ctl.Orch.MembersOf(domain.RoomID(p.RoomID))
	ctl.broadcast(members, struct {
		Type   string         `json:"type"`
		RoomID domain.RoomID  `json:"roomId"`
		From   core.MemberDTO `json:"from"`
		Text   string         `json:"text"`
		Time   time.Time      `json:"time"`
	}{
		Type:   "chat",
		RoomID: domain.RoomID(p.RoomID),
		From:   core.MemberDTO{ID: id, DisplayName: ep.DisplayName},
		Text:   p.Text,
		Time:   time.Now(),
	})
}

func (ctl *Controller) handleFileInfo(id domain.EndpointID, data []byte) {
	type filePayload struct {
		Type     string          `json:"type"`
		RoomID   string          `json:"roomId"`
		FileMeta json.RawMessage `json:"fileMeta"`
	}
	var p filePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad file payload")
		return
	}

	ep, ok := ctl.Orch.Registry.Lookup(id)
	if !ok || ep.DisplayName == "" {
		log.Debug().Str("module", "signal").Str("endpoint", string(id)).Msg("file info from endpoint without profile, dropping")
		return
	}

	members := ctl.Orch.MembersOf(domain.RoomID(p.RoomID))
	ctl.broadcast(members, struct {
		Type     string          `json:"type"`
		RoomID   domain.RoomID   `json:"roomId"`
		From     core.MemberDTO  `json:"from"`
		FileMeta json.RawMessage `json:"fileMeta"`
		Time     time.Time       `json:"time"`
	}{
		Type:     "file_announced",
		RoomID:   domain.RoomID(p.RoomID),
		From:     core.MemberDTO{ID: id, DisplayName: ep.DisplayName},
		FileMeta: p.FileMeta,
		Time:     time.Now(),
	})
}
