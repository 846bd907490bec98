package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/app"
	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
	"github.com/airforshare/backend/internal/metrics"
)

func (ctl *Controller) handleJoin(id domain.EndpointID, conn core.SignalConnection, data []byte) {
	type joinPayload struct {
		Type        string `json:"type"`
		RoomID      string `json:"roomId,omitempty"`
		DisplayName string `json:"displayName"`
		IsPrivate   bool   `json:"isPrivate,omitempty"`
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

	out := ctl.Orch.AttemptJoin(id, domain.RoomID(p.RoomID), p.DisplayName, p.IsPrivate)
	if out.Rejected {
		ctl.sendJSON(conn, struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		}{
			Type:   "join_rejected",
			Reason: out.Reason,
		})
		return
	}
	metrics.ActiveRooms.Set(float64(ctl.Orch.Rooms.Count()))

	// The endpoint may have switched rooms; tell the old room first.
	if out.Left != nil && len(out.Left.Recipients) > 0 {
		ctl.broadcast(out.Left.Recipients, membersChanged(out.Left))
	}

	ctl.sendJSON(conn, struct {
		Type      string           `json:"type"`
		RoomID    domain.RoomID    `json:"roomId"`
		IsPrivate bool             `json:"isPrivate"`
		Members   []core.MemberDTO `json:"members"`
	}{
		Type:      "joined",
		RoomID:    out.RoomID,
		IsPrivate: out.IsPrivate,
		Members:   out.Members,
	})

	ctl.broadcast(out.Members, membersChanged(&app.RoomChange{
		RoomID:  out.RoomID,
		Members: out.Members,
	}))
}

func (ctl *Controller) handleInvite(id domain.EndpointID, conn core.SignalConnection, data []byte) {
	type invitePayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		Target string `json:"target"`
	}
	var p invitePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad invite payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	out := ctl.Orch.Invite(id, domain.RoomID(p.RoomID), domain.EndpointID(p.Target))
	switch out.Status {
	case app.InviteIgnored:
		return
	case app.InviteDenied:
		ctl.sendJSON(conn, struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		}{
			Type:   "invite_rejected",
			Reason: out.Reason,
		})
	case app.InviteAllowed:
		// Notification only: the invitation never touches the
		// membership list.
		ctl.sendTo(domain.EndpointID(p.Target), struct {
			Type      string         `json:"type"`
			RoomID    domain.RoomID  `json:"roomId"`
			From      core.MemberDTO `json:"from"`
			IsPrivate bool           `json:"isPrivate"`
		}{
			Type:      "invited",
			RoomID:    out.RoomID,
			From:      out.From,
			IsPrivate: out.IsPrivate,
		})
	}
}
