package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/app"
	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
	"github.com/airforshare/backend/internal/metrics"
)

func (ctl *Controller) writePump(ctx context.Context, c *WSConn) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, id domain.EndpointID, c *WSConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("endpoint", string(id)).Msg("readPump closing")
		ctl.handleDisconnect(id)
		c.Close()
		metrics.ConnectedEndpoints.Dec()
	}()

	pongWait := ctl.pingPeriod + 6*time.Second
	c.conn.SetReadLimit(ctl.readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("endpoint", string(id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("endpoint", string(id)).Msg("readPump read error")
				}
				return
			}
			ctl.dispatch(id, c, data)
		}
	}
}

func (ctl *Controller) dispatch(id domain.EndpointID, c core.SignalConnection, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(id, c, data)
	case "peer_signal":
		ctl.handlePeerSignal(id, data)
	case "chat":
		ctl.handleChat(id, data)
	case "file_info":
		ctl.handleFileInfo(id, data)
	case "invite":
		ctl.handleInvite(id, c, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		return
	}
	metrics.RelayedEvents.WithLabelValues(env.Type).Inc()
}

// handleDisconnect runs the eviction policy and notifies whoever is
// left. Nothing is sent when the room vanished with nobody remaining.
func (ctl *Controller) handleDisconnect(id domain.EndpointID) {
	change := ctl.Orch.HandleDisconnect(id)
	metrics.ActiveRooms.Set(float64(ctl.Orch.Rooms.Count()))
	if change == nil || len(change.Recipients) == 0 {
		return
	}
	ctl.broadcast(change.Recipients, membersChanged(change))
}

func membersChanged(change *app.RoomChange) any {
	return struct {
		Type    string           `json:"type"`
		RoomID  domain.RoomID    `json:"roomId"`
		Members []core.MemberDTO `json:"members"`
	}{
		Type:    "members_changed",
		RoomID:  change.RoomID,
		Members: change.Members,
	}
}

func (ctl *Controller) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// sendTo delivers to a single endpoint; silently dropped when the
// target is not connected (a departed target and a bad id are the
// same benign race from here).
func (ctl *Controller) sendTo(id domain.EndpointID, v any) {
	conn, ok := ctl.Orch.Registry.Signal(id)
	if !ok {
		log.Debug().Str("module", "signal").Str("target", string(id)).Msg("target not connected, dropping")
		return
	}
	ctl.sendJSON(conn, v)
}

// broadcast fans one event out to every listed member, resolving each
// transport at delivery time.
func (ctl *Controller) broadcast(members []core.MemberDTO, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	for _, m := range members {
		conn, ok := ctl.Orch.Registry.Signal(m.ID)
		if !ok {
			continue
		}
		_ = conn.TrySend(b)
	}
}
