package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/app"
	"github.com/airforshare/backend/internal/config"
	"github.com/airforshare/backend/internal/core"
	"github.com/airforshare/backend/internal/domain"
	"github.com/airforshare/backend/internal/metrics"
)

var ErrBackpressure = errors.New("backpressure")

// Controller relays signaling events between connected endpoints. All
// state decisions live in the orchestrator; the controller only
// parses envelopes and delivers outbound frames.
type Controller struct {
	Orch *app.Orchestrator

	readLimit  int64
	pingPeriod time.Duration
}

func NewController(orch *app.Orchestrator, cfg *config.Config) *Controller {
	return &Controller{
		Orch:       orch,
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
	}
}

// WSConn is one endpoint's transport: the websocket plus a buffered
// send channel drained by the write pump.
type WSConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WSConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WSConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is handled by the router middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the connection, registers a fresh endpoint id
// and starts the pumps. The endpoint learns its id from the first
// outbound event.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	id := domain.NewEndpointID()
	conn := &WSConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctl.Orch.Registry.Register(id, conn)
	metrics.ConnectedEndpoints.Inc()
	log.Info().Str("module", "signal").Str("endpoint", string(id)).Msg("new WS connection")

	ctl.sendJSON(conn, struct {
		Type       string            `json:"type"`
		EndpointID domain.EndpointID `json:"endpointId"`
	}{
		Type:       "connected",
		EndpointID: id,
	})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, id, conn)
}
