package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/chitchat/realtime/internal/app"
	"github.com/chitchat/realtime/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// WSController upgrades HTTP requests to websocket channels and feeds
// inbound frames to the orchestrator. One controller serves every
// connection.
type WSController struct {
	Orch  *app.Orchestrator
	Dials *DialLimiter

	ReadLimit  int64
	PingPeriod time.Duration
}

func NewWSController(orch *app.Orchestrator, readLimit int64, pingPeriod time.Duration) *WSController {
	return &WSController{
		Orch:       orch,
		Dials:      NewDialLimiter(5, time.Minute),
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

// WsConn is the transport endpoint for one client: the raw websocket
// plus a buffered outbound queue drained by the write pump.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
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

func (c *WsConn) Close() {
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
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleChannel upgrades the request and attaches the new transport to
// the registry. Identity binding happens later, when the client sends
// subscribe or presence.register.
func (ctl *WSController) HandleChannel(ctx context.Context, c *gin.Context) {
	cid := core.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("client_token", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	ctl.Orch.Registry.Attach(cid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, cid, conn)
}
