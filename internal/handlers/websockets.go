package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"eventlog/internal/query"
	"eventlog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	maxInterval      = 10 * time.Minute
	maxIntervalMilli = 600_000
	queryBacklog     = 8
)

// Envelope types written to the console.
const (
	wsTypeResult = "result"
	wsTypeError  = "error"
	wsTypeStatus = "status"
)

// wsEnvelope is the single message shape written to the console.
type wsEnvelope struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// Upgrader for HTTP -> WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once the console is served from a known host
}

// @Summary      Query console
// @Description  WebSocket. Every text frame is one query; each gets a result or error envelope. With ?interval=30s the ingest status is pushed periodically. The upgrade needs a bearer token in the Authorization header or the token parameter.
// @Tags         query
// @Security     BearerAuth
// @Param        token        query  string  false  "JWT, for clients that cannot set headers"
// @Param        interval     query  string  false  "Status push interval (Go duration)"
// @Param        interval_ms  query  int     false  "Status push interval in milliseconds"
// @Failure      401          {object}  errorResponse
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	userID, ok := h.authenticate(c, true)
	if !ok {
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "user_id", userID, "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The reader only forwards queries; every write happens in this goroutine.
	queries := make(chan string, queryBacklog)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go h.startReader(conn, queries, done, quit)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	var statusC <-chan time.Time
	if interval > 0 {
		status := time.NewTicker(interval)
		defer status.Stop()
		statusC = status.C
	}

	ctx := c.Request.Context()
	if err := h.sendStatus(ctx, conn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-statusC:
			if err := h.sendStatus(ctx, conn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		case q := <-queries:
			if err := h.sendQueryResult(ctx, conn, q); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=30s or ?interval_ms=30000 with bounds.
// Zero disables status pushes.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return 0
}

// startReader forwards text frames as queries until the peer goes away or
// quit is closed.
func (h *Handler) startReader(conn *websocket.Conn, queries chan<- string, done chan<- struct{}, quit <-chan struct{}) {
	defer close(done)
	for {
		typ, msg, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		if typ != websocket.TextMessage {
			continue
		}
		select {
		case queries <- string(msg):
		case <-quit:
			return
		}
	}
}

// sendQueryResult runs q and writes its result or error envelope.
func (h *Handler) sendQueryResult(ctx context.Context, conn *websocket.Conn, q string) error {
	env := wsEnvelope{Type: wsTypeResult, Query: q}

	set, err := h.services.Execute(ctx, q)
	var qe *query.QueryError
	switch {
	case err == nil:
		env.Data = QueryResponse{Field: set.Field().String(), Count: set.Len(), Values: set.Strings()}
	case errors.As(err, &qe):
		env.Type, env.Error, env.Kind = wsTypeError, qe.Error(), qe.Kind()
	case errors.Is(err, service.ErrNotLoaded):
		env.Type, env.Error = wsTypeError, errNotLoaded
	default:
		if h.log != nil {
			h.log.Errorw("ws_query_failed", "err", err, "query", q)
		}
		env.Type, env.Error = wsTypeError, errInternal
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}

// sendStatus writes the ingest status with a write deadline.
func (h *Handler) sendStatus(ctx context.Context, conn *websocket.Conn) error {
	st, err := h.services.GetStatus(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_status_failed", "err", err)
		}
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: wsTypeStatus, Data: gin.H{"loaded": h.services.Loaded(), "ingest": st}})
}
