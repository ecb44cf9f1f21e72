// Package server exposes command language sessions over WebSocket. Every
// connection owns an independent session.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	"github.com/msto63/cmdscript/foundation/cmdlang/presenter"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

const (
	readTimeout  = 120 * time.Second
	writeTimeout = 10 * time.Second
	queueSize    = 64
)

// SessionFactory creates the session of a new connection. Output must go
// to out.
type SessionFactory func(out presenter.Presenter) (*cmdlang.Session, error)

// WebSocketHandler handles WebSocket connections running sessions
type WebSocketHandler struct {
	newSession     SessionFactory
	logger         *mdwlog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins map[string]bool
}

// NewWebSocketHandler creates a new WebSocket handler. Browsers may only
// connect from the server's own host or from one of allowedOrigins
// ("scheme://host[:port]"); "*" allows every origin.
func NewWebSocketHandler(factory SessionFactory, logger *mdwlog.Logger, allowedOrigins []string) *WebSocketHandler {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	h := &WebSocketHandler{
		newSession:     factory,
		logger:         logger.WithField("component", "server-websocket"),
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[strings.ToLower(strings.TrimRight(origin, "/"))] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts clients without an Origin header, same-host
// origins and allowlisted origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.allowedOrigins["*"] || h.allowedOrigins[strings.ToLower(strings.TrimRight(origin, "/"))] {
		return true
	}
	u, err := url.Parse(origin)
	if err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h.logger.Warn("Rejected WebSocket origin", mdwlog.Fields{
		"origin":     origin,
		"host":       r.Host,
		"remoteAddr": r.RemoteAddr,
	})
	return false
}

// Message types
const (
	TypeLine    = "line"
	TypeScript  = "script"
	TypePing    = "ping"
	TypePong    = "pong"
	TypeSession = "session"
	TypeDone    = "done"
	TypeError   = "error"
)

// WSMessage represents a client message
type WSMessage struct {
	Type    string          `json:"type"`    // "line", "script", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSScriptPayload is the payload of a script message
type WSScriptPayload struct {
	Script string `json:"script"`
	Args   string `json:"args,omitempty"`
}

// WSResponse represents a server message. Presenter output uses the
// entry kind as type and the text as payload.
type WSResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSDonePayload ends the output of one line or script
type WSDonePayload struct {
	OK     bool   `json:"ok"`
	Code   string `json:"code,omitempty"`
	Failed int    `json:"failed,omitempty"`
}

// connection serializes writes to one socket
type connection struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	logger *mdwlog.Logger
}

func (c *connection) send(resp WSResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(resp); err != nil {
		c.logger.Debug("WebSocket send failed", mdwlog.Fields{"error": err.Error()})
	}
}

func (c *connection) done(err error, failed int) {
	payload := WSDonePayload{OK: err == nil && failed == 0, Failed: failed}
	if err != nil {
		payload.Code = string(mdwerror.GetCode(err))
	}
	c.send(WSResponse{Type: TypeDone, Payload: payload})
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnWithErr("WebSocket upgrade failed", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

func (h *WebSocketHandler) handleConnection(parent context.Context, conn *websocket.Conn) {
	defer conn.Close()

	c := &connection{conn: conn, logger: h.logger}
	session, err := h.newSession(presenter.Func(func(e presenter.Entry) {
		c.send(WSResponse{Type: e.Kind.String(), Payload: e.Text})
	}))
	if err != nil {
		h.logger.ErrorWithErr("cannot create session", err)
		c.send(WSResponse{Type: TypeError, Payload: err.Error()})
		return
	}

	logger := h.logger.WithSession(session.ID())
	logger.Info("WebSocket session started", mdwlog.Fields{"remote": conn.RemoteAddr().String()})
	c.send(WSResponse{Type: TypeSession, Payload: session.ID()})

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// lines run in arrival order on one worker
	queue := make(chan WSMessage, queueSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range queue {
			h.process(ctx, c, session, msg)
		}
	}()
	defer func() {
		close(queue)
		cancel()
		wg.Wait()
	}()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WarnWithErr("WebSocket read error", err)
			} else {
				logger.Info("WebSocket session closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case TypePing:
			c.send(WSResponse{Type: TypePong})
		case TypeLine, TypeScript:
			select {
			case queue <- msg:
			default:
				c.send(WSResponse{Type: TypeError, Payload: "too many pending lines"})
			}
		default:
			c.send(WSResponse{Type: TypeError, Payload: "unknown message type: " + msg.Type})
		}
	}
}

func (h *WebSocketHandler) process(ctx context.Context, c *connection, session *cmdlang.Session, msg WSMessage) {
	switch msg.Type {
	case TypeLine:
		var line string
		if err := json.Unmarshal(msg.Payload, &line); err != nil {
			c.send(WSResponse{Type: TypeError, Payload: "line payload must be a string"})
			c.done(mdwerror.New("invalid payload").WithCode(mdwerror.CodeInvalidInput), 0)
			return
		}
		c.done(session.HandleLine(ctx, line), 0)

	case TypeScript:
		var payload WSScriptPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.send(WSResponse{Type: TypeError, Payload: "invalid script payload"})
			c.done(mdwerror.New("invalid payload").WithCode(mdwerror.CodeInvalidInput), 0)
			return
		}
		report, err := session.RunScript(ctx, strings.NewReader(payload.Script), payload.Args)
		failed := 0
		if report != nil {
			failed = len(report.Failed)
		}
		c.done(err, failed)
	}
}
