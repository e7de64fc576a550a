package ws

import (
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chatroom-service/internal/auth"
	"github.com/fathima-sithara/chatroom-service/internal/core"
	"github.com/fathima-sithara/chatroom-service/internal/metrics"
)

// Envelope is the standard wire format for inbound ws messages.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinRequest struct {
	Room string `json:"room"`
}

// Server authenticates upgrades and runs the per-connection pumps, feeding
// events into the hub.
type Server struct {
	hub       *core.Hub
	registry  *Registry
	validator *auth.Validator
	directory *auth.Directory
	opts      ConnOptions
	log       *zap.SugaredLogger
}

func NewServer(hub *core.Hub, reg *Registry, v *auth.Validator, dir *auth.Directory, opts ConnOptions, log *zap.SugaredLogger) *Server {
	return &Server{hub: hub, registry: reg, validator: v, directory: dir, opts: opts, log: log}
}

// Handle returns the websocket handler for fiber's websocket middleware. The
// token rides the query string: /v1/ws?token=<jwt>.
func (s *Server) Handle() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		claims, err := s.validator.Validate(conn.Query("token"))
		if err != nil {
			// unauthenticated connect: close immediately, touch nothing
			_ = conn.Close()
			return
		}
		s.directory.Record(claims.UID, claims.Nick)

		c := NewConnection(conn, claims.UID, claims.Nick, s.opts, s.log)
		if err := s.hub.Connect(c); err != nil {
			return
		}
		metrics.ActiveConnections.Inc()
		s.log.Infow("connected", "uid", claims.UID, "conn", c.ID())

		go c.writePump()
		c.readPump(func(env Envelope) { s.dispatch(c, env) })

		// socket gone: tear down in the reverse order of setup
		s.registry.Unsubscribe(c)
		s.hub.Disconnect(c)
		c.Close()
		metrics.ActiveConnections.Dec()
		s.log.Infow("disconnected", "uid", claims.UID, "conn", c.ID())
	}
}

func (s *Server) dispatch(c *Connection, env Envelope) {
	switch env.Type {
	case "chat":
		// validation failures are dropped silently; the hub logs them
		_ = s.hub.Chat(c, env.Payload)
	case "join":
		var req joinRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil || req.Room == "" {
			s.log.Debugw("bad join payload", "conn", c.ID(), "err", err)
			return
		}
		s.hub.Join(c, req.Room)
	case "sync_list":
		s.hub.SyncList(c)
	default:
		// unknown types are ignored
	}
}
