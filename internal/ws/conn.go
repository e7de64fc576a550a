package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Connection wraps one websocket with the buffered writer the hub fans out
// through. It implements core.Session.
type Connection struct {
	ws   *websocket.Conn
	id   string
	uid  string
	nick string
	send chan any
	log  *zap.SugaredLogger

	pingInterval  time.Duration
	writeDeadline time.Duration
	readDeadline  time.Duration
	maxMsgSize    int64

	mu     sync.Mutex
	closed bool
}

func NewConnection(conn *websocket.Conn, uid, nick string, opts ConnOptions, log *zap.SugaredLogger) *Connection {
	return &Connection{
		ws:            conn,
		id:            uuid.New().String(),
		uid:           uid,
		nick:          nick,
		send:          make(chan any, 256),
		log:           log,
		pingInterval:  opts.PingInterval,
		writeDeadline: opts.WriteDeadline,
		readDeadline:  opts.ReadDeadline,
		maxMsgSize:    opts.MaxMessageSize,
	}
}

type ConnOptions struct {
	PingInterval   time.Duration
	WriteDeadline  time.Duration
	ReadDeadline   time.Duration
	MaxMessageSize int64
}

func (c *Connection) ID() string       { return c.id }
func (c *Connection) Identity() string { return c.uid }
func (c *Connection) Nick() string     { return c.nick }

// Send queues a message for the write pump. A connection whose buffer is
// full has fallen too far behind; the message is dropped rather than
// stalling the sender.
func (c *Connection) Send(msg any) {
	select {
	case c.send <- msg:
	default:
		c.log.Warnw("send buffer full, dropping message", "conn", c.id, "uid", c.uid)
	}
}

// Close shuts the send channel and the underlying socket exactly once.
func (c *Connection) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
		_ = c.ws.Close()
	}
	c.mu.Unlock()
}

// readPump delivers inbound envelopes to the handler until the socket dies.
// Unparseable frames are skipped.
func (c *Connection) readPump(handle func(env Envelope)) {
	c.ws.SetReadLimit(c.maxMsgSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.readDeadline))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.readDeadline))
	})

	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Debugw("unparseable frame", "conn", c.id, "err", err)
			continue
		}
		handle(env)
	}
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeDeadline))
			if err := c.ws.WriteJSON(msg); err != nil {
				c.log.Debugw("write failed", "conn", c.id, "err", err)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeDeadline))
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
