package core

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chatroom-service/internal/metrics"
)

// Session is the hub's view of one live connection. The websocket transport
// implements it.
type Session interface {
	ID() string
	Identity() string
	Nick() string
	Send(msg any)
	Close()
}

// Transport is the fan-out side the hub broadcasts through. Broadcast must
// never block on a slow client.
type Transport interface {
	Subscribe(s Session, room string)
	Broadcast(room string, msg any)
}

// NicknameResolver resolves an identity to its display name for roster
// rendering.
type NicknameResolver interface {
	Nickname(identity string) (string, bool)
}

// EventMirror receives every accepted chat event; failures must not reach
// the chat path.
type EventMirror interface {
	Publish(ctx context.Context, ev ChatEvent) error
}

// HubConfig carries the hub's tunables.
type HubConfig struct {
	RetentionWindow time.Duration
	DefaultRoom     string
}

// Hub orchestrates presence, history and fan-out for every connection. All
// shared state lives behind the leaf components' own locks plus the hub's
// room-buffer map lock; no lock is ever held across a broadcast.
type Hub struct {
	cfg       HubConfig
	presence  *PresenceTracker
	transport Transport
	names     NicknameResolver
	mirror    EventMirror
	log       *zap.SugaredLogger

	mu      sync.Mutex
	history map[string]*HistoryBuffer

	now func() time.Time
}

func NewHub(cfg HubConfig, t Transport, names NicknameResolver, mirror EventMirror, log *zap.SugaredLogger) *Hub {
	return &Hub{
		cfg:       cfg,
		presence:  NewPresenceTracker(),
		transport: t,
		names:     names,
		mirror:    mirror,
		log:       log,
		history:   make(map[string]*HistoryBuffer),
		now:       time.Now,
	}
}

// Presence exposes the tracker for read-only callers (roster endpoint).
func (h *Hub) Presence() *PresenceTracker { return h.presence }

// roomHistory returns the room's buffer, creating it on first use.
func (h *Hub) roomHistory(room string) *HistoryBuffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.history[room]
	if !ok {
		buf = newHistoryBuffer(h.cfg.RetentionWindow, h.now)
		h.history[room] = buf
	}
	return buf
}

// Connect admits an authenticated connection and greets it with its own
// identity. An anonymous connection is closed immediately and nothing else
// happens.
func (h *Hub) Connect(s Session) error {
	if s.Identity() == "" {
		s.Close()
		return ErrUnauthenticated
	}
	s.Send(Outbound{Type: "init", Payload: InitInfo{UID: s.Identity(), Nick: s.Nick()}})
	return nil
}

// Join subscribes the connection to a room, replays the room's history to it
// and, if this is the identity's first active connection anywhere, announces
// the arrival to the room.
func (h *Hub) Join(s Session, room string) {
	identity := s.Identity()
	if identity == "" || room == "" {
		return
	}
	fresh := h.presence.Join(identity)
	h.transport.Subscribe(s, room)
	s.Send(Outbound{Type: "chat", Payload: h.roomHistory(room).Snapshot()})
	if fresh {
		h.transport.Broadcast(room, Outbound{
			Type:    "join_notify",
			Payload: JoinNotify{Identity: identity, Nick: s.Nick()},
		})
	}
}

// Chat validates an inbound payload, attributes it to the connection,
// appends it to the room's history and fans it out. A payload that fails
// validation is dropped whole: no history write, no broadcast.
func (h *Hub) Chat(s Session, raw json.RawMessage) error {
	var ev ChatEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		metrics.ValidationFailures.Inc()
		h.log.Debugw("chat payload rejected", "reason", err, "conn", s.ID())
		return ErrMalformedEvent
	}
	if err := ev.Validate(h.now().Unix()); err != nil {
		metrics.ValidationFailures.Inc()
		h.log.Debugw("chat payload rejected", "reason", err, "conn", s.ID())
		return err
	}
	if ev.SenderID != s.Identity() {
		metrics.ValidationFailures.Inc()
		h.log.Warnw("chat sender mismatch",
			"claimed", ev.SenderID, "authenticated", s.Identity(), "conn", s.ID())
		return ErrIdentityMismatch
	}

	h.roomHistory(ev.Room).Append(ev)
	if h.mirror != nil {
		if err := h.mirror.Publish(context.Background(), ev); err != nil {
			h.log.Warnw("event mirror publish failed", "err", err)
		}
	}
	h.transport.Broadcast(ev.Room, Outbound{Type: "chat", Payload: ev})
	return nil
}

// Disconnect records the connection closing and, when the identity has no
// connections left, announces the departure to the default room.
func (h *Hub) Disconnect(s Session) {
	identity := s.Identity()
	if identity == "" {
		return
	}
	departed, err := h.presence.Leave(identity)
	if err != nil {
		metrics.ProtocolAnomalies.Inc()
		h.log.Warnw("disconnect without matching connect", "identity", identity)
		return
	}
	if departed {
		h.transport.Broadcast(h.cfg.DefaultRoom, Outbound{
			Type:    "leave_notify",
			Payload: LeaveNotify{Identity: identity, Nick: s.Nick()},
		})
	}
}

// Roster returns every identity the tracker knows, paired with its display
// name. Identities at zero connections are included; the list is sorted for
// stable output. Small rosters only, no paging.
func (h *Hub) Roster() []RosterEntry {
	ids := h.presence.AllIdentities()
	sort.Strings(ids)
	out := make([]RosterEntry, 0, len(ids))
	for _, id := range ids {
		nick, ok := h.names.Nickname(id)
		if !ok {
			nick = id
		}
		out = append(out, RosterEntry{Identity: id, Nick: nick})
	}
	return out
}

// SyncList pushes the roster to one connection on demand.
func (h *Hub) SyncList(s Session) {
	s.Send(Outbound{Type: "sync_list", Payload: h.Roster()})
}

// ExportState snapshots presence and every room's history for the
// persistence sink.
func (h *Hub) ExportState() *State {
	h.mu.Lock()
	buffers := make(map[string]*HistoryBuffer, len(h.history))
	for room, buf := range h.history {
		buffers[room] = buf
	}
	h.mu.Unlock()

	st := &State{
		Presence: h.presence.Export(),
		History:  make(map[string]HistoryState, len(buffers)),
	}
	for room, buf := range buffers {
		st.History[room] = buf.Export()
	}
	return st
}

// ImportState replaces the hub's state with a saved snapshot. A nil state is
// a no-op (fresh start).
func (h *Hub) ImportState(st *State) {
	if st == nil {
		return
	}
	if st.Presence != nil {
		h.presence.Restore(st.Presence)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, hs := range st.History {
		h.history[room] = restoreHistoryBuffer(h.cfg.RetentionWindow, hs, h.now)
	}
}
