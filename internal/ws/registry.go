package ws

import (
	"sync"

	"github.com/fathima-sithara/chatroom-service/internal/core"
	"github.com/fathima-sithara/chatroom-service/internal/metrics"
)

// Registry tracks which sessions belong to which room and fans messages out
// to them. It implements core.Transport.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[core.Session]struct{}
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[core.Session]struct{})}
}

func (r *Registry) Subscribe(s core.Session, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[core.Session]struct{})
		r.rooms[room] = members
	}
	members[s] = struct{}{}
}

// Unsubscribe removes the session from every room it joined. Empty rooms are
// dropped from the map.
func (r *Registry) Unsubscribe(s core.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for room, members := range r.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// Broadcast queues the message on every member of the room. Session.Send
// never blocks, so holding the read lock across the loop is safe.
func (r *Registry) Broadcast(room string, msg any) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	metrics.Broadcasts.Inc()
	for s := range r.rooms[room] {
		s.Send(msg)
	}
}
