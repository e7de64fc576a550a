package core

import "sync"

// PresenceTracker counts active connections per identity so that join and
// leave notifications fire once per person, not once per socket. Entries are
// never deleted; an identity that has fully departed stays in the map at
// zero. The identity space is bounded by registered users, so this is fine.
type PresenceTracker struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{counts: make(map[string]int)}
}

// Join increments the identity's connection count and reports whether this
// is its first active connection.
func (p *PresenceTracker) Join(identity string) (fresh bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[identity]++
	return p.counts[identity] == 1
}

// Leave decrements the identity's connection count and reports whether its
// last connection just closed. A leave with no matching join returns
// ErrPresenceUnderflow and leaves the count at zero.
func (p *PresenceTracker) Leave(identity string) (departed bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.counts[identity]
	if n <= 0 {
		return false, ErrPresenceUnderflow
	}
	n--
	p.counts[identity] = n
	return n == 0, nil
}

// IsOnline reports whether the identity has at least one active connection.
func (p *PresenceTracker) IsOnline(identity string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[identity] > 0
}

// AllIdentities returns every identity the tracker has ever seen, including
// those currently at zero. Callers that need online-only must filter with
// IsOnline themselves.
func (p *PresenceTracker) AllIdentities() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.counts))
	for id := range p.counts {
		ids = append(ids, id)
	}
	return ids
}

// Export copies the count map for the persistence sink.
func (p *PresenceTracker) Export() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]int, len(p.counts))
	for id, n := range p.counts {
		out[id] = n
	}
	return out
}

// Restore replaces the count map with a saved snapshot. Negative counts in a
// corrupt snapshot are floored at zero.
func (p *PresenceTracker) Restore(counts map[string]int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts = make(map[string]int, len(counts))
	for id, n := range counts {
		if n < 0 {
			n = 0
		}
		p.counts[id] = n
	}
}
