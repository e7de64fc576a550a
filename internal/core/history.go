package core

import (
	"sync"
	"time"
)

// HistoryBuffer retains a rolling window of chat events for late joiners.
// Events live in exactly two buckets: a previous one and a current one. Every
// append lands in the current bucket and then checks the wall clock; once the
// current bucket's expiry passes, the previous bucket is dropped and a fresh
// empty bucket becomes current. An event therefore survives at least one
// retention window and strictly less than two (given continued traffic —
// there is no background timer, so a silent room keeps its history until the
// next append).
type HistoryBuffer struct {
	mu       sync.Mutex
	prev     []ChatEvent
	cur      []ChatEvent
	expireAt int64
	window   int64
	now      func() time.Time
}

func NewHistoryBuffer(window time.Duration) *HistoryBuffer {
	return newHistoryBuffer(window, time.Now)
}

func newHistoryBuffer(window time.Duration, now func() time.Time) *HistoryBuffer {
	secs := int64(window / time.Second)
	return &HistoryBuffer{
		expireAt: now().Unix() + secs,
		window:   secs,
		now:      now,
	}
}

// Append adds the event to the current bucket, then rotates the buckets if
// the current bucket's retention window has elapsed. Rotation happens after
// the append, so the triggering event moves to the previous bucket along
// with everything else already there.
func (h *HistoryBuffer) Append(ev ChatEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = append(h.cur, ev)
	now := h.now().Unix()
	if now > h.expireAt {
		h.prev = h.cur
		h.cur = nil
		h.expireAt = now + h.window
	}
}

// Snapshot returns every retained event in chronological order, previous
// bucket first. The returned slice is a copy.
func (h *HistoryBuffer) Snapshot() []ChatEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ChatEvent, 0, len(h.prev)+len(h.cur))
	out = append(out, h.prev...)
	out = append(out, h.cur...)
	return out
}

// Export copies the bucket state for the persistence sink.
func (h *HistoryBuffer) Export() HistoryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := HistoryState{
		Buckets:  [][]ChatEvent{append([]ChatEvent(nil), h.prev...), append([]ChatEvent(nil), h.cur...)},
		ExpireAt: h.expireAt,
	}
	return st
}

// restoreHistoryBuffer rebuilds a buffer from a saved snapshot. A snapshot
// with an unexpected bucket count is ignored and a fresh buffer is returned.
func restoreHistoryBuffer(window time.Duration, st HistoryState, now func() time.Time) *HistoryBuffer {
	h := newHistoryBuffer(window, now)
	if len(st.Buckets) != 2 {
		return h
	}
	h.prev = append([]ChatEvent(nil), st.Buckets[0]...)
	h.cur = append([]ChatEvent(nil), st.Buckets[1]...)
	if st.ExpireAt > 0 {
		h.expireAt = st.ExpireAt
	}
	return h
}
