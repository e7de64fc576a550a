package core

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  int64
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Unix(c.t, 0)
}

func (c *fakeClock) set(t int64) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func ev(body string, ts int64) ChatEvent {
	return ChatEvent{
		SenderID:   "u1",
		SenderNick: "nick",
		Body:       body,
		EventType:  EventTypeChat,
		Room:       "default",
		Timestamp:  ts,
	}
}

func TestHistoryPreservesAppendOrder(t *testing.T) {
	clk := &fakeClock{}
	h := newHistoryBuffer(600*time.Second, clk.now)

	bodies := []string{"one", "two", "three", "four"}
	for i, b := range bodies {
		h.Append(ev(b, int64(i)))
	}

	snap := h.Snapshot()
	if len(snap) != len(bodies) {
		t.Fatalf("snapshot has %d events, want %d", len(snap), len(bodies))
	}
	for i, b := range bodies {
		if snap[i].Body != b {
			t.Errorf("snapshot[%d].Body = %q, want %q", i, snap[i].Body, b)
		}
	}
}

func TestHistoryRotation(t *testing.T) {
	clk := &fakeClock{}
	h := newHistoryBuffer(600*time.Second, clk.now)

	h.Append(ev("A", 0))

	// B lands in the same bucket as A, then the whole bucket rotates out of
	// current; both remain visible
	clk.set(700)
	h.Append(ev("B", 700))

	snap := h.Snapshot()
	if len(snap) != 2 || snap[0].Body != "A" || snap[1].Body != "B" {
		t.Fatalf("snapshot after rotation = %v, want [A B]", bodies(snap))
	}
	if h.expireAt != 1300 {
		t.Errorf("expireAt = %d, want 1300", h.expireAt)
	}

	// the next rotation drops the bucket holding A and B
	clk.set(1301)
	h.Append(ev("C", 1301))

	snap = h.Snapshot()
	if len(snap) != 1 || snap[0].Body != "C" {
		t.Fatalf("snapshot after second rotation = %v, want [C]", bodies(snap))
	}
}

func TestHistoryRetentionBounds(t *testing.T) {
	clk := &fakeClock{}
	h := newHistoryBuffer(600*time.Second, clk.now)

	h.Append(ev("A", 0))

	// still inside the window: A must survive
	clk.set(599)
	h.Append(ev("B", 599))
	if !contains(h.Snapshot(), "A") {
		t.Fatal("A evicted before one retention window elapsed")
	}

	// first rotation moves A's bucket to previous
	clk.set(601)
	h.Append(ev("C", 601))
	if !contains(h.Snapshot(), "A") {
		t.Fatal("A must survive the first rotation")
	}

	// past two windows with traffic: A must be gone
	clk.set(1202)
	h.Append(ev("D", 1202))
	if contains(h.Snapshot(), "A") {
		t.Fatal("A still present after two retention windows")
	}
}

func TestHistoryExportRestore(t *testing.T) {
	clk := &fakeClock{}
	h := newHistoryBuffer(600*time.Second, clk.now)
	h.Append(ev("A", 0))
	clk.set(700)
	h.Append(ev("B", 700))

	st := h.Export()
	restored := restoreHistoryBuffer(600*time.Second, st, clk.now)

	snap := restored.Snapshot()
	if len(snap) != 2 || snap[0].Body != "A" || snap[1].Body != "B" {
		t.Fatalf("restored snapshot = %v, want [A B]", bodies(snap))
	}
	if restored.expireAt != 1300 {
		t.Errorf("restored expireAt = %d, want 1300", restored.expireAt)
	}
}

func TestHistoryRestoreRejectsBadBucketCount(t *testing.T) {
	clk := &fakeClock{t: 50}
	st := HistoryState{Buckets: [][]ChatEvent{{ev("A", 0)}}, ExpireAt: 600}
	h := restoreHistoryBuffer(600*time.Second, st, clk.now)
	if len(h.Snapshot()) != 0 {
		t.Error("malformed snapshot should restore empty")
	}
	if h.expireAt != 650 {
		t.Errorf("fresh buffer expireAt = %d, want 650", h.expireAt)
	}
}

func TestHistoryConcurrentAppendSnapshot(t *testing.T) {
	h := NewHistoryBuffer(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Append(ev("x", int64(j)))
				_ = h.Snapshot()
			}
		}()
	}
	wg.Wait()

	if got := len(h.Snapshot()); got != 800 {
		t.Errorf("snapshot has %d events, want 800", got)
	}
}

func bodies(evs []ChatEvent) []string {
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.Body
	}
	return out
}

func contains(evs []ChatEvent, body string) bool {
	for _, e := range evs {
		if e.Body == body {
			return true
		}
	}
	return false
}
