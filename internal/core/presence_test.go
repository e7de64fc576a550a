package core

import (
	"errors"
	"sync"
	"testing"
)

func TestPresenceFreshAndDeparted(t *testing.T) {
	p := NewPresenceTracker()

	if !p.Join("u1") {
		t.Error("first join should be fresh")
	}
	if !p.IsOnline("u1") {
		t.Error("u1 should be online after first join")
	}
	if p.Join("u1") {
		t.Error("second join should not be fresh")
	}
	if !p.IsOnline("u1") {
		t.Error("u1 should stay online with two connections")
	}

	departed, err := p.Leave("u1")
	if err != nil {
		t.Fatalf("first leave: %v", err)
	}
	if departed {
		t.Error("first leave of two connections should not depart")
	}
	if !p.IsOnline("u1") {
		t.Error("u1 should still be online after first leave")
	}

	departed, err = p.Leave("u1")
	if err != nil {
		t.Fatalf("second leave: %v", err)
	}
	if !departed {
		t.Error("second leave should depart")
	}
	if p.IsOnline("u1") {
		t.Error("u1 should be offline after last leave")
	}
}

func TestPresenceUnderflow(t *testing.T) {
	p := NewPresenceTracker()

	if _, err := p.Leave("ghost"); !errors.Is(err, ErrPresenceUnderflow) {
		t.Fatalf("leave without join: got %v, want ErrPresenceUnderflow", err)
	}
	if p.IsOnline("ghost") {
		t.Error("ghost should not be online")
	}

	// the count must stay floored at zero, so a later join is fresh again
	if !p.Join("ghost") {
		t.Error("join after underflow should be fresh")
	}
}

func TestPresenceAllIdentitiesKeepsDeparted(t *testing.T) {
	p := NewPresenceTracker()
	p.Join("u1")
	p.Join("u2")
	if _, err := p.Leave("u2"); err != nil {
		t.Fatal(err)
	}

	ids := p.AllIdentities()
	if len(ids) != 2 {
		t.Fatalf("AllIdentities() = %v, want both identities", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["u1"] || !seen["u2"] {
		t.Errorf("AllIdentities() = %v, missing an identity", ids)
	}
}

func TestPresenceExportRestore(t *testing.T) {
	p := NewPresenceTracker()
	p.Join("u1")
	p.Join("u1")
	p.Join("u2")

	q := NewPresenceTracker()
	q.Restore(p.Export())

	if !q.IsOnline("u1") || !q.IsOnline("u2") {
		t.Error("restored tracker lost online identities")
	}
	if fresh := q.Join("u1"); fresh {
		t.Error("u1 already had connections, join must not be fresh")
	}
}

func TestPresenceRestoreFloorsNegative(t *testing.T) {
	p := NewPresenceTracker()
	p.Restore(map[string]int{"u1": -3})
	if p.IsOnline("u1") {
		t.Error("negative restored count should floor at zero")
	}
	if !p.Join("u1") {
		t.Error("join after floored restore should be fresh")
	}
}

func TestPresenceConcurrentJoinLeave(t *testing.T) {
	p := NewPresenceTracker()
	const workers = 16
	const rounds = 200

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				p.Join("u1")
				if _, err := p.Leave("u1"); err != nil {
					t.Errorf("leave: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if p.IsOnline("u1") {
		t.Error("balanced join/leave should end offline")
	}
}
