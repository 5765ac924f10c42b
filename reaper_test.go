package server

import (
	"testing"
	"time"
)

func TestReaperRemovesIdleRecord(t *testing.T) {
	h := newTestHub()
	a := connect(t, h)
	b := connect(t, h)
	joinAs(t, a, "a1", "Hero")
	joinAs(t, b, "b2", "Sidekick")
	drainFrames(t, a)
	drainFrames(t, b)

	// a1 goes idle past the threshold; the connection itself stays open.
	h.sweepIdle(time.Now().Add(h.cfg.IdleTimeout + time.Minute))

	if _, ok := h.world.Get("a1"); ok {
		t.Fatalf("idle record must be reaped")
	}
	h.mu.Lock()
	_, open := h.clients[a.id]
	h.mu.Unlock()
	if !open {
		t.Fatalf("the reaper removes records, not connections")
	}

	leaves := framesOfType(drainFrames(t, b), msgPlayerLeave)
	if len(leaves) != 1 || leaves[0].ID != "a1" {
		t.Fatalf("expected one player_leave for a1, got %+v", leaves)
	}
}

func TestReaperExcludesReapedConnection(t *testing.T) {
	h := newTestHub()
	a := connect(t, h)
	joinAs(t, a, "a1", "Hero")
	drainFrames(t, a)

	h.sweepIdle(time.Now().Add(h.cfg.IdleTimeout + time.Minute))

	if frames := framesOfType(drainFrames(t, a), msgPlayerLeave); len(frames) != 0 {
		t.Fatalf("the reaped player's own connection must not see its leave, got %+v", frames)
	}
}

func TestReaperSparesFreshRecords(t *testing.T) {
	h := newTestHub()
	a := connect(t, h)
	joinAs(t, a, "a1", "Hero")
	drainFrames(t, a)

	h.sweepIdle(time.Now())

	if _, ok := h.world.Get("a1"); !ok {
		t.Fatalf("a fresh record must survive the sweep")
	}
}

func TestReaperFiresExactlyOnce(t *testing.T) {
	h := newTestHub()
	a := connect(t, h)
	b := connect(t, h)
	joinAs(t, a, "a1", "Hero")
	joinAs(t, b, "b2", "Sidekick")
	drainFrames(t, b)

	deadline := time.Now().Add(h.cfg.IdleTimeout + time.Minute)
	h.sweepIdle(deadline)
	h.sweepIdle(deadline.Add(time.Minute))

	leaves := framesOfType(drainFrames(t, b), msgPlayerLeave)
	if len(leaves) != 1 {
		t.Fatalf("a reaped record must produce exactly one player_leave, got %d", len(leaves))
	}
}
