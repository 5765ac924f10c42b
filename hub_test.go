package server

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"emberfall/server/internal/world"
)

// testFrame decodes any outbound frame shape for assertions.
type testFrame struct {
	Type     string          `json:"type"`
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Player   *world.Player   `json:"player"`
	NPC      *world.NPC      `json:"npc"`
	Item     *world.Item     `json:"item"`
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Position *world.Position `json:"position"`
	NPCID    int             `json:"npcId"`
	NPCName  string          `json:"npcName"`
	Dialog   string          `json:"dialog"`
}

func newTestHub() *Hub {
	return NewHub(DefaultConfig(), zap.NewNop().Sugar(), world.New(world.DefaultNPCs(), world.DefaultItems()))
}

// connect registers a connection without a transport; pumps are not started,
// so enqueued frames stay in the send buffer for inspection.
func connect(t *testing.T, h *Hub) *client {
	t.Helper()
	return h.register(nil)
}

func drainFrames(t *testing.T, c *client) []testFrame {
	t.Helper()
	var frames []testFrame
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return frames
			}
			var frame testFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				t.Fatalf("failed to decode frame %q: %v", data, err)
			}
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func framesOfType(frames []testFrame, frameType string) []testFrame {
	var matched []testFrame
	for _, frame := range frames {
		if frame.Type == frameType {
			matched = append(matched, frame)
		}
	}
	return matched
}

func joinAs(t *testing.T, c *client, id, name string) {
	t.Helper()
	c.handleFrame([]byte(`{"type":"player_join","player":{"id":"` + id + `","name":"` + name + `","class":"warrior","position":{"x":0,"y":0,"z":0}}}`))
}

func TestRegisterAndDrop(t *testing.T) {
	h := newTestHub()
	a := connect(t, h)
	b := connect(t, h)

	h.mu.Lock()
	open := len(h.clients)
	h.mu.Unlock()
	if open != 2 {
		t.Fatalf("expected 2 registered connections, got %d", open)
	}

	h.drop(a, "test")
	h.mu.Lock()
	open = len(h.clients)
	h.mu.Unlock()
	if open != 1 {
		t.Fatalf("expected 1 connection after drop, got %d", open)
	}

	// An unjoined connection produces no leave broadcast.
	if frames := framesOfType(drainFrames(t, b), msgPlayerLeave); len(frames) != 0 {
		t.Fatalf("expected no player_leave for unjoined drop, got %d", len(frames))
	}
}

func TestDropBroadcastsLeaveExactlyOnce(t *testing.T) {
	h := newTestHub()
	a := connect(t, h)
	b := connect(t, h)
	joinAs(t, a, "a1", "Hero")
	joinAs(t, b, "b2", "Sidekick")
	drainFrames(t, b)

	h.drop(a, "test")
	h.drop(a, "test again")

	leaves := framesOfType(drainFrames(t, b), msgPlayerLeave)
	if len(leaves) != 1 {
		t.Fatalf("expected exactly one player_leave, got %d", len(leaves))
	}
	if leaves[0].ID != "a1" || leaves[0].Name != "Hero" {
		t.Fatalf("unexpected leave payload %+v", leaves[0])
	}

	if h.world.Count() != 1 {
		t.Fatalf("expected a1's record removed, got %d records", h.world.Count())
	}
}

func TestBroadcastExcludesOnlyTheExcluded(t *testing.T) {
	h := newTestHub()
	a := connect(t, h)
	b := connect(t, h)
	c := connect(t, h)

	h.mu.Lock()
	h.broadcastLocked(chatMessage{Type: msgChatMessage, ID: "x", Message: "hi"}, a)
	h.mu.Unlock()

	if frames := drainFrames(t, a); len(frames) != 0 {
		t.Fatalf("excluded connection received %d frames", len(frames))
	}
	for _, cl := range []*client{b, c} {
		if frames := drainFrames(t, cl); len(frames) != 1 {
			t.Fatalf("expected exactly one frame, got %d", len(frames))
		}
	}
}

func TestBroadcastSurvivesFullSendBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SendBuffer = 1
	h := NewHub(cfg, zap.NewNop().Sugar(), world.New(nil, nil))
	slow := connect(t, h)
	fast := connect(t, h)

	h.mu.Lock()
	h.broadcastLocked(chatMessage{Type: msgChatMessage, Message: "one"}, nil)
	h.broadcastLocked(chatMessage{Type: msgChatMessage, Message: "two"}, nil)
	h.mu.Unlock()

	// slow's buffer held only the first frame; the second was dropped for it
	// but still delivered to fast.
	if frames := drainFrames(t, slow); len(frames) != 1 {
		t.Fatalf("expected slow client to hold 1 frame, got %d", len(frames))
	}
	if frames := drainFrames(t, fast); len(frames) != 2 {
		t.Fatalf("expected fast client to hold 2 frames, got %d", len(frames))
	}
}

func TestDiagnosticsSnapshot(t *testing.T) {
	h := newTestHub()
	a := connect(t, h)
	connect(t, h)
	joinAs(t, a, "a1", "Hero")

	conns, players := h.DiagnosticsSnapshot()
	if len(conns) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(conns))
	}
	if players != 1 {
		t.Fatalf("expected 1 player record, got %d", players)
	}
	found := false
	for _, conn := range conns {
		if conn.Player == "a1" {
			found = true
			if !conn.Alive {
				t.Fatalf("fresh connection should be alive")
			}
		}
	}
	if !found {
		t.Fatalf("expected a connection associated with a1")
	}
}
