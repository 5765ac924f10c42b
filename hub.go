package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"emberfall/server/internal/world"
)

// Hub owns the world store and the set of open connections. Its mutex is the
// single serialization point for both: every handler and sweep runs its full
// read-mutate-enqueue sequence under it, so interleavings match a cooperative
// single-owner model. Socket writes never happen under the mutex; frames are
// enqueued to per-connection buffered channels drained by writer goroutines.
type Hub struct {
	mu      sync.Mutex
	cfg     Config
	log     *zap.SugaredLogger
	world   *world.World
	clients map[uuid.UUID]*client
}

// NewHub builds a hub around the given store.
func NewHub(cfg Config, log *zap.SugaredLogger, w *world.World) *Hub {
	return &Hub{
		cfg:     cfg,
		log:     log,
		world:   w,
		clients: make(map[uuid.UUID]*client),
	}
}

// register adds a freshly accepted connection to the registry. The caller
// starts the pumps.
func (h *Hub) register(conn *websocket.Conn) *client {
	c := newClient(h, conn)

	h.mu.Lock()
	h.clients[c.id] = c
	open := len(h.clients)
	h.mu.Unlock()

	c.log.Infow("connection registered", "open", open)
	return c
}

// drop removes a connection and, if it had joined, removes its player record
// and notifies the remaining peers. Every disconnect cause funnels through
// here: read errors, close frames, and heartbeat timeouts all produce the
// same player_leave.
func (h *Hub) drop(c *client, reason string) {
	h.mu.Lock()
	if c.gone {
		h.mu.Unlock()
		return
	}
	c.gone = true
	delete(h.clients, c.id)

	var removed world.Player
	hadRecord := false
	if c.playerID != "" {
		removed, hadRecord = h.world.Leave(c.playerID)
	}
	if hadRecord {
		h.broadcastLocked(playerLeaveMessage{Type: msgPlayerLeave, ID: removed.ID, Name: removed.Name}, c)
	}
	h.mu.Unlock()

	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
	c.log.Infow("connection closed", "reason", reason, "player", c.playerID)
}

// broadcastLocked serializes the frame once and enqueues it to every open
// connection except the excluded one. A full send buffer on one recipient is
// logged and the frame dropped for that recipient only; delivery is best
// effort and the remaining recipients are unaffected. Callers hold h.mu.
func (h *Hub) broadcastLocked(frame any, exclude *client) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.Errorw("failed to marshal broadcast frame", "error", err)
		return
	}
	for _, c := range h.clients {
		if c == exclude || c.gone {
			continue
		}
		c.enqueue(data)
	}
}

// sendLocked serializes the frame and enqueues it to a single connection.
// Callers hold h.mu.
func (h *Hub) sendLocked(c *client, frame any) {
	if c.gone {
		return
	}
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.Errorw("failed to marshal frame", "error", err)
		return
	}
	c.enqueue(data)
}

// markAlive records a pong from the connection.
func (h *Hub) markAlive(c *client) {
	h.mu.Lock()
	c.alive = true
	h.mu.Unlock()
}

// clientForPlayerLocked returns the connection currently associated with the
// identity, if any. Callers hold h.mu.
func (h *Hub) clientForPlayerLocked(playerID string) *client {
	for _, c := range h.clients {
		if c.playerID == playerID {
			return c
		}
	}
	return nil
}

type diagnosticsConnection struct {
	ID     string `json:"id"`
	Player string `json:"player,omitempty"`
	Alive  bool   `json:"alive"`
}

// DiagnosticsSnapshot reports the open connections and the player count.
func (h *Hub) DiagnosticsSnapshot() ([]diagnosticsConnection, int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := make([]diagnosticsConnection, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, diagnosticsConnection{
			ID:     c.id.String(),
			Player: c.playerID,
			Alive:  c.alive,
		})
	}
	return conns, h.world.Count()
}
