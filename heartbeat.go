package server

import (
	"context"
	"time"
)

// RunHeartbeat sweeps the registry at the configured interval until the
// context is canceled. Each sweep force-closes every connection that failed
// to pong since the previous sweep, then clears the remaining liveness flags
// and issues fresh ping probes. This catches half-open transports that never
// deliver a close event.
func (h *Hub) RunHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweepConnections()
		}
	}
}

// sweepConnections runs one liveness sweep. Stale connections go through the
// same disconnect path as a normal close, so peers get the player_leave.
func (h *Hub) sweepConnections() {
	h.mu.Lock()
	var stale []*client
	for _, c := range h.clients {
		if !c.alive {
			stale = append(stale, c)
			continue
		}
		c.alive = false
		select {
		case c.ping <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()

	for _, c := range stale {
		h.drop(c, "heartbeat timeout")
	}
}
