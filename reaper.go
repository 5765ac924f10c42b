package server

import (
	"context"
	"time"
)

// RunIdleReaper sweeps the player records at the configured interval until
// the context is canceled. The reaper works on records, not connections: a
// client that stopped sending updates is reaped even while its transport
// stays open and keeps answering pings.
func (h *Hub) RunIdleReaper(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.IdleSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweepIdle(time.Now())
		}
	}
}

// sweepIdle force-leaves every record whose last activity is older than the
// idle threshold. The leave broadcast excludes the reaped player's own
// connection, matching the audience of a normal leave.
func (h *Hub) sweepIdle(now time.Time) {
	cutoff := now.Add(-h.cfg.IdleTimeout)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.world.IdleSince(cutoff) {
		h.world.Leave(p.ID)
		exclude := h.clientForPlayerLocked(p.ID)
		h.broadcastLocked(playerLeaveMessage{Type: msgPlayerLeave, ID: p.ID, Name: p.Name}, exclude)
		h.log.Infow("reaped idle player", "player", p.ID, "lastActive", p.LastActive)
	}
}
