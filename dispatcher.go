package server

import (
	"encoding/json"
	"time"

	"emberfall/server/internal/world"
)

// handleFrame runs the per-connection protocol state machine for one inbound
// frame. A connection starts Unjoined; the only transition is player_join to
// Joined, and there is no way back. Malformed or unexpected frames are logged
// and ignored; nothing here closes the connection.
func (c *client) handleFrame(data []byte) {
	var frame clientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.log.Warnw("discarding malformed frame", "error", err)
		return
	}

	switch frame.Type {
	case msgPlayerJoin:
		c.hub.handleJoin(c, frame.Player)
	case msgPlayerPosition:
		c.hub.handlePosition(c, frame.Player)
	case msgChatMessage:
		c.hub.handleChat(c, frame.Message)
	case msgPlayerUpdate:
		c.hub.handleUpdate(c, frame.Player)
	case msgPlayerAction:
		c.hub.handleAction(c, frame.Action, frame.TargetID)
	default:
		c.log.Warnw("ignoring unknown message type", "type", frame.Type)
	}
}

// handleJoin performs the Unjoined -> Joined transition. The whole sequence
// runs in one critical section so the confirmation, the snapshot and the join
// broadcast are atomic with respect to every other mutation: the joiner's
// frames always arrive as confirm, then snapshot, then the join broadcast.
// The snapshot excludes the joiner's own record; the broadcast goes to every
// connection including the joiner, so each client sees the new player exactly
// once.
func (h *Hub) handleJoin(c *client, p *playerPayload) {
	if p == nil || p.ID == "" {
		c.log.Warnw("discarding join without player id")
		return
	}

	record := world.Player{ID: p.ID, Name: p.Name, Class: p.Class}
	if p.Position != nil {
		record.Position = *p.Position
	}
	if p.Level != nil {
		record.Level = *p.Level
	}
	if p.Health != nil {
		record.Health = *p.Health
	}
	if p.MaxHealth != nil {
		record.MaxHealth = *p.MaxHealth
	}

	h.mu.Lock()
	if c.gone {
		h.mu.Unlock()
		return
	}
	stored := h.world.Join(record, time.Now())
	c.playerID = stored.ID
	c.joined = true

	h.sendLocked(c, joinConfirmMessage{Type: msgJoinConfirm, Success: true, Message: "joined world"})
	for _, other := range h.world.Players() {
		if other.ID == stored.ID {
			continue
		}
		h.sendLocked(c, playerJoinMessage{Type: msgPlayerJoin, Player: other})
	}
	for _, npc := range h.world.NPCs() {
		h.sendLocked(c, npcInfoMessage{Type: msgNPCInfo, NPC: npc})
	}
	for _, item := range h.world.Items() {
		h.sendLocked(c, itemInfoMessage{Type: msgItemInfo, Item: item})
	}
	h.broadcastLocked(playerJoinMessage{Type: msgPlayerJoin, Player: stored}, nil)
	h.mu.Unlock()

	c.log.Infow("player joined", "player", stored.ID, "name", stored.Name)
}

func (h *Hub) handlePosition(c *client, p *playerPayload) {
	if p == nil || p.Position == nil {
		c.log.Warnw("discarding position frame without position")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !c.joined {
		c.log.Warnw("ignoring position frame before join")
		return
	}
	record, ok := h.world.UpdatePosition(c.playerID, *p.Position, time.Now())
	if !ok {
		c.log.Warnw("position update for unknown player", "player", c.playerID)
		return
	}
	h.broadcastLocked(playerPositionMessage{
		Type:     msgPlayerPosition,
		ID:       record.ID,
		Name:     record.Name,
		Position: record.Position,
	}, c)
}

// handleChat reflects the message back to the sender as well, so every client
// renders the line the same way.
func (h *Hub) handleChat(c *client, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !c.joined {
		c.log.Warnw("ignoring chat frame before join")
		return
	}
	record, ok := h.world.Get(c.playerID)
	if !ok {
		c.log.Warnw("chat from player without record", "player", c.playerID)
		return
	}
	h.broadcastLocked(chatMessage{
		Type:    msgChatMessage,
		ID:      record.ID,
		Name:    record.Name,
		Message: text,
	}, nil)
}

func (h *Hub) handleUpdate(c *client, p *playerPayload) {
	if p == nil {
		c.log.Warnw("discarding update frame without player")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !c.joined {
		c.log.Warnw("ignoring update frame before join")
		return
	}
	patch := world.StatPatch{Health: p.Health, MaxHealth: p.MaxHealth, Level: p.Level}
	record, ok := h.world.UpdateStats(c.playerID, patch, time.Now())
	if !ok {
		c.log.Warnw("stat update for unknown player", "player", c.playerID)
		return
	}
	h.broadcastLocked(playerUpdateMessage{Type: msgPlayerUpdate, Player: record}, nil)
}

// handleAction routes player_action frames to the action sub-handler. Actions
// are side effects, not presence signals: they do not refresh the player's
// activity timestamp.
func (h *Hub) handleAction(c *client, action string, targetID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !c.joined {
		c.log.Warnw("ignoring action frame before join")
		return
	}

	switch action {
	case actionInteractNPC:
		npc, ok := h.world.NPCByID(targetID)
		if !ok {
			return
		}
		h.sendLocked(c, npcDialogMessage{
			Type:    msgNPCDialog,
			NPCID:   npc.ID,
			NPCName: npc.Name,
			Dialog:  npc.Dialog,
		})
	case actionAttack, actionPickupItem:
		// Protocol slots without game logic behind them yet.
	default:
		c.log.Warnw("ignoring unknown action", "action", action)
	}
}
