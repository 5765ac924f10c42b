package server

import "emberfall/server/internal/world"

// Inbound frame types.
const (
	msgPlayerJoin     = "player_join"
	msgPlayerPosition = "player_position"
	msgChatMessage    = "chat_message"
	msgPlayerUpdate   = "player_update"
	msgPlayerAction   = "player_action"
)

// Outbound-only frame types.
const (
	msgJoinConfirm = "join_confirm"
	msgNPCInfo     = "npc_info"
	msgItemInfo    = "item_info"
	msgPlayerLeave = "player_leave"
	msgNPCDialog   = "npc_dialog"
)

// Action names inside player_action frames.
const (
	actionInteractNPC = "interact_npc"
	actionAttack      = "attack"
	actionPickupItem  = "pickup_item"
)

// clientFrame is the envelope every inbound frame decodes into. Only the
// fields matching the declared type are consulted.
type clientFrame struct {
	Type     string         `json:"type"`
	Player   *playerPayload `json:"player,omitempty"`
	Message  string         `json:"message,omitempty"`
	Action   string         `json:"action,omitempty"`
	TargetID int            `json:"targetId,omitempty"`
}

// playerPayload carries the player fields a client may send. Stats are
// pointers so an explicit zero is distinguishable from an absent field.
type playerPayload struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Class     string          `json:"class"`
	Position  *world.Position `json:"position,omitempty"`
	Level     *int            `json:"level,omitempty"`
	Health    *int            `json:"health,omitempty"`
	MaxHealth *int            `json:"maxHealth,omitempty"`
}

type joinConfirmMessage struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type playerJoinMessage struct {
	Type   string       `json:"type"`
	Player world.Player `json:"player"`
}

type npcInfoMessage struct {
	Type string    `json:"type"`
	NPC  world.NPC `json:"npc"`
}

type itemInfoMessage struct {
	Type string     `json:"type"`
	Item world.Item `json:"item"`
}

type playerPositionMessage struct {
	Type     string         `json:"type"`
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Position world.Position `json:"position"`
}

type chatMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type playerUpdateMessage struct {
	Type   string       `json:"type"`
	Player world.Player `json:"player"`
}

type playerLeaveMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type npcDialogMessage struct {
	Type    string `json:"type"`
	NPCID   int    `json:"npcId"`
	NPCName string `json:"npcName"`
	Dialog  string `json:"dialog"`
}
