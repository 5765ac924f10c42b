package world

import (
	"sort"
	"time"
)

const (
	defaultLevel     = 1
	defaultMaxHealth = 100
)

// Position is a point in world space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Player is the record the relay keeps for one joined identity.
type Player struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Class      string    `json:"class"`
	Position   Position  `json:"position"`
	Level      int       `json:"level"`
	Health     int       `json:"health"`
	MaxHealth  int       `json:"maxHealth"`
	LastActive time.Time `json:"-"`
}

// NPC is a static roster entry. The roster is seeded once at startup and
// never mutated while the process runs.
type NPC struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Dialog   string   `json:"-"`
}

// Item is a world item. The roster is empty in the current design; the type
// exists so the snapshot path is complete.
type Item struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
}

// StatPatch carries a partial stat update. A nil field is absent; an
// explicitly present zero applies.
type StatPatch struct {
	Health    *int
	MaxHealth *int
	Level     *int
}

// World owns the player records plus the static NPC and item rosters. It has
// no internal locking: callers serialize access through a single owner (the
// hub mutex).
type World struct {
	players map[string]*Player
	npcs    []NPC
	items   []Item
}

// New builds a store around the given rosters.
func New(npcs []NPC, items []Item) *World {
	return &World{
		players: make(map[string]*Player),
		npcs:    npcs,
		items:   items,
	}
}

// Join inserts the record, overwriting any prior record with the same
// identity. Missing level and health fields get their defaults.
func (w *World) Join(p Player, now time.Time) Player {
	if p.Level <= 0 {
		p.Level = defaultLevel
	}
	if p.MaxHealth <= 0 {
		p.MaxHealth = defaultMaxHealth
	}
	if p.Health <= 0 {
		p.Health = p.MaxHealth
	}
	p.LastActive = now

	stored := p
	w.players[p.ID] = &stored
	return p
}

// UpdatePosition moves the identified player and refreshes its activity
// timestamp. Returns false when the identity is unknown.
func (w *World) UpdatePosition(id string, pos Position, now time.Time) (Player, bool) {
	state, ok := w.players[id]
	if !ok {
		return Player{}, false
	}
	state.Position = pos
	state.LastActive = now
	return *state, true
}

// UpdateStats applies the present fields of the patch and refreshes the
// activity timestamp. Returns the merged record.
func (w *World) UpdateStats(id string, patch StatPatch, now time.Time) (Player, bool) {
	state, ok := w.players[id]
	if !ok {
		return Player{}, false
	}
	if patch.Health != nil {
		state.Health = *patch.Health
	}
	if patch.MaxHealth != nil {
		state.MaxHealth = *patch.MaxHealth
	}
	if patch.Level != nil {
		state.Level = *patch.Level
	}
	state.LastActive = now
	return *state, true
}

// Leave removes the record and reports whether it existed.
func (w *World) Leave(id string) (Player, bool) {
	state, ok := w.players[id]
	if !ok {
		return Player{}, false
	}
	delete(w.players, id)
	return *state, true
}

// Get returns a copy of the identified record.
func (w *World) Get(id string) (Player, bool) {
	state, ok := w.players[id]
	if !ok {
		return Player{}, false
	}
	return *state, true
}

// Players returns a copy of every record, ordered by identity.
func (w *World) Players() []Player {
	players := make([]Player, 0, len(w.players))
	for _, state := range w.players {
		players = append(players, *state)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

// IdleSince returns the records whose last activity is before the cutoff.
func (w *World) IdleSince(cutoff time.Time) []Player {
	var idle []Player
	for _, state := range w.players {
		if state.LastActive.Before(cutoff) {
			idle = append(idle, *state)
		}
	}
	sort.Slice(idle, func(i, j int) bool { return idle[i].ID < idle[j].ID })
	return idle
}

// Count reports the number of live records.
func (w *World) Count() int {
	return len(w.players)
}

// NPCs returns the static NPC roster.
func (w *World) NPCs() []NPC {
	return w.npcs
}

// NPCByID looks up a roster entry.
func (w *World) NPCByID(id int) (NPC, bool) {
	for _, npc := range w.npcs {
		if npc.ID == id {
			return npc, true
		}
	}
	return NPC{}, false
}

// Items returns the item roster.
func (w *World) Items() []Item {
	return w.items
}
