package world

// NPC identities start above the player-facing range so a client can tell a
// roster id from anything it minted itself.
const npcBaseID = 1000

// DefaultNPCs returns the roster seeded at process start.
func DefaultNPCs() []NPC {
	return []NPC{
		{
			ID:       npcBaseID,
			Name:     "Shopkeeper",
			Type:     "merchant",
			Position: Position{X: 10, Y: 0, Z: 12},
			Dialog:   "Welcome! The Shopkeeper always has wares for a weary traveler.",
		},
		{
			ID:       npcBaseID + 1,
			Name:     "Quest Master",
			Type:     "quest_giver",
			Position: Position{X: -8, Y: 0, Z: -8},
			Dialog:   "The Quest Master sizes you up. Come back when you have proven yourself.",
		},
	}
}

// DefaultItems returns the item roster. No spawn logic exists yet, so the
// roster is empty.
func DefaultItems() []Item {
	return nil
}
