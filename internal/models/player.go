package models

// Player is a seat in a room. Hands are kept by the game, never on the player.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}
