package models

// ChatEntry is a single line of the room chat log.
// System entries have an empty PlayerID.
type ChatEntry struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
	Text     string `json:"text"`
	System   bool   `json:"system"`
	SentAt   int64  `json:"sentAt"` // epoch millis
}
