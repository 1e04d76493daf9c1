package models

import "encoding/json"

// GameAction is the envelope of every inbound websocket frame.
// Payload is decoded against the schema of Type by the transport.
type GameAction struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
