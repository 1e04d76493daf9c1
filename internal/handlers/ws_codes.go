// internal/handlers/ws_codes.go
package handlers

// Subprotocol is the websocket subprotocol clients must request.
const Subprotocol = "liarsdeck"

// Custom WebSocket close codes.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
)
