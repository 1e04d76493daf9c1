// internal/handlers/protocol.go
package handlers

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/jason-s-yu/liarsdeck/internal/game"
	"github.com/jason-s-yu/liarsdeck/internal/models"
)

// Inbound event types. Anything else is a malformed event.
const (
	EventCreateRoom        = "create_room"
	EventJoinRoom          = "join_room"
	EventStartGame         = "start_game"
	EventSubmitCard        = "submit_card"
	EventChallengeLastPlay = "challenge_last_play"
	EventChatMessage       = "chat_message"
	EventPing              = "ping"
)

const (
	maxNameRunes   = 20
	maxChatRunes   = 200
	maxRoomIDRunes = 12
)

// Event is a validated inbound message. Only the fields of its Type are set.
type Event struct {
	Type      string
	Name      string
	RoomID    string
	CardNames []string
	Text      string
}

type createRoomPayload struct {
	Name string `json:"name"`
}

type joinRoomPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type submitCardPayload struct {
	CardNames []string `json:"cardNames"`
}

type chatMessagePayload struct {
	Text string `json:"text"`
}

// ParseEvent decodes and validates one frame against the closed event vocabulary.
// Every failure is a MalformedEvent GameError.
func ParseEvent(data []byte) (Event, error) {
	var msg models.GameAction
	if err := json.Unmarshal(data, &msg); err != nil {
		return Event{}, game.Malformed("invalid JSON")
	}
	ev := Event{Type: msg.Type}

	switch msg.Type {
	case EventCreateRoom:
		var p createRoomPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return Event{}, err
		}
		name, err := cleanName(p.Name)
		if err != nil {
			return Event{}, err
		}
		ev.Name = name

	case EventJoinRoom:
		var p joinRoomPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return Event{}, err
		}
		roomID, err := cleanRoomID(p.RoomID)
		if err != nil {
			return Event{}, err
		}
		name, err := cleanName(p.Name)
		if err != nil {
			return Event{}, err
		}
		ev.RoomID, ev.Name = roomID, name

	case EventSubmitCard:
		var p submitCardPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return Event{}, err
		}
		if p.CardNames == nil {
			return Event{}, game.Malformed("cardNames is required")
		}
		ev.CardNames = p.CardNames

	case EventChatMessage:
		var p chatMessagePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return Event{}, err
		}
		text := strings.TrimSpace(p.Text)
		if text == "" {
			return Event{}, game.Malformed("text is required")
		}
		if utf8.RuneCountInString(text) > maxChatRunes {
			return Event{}, game.Malformed("text is longer than %d characters", maxChatRunes)
		}
		ev.Text = text

	case EventStartGame, EventChallengeLastPlay, EventPing:
		var p struct{}
		if err := decodePayload(msg.Payload, &p); err != nil {
			return Event{}, err
		}

	case "":
		return Event{}, game.Malformed("event type is required")
	default:
		return Event{}, game.Malformed("unknown event type %q", msg.Type)
	}
	return ev, nil
}

// decodePayload accepts a missing or null payload as an empty object.
func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return game.Malformed("invalid payload")
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", game.Malformed("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		return "", game.Malformed("name is longer than %d characters", maxNameRunes)
	}
	return name, nil
}

func cleanRoomID(id string) (string, error) {
	id = game.NormalizeRoomCode(id)
	if id == "" {
		return "", game.Malformed("roomId is required")
	}
	if len(id) > maxRoomIDRunes {
		return "", game.Malformed("roomId is too long")
	}
	for _, c := range id {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", game.Malformed("roomId must be alphanumeric")
		}
	}
	return id, nil
}
