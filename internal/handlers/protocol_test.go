// internal/handlers/protocol_test.go
package handlers

import (
	"strings"
	"testing"

	"github.com/jason-s-yu/liarsdeck/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Event
	}{
		{"create room", `{"type":"create_room","payload":{"name":"  Ann "}}`, Event{Type: EventCreateRoom, Name: "Ann"}},
		{"join room normalizes code", `{"type":"join_room","payload":{"roomId":" abcde ","name":"Bo"}}`, Event{Type: EventJoinRoom, RoomID: "ABCDE", Name: "Bo"}},
		{"start game without payload", `{"type":"start_game"}`, Event{Type: EventStartGame}},
		{"challenge with null payload", `{"type":"challenge_last_play","payload":null}`, Event{Type: EventChallengeLastPlay}},
		{"submit cards", `{"type":"submit_card","payload":{"cardNames":["QUEEN","JOKER"]}}`, Event{Type: EventSubmitCard, CardNames: []string{"QUEEN", "JOKER"}}},
		{"empty submission reaches the game", `{"type":"submit_card","payload":{"cardNames":[]}}`, Event{Type: EventSubmitCard, CardNames: []string{}}},
		{"chat", `{"type":"chat_message","payload":{"text":" gg "}}`, Event{Type: EventChatMessage, Text: "gg"}},
		{"ping", `{"type":"ping","payload":{}}`, Event{Type: EventPing}},
		{"unknown fields are ignored", `{"type":"create_room","payload":{"name":"Ann","avatar":3}}`, Event{Type: EventCreateRoom, Name: "Ann"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvent([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEventRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":              `hello`,
		"not an object":         `["create_room"]`,
		"missing type":          `{"payload":{"name":"Ann"}}`,
		"unknown type":          `{"type":"shoot","payload":{}}`,
		"payload is a string":   `{"type":"start_game","payload":"now"}`,
		"missing name":          `{"type":"create_room","payload":{}}`,
		"blank name":            `{"type":"create_room","payload":{"name":"   "}}`,
		"numeric name":          `{"type":"create_room","payload":{"name":42}}`,
		"long name":             `{"type":"create_room","payload":{"name":"` + strings.Repeat("é", 21) + `"}}`,
		"missing room":          `{"type":"join_room","payload":{"name":"Ann"}}`,
		"odd room code":         `{"type":"join_room","payload":{"roomId":"AB-DE","name":"Ann"}}`,
		"long room code":        `{"type":"join_room","payload":{"roomId":"ABCDEFGHJKMNP","name":"Ann"}}`,
		"missing cards":         `{"type":"submit_card","payload":{}}`,
		"cards not a list":      `{"type":"submit_card","payload":{"cardNames":"QUEEN"}}`,
		"cards not strings":     `{"type":"submit_card","payload":{"cardNames":[1,2]}}`,
		"empty chat":            `{"type":"chat_message","payload":{"text":""}}`,
		"long chat":             `{"type":"chat_message","payload":{"text":"` + strings.Repeat("a", 201) + `"}}`,
		"type has wrong casing": `{"type":"PING"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEvent([]byte(raw))
			assert.ErrorIs(t, err, game.ErrMalformedEvent)
		})
	}
}

func TestParseEventLimitsCountRunes(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type":"create_room","payload":{"name":"` + strings.Repeat("é", 20) + `"}}`))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 20), ev.Name)
}
