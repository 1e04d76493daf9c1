// internal/game/sync_state_test.go
package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeView(t *testing.T, view RoomView) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(view)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSnapshotHidesCards(t *testing.T) {
	room, ids, mb, _ := setupGame(t, 3)
	rigRound(room, RankKing, map[string][]string{
		ids[0]: {"ACE", "QUEEN", "KING"},
		ids[1]: {"KING", "KING"},
		ids[2]: {"JOKER"},
	}, ids[0])
	require.NoError(t, room.SubmitCard(ids[0], []string{"ACE", "QUEEN"}))

	view := room.Snapshot()
	raw := decodeView(t, view)
	game := raw["game"].(map[string]interface{})

	lastPlay := game["lastPlay"].(map[string]interface{})
	assert.Len(t, lastPlay, 3)
	assert.Equal(t, float64(2), lastPlay["cardCount"])
	assert.Equal(t, float64(2), lastPlay["pileCount"])
	assert.Equal(t, ids[0], lastPlay["playerId"])

	for _, p := range raw["players"].([]interface{}) {
		player := p.(map[string]interface{})
		assert.NotContains(t, player, "cards")
		assert.NotContains(t, player, "hand")
		assert.Contains(t, player, "handSize")
	}
	assert.NotContains(t, game, "hands")

	sizes := make(map[string]int)
	for _, p := range view.Players {
		sizes[p.ID] = p.HandSize
	}
	assert.Equal(t, map[string]int{ids[0]: 1, ids[1]: 2, ids[2]: 1}, sizes)

	// hand_state goes only to the owner
	for _, id := range ids[1:] {
		assert.Empty(t, mb.eventsOfType(id, EventHandState))
	}
	last := mb.lastOfType(ids[0], EventHandState)
	require.NotNil(t, last)
	assert.Equal(t, []string{"KING"}, last.Payload.(HandStatePayload).Cards)
}

func TestSnapshotFlags(t *testing.T) {
	room, ids, _, clock := setupRoom(t, 2)

	view := room.Snapshot()
	assert.Equal(t, "lobby", view.Game.Status)
	assert.Equal(t, "lobby", view.Game.Phase)
	assert.Empty(t, view.Game.GameID)
	assert.Empty(t, view.Game.CurrentTurnID)
	assert.Zero(t, view.Game.TurnDeadlineMs)
	assert.NotEmpty(t, view.Chat)

	require.NoError(t, room.StartGame(ids[0]))
	view = room.Snapshot()
	assert.NotEmpty(t, view.Game.GameID)
	assert.Equal(t, clock.now().Add(room.TurnDuration).UnixMilli(), view.Game.TurnDeadlineMs)

	var hosts, current int
	for _, p := range view.Players {
		if p.IsHost {
			hosts++
			assert.Equal(t, ids[0], p.ID)
		}
		if p.IsCurrentTurn {
			current++
			assert.Equal(t, view.Game.CurrentTurnID, p.ID)
		}
	}
	assert.Equal(t, 1, hosts)
	assert.Equal(t, 1, current)

	// the snapshot is a copy
	view.Game.TurnOrder[0] = "mutated"
	view.Chat[0].Text = "mutated"
	assert.Equal(t, ids[0], room.Game.TurnOrder[0])
	assert.NotEqual(t, "mutated", room.Chat[0].Text)
}

func TestEncodeEvent(t *testing.T) {
	data := EncodeEvent(ErrorEvent(ErrNotYourTurn))
	assert.JSONEq(t, `{"type":"error","payload":{"code":"not_your_turn","message":"it is not your turn"}}`, string(data))

	assert.JSONEq(t, `{"type":"pong"}`, string(EncodeEvent(GameEvent{Type: EventPong})))
	assert.Equal(t, "{}", string(EncodeEvent(GameEvent{Type: EventError, Payload: make(chan int)})))
}
