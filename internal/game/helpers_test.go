// internal/game/helpers_test.go
package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/jason-s-yu/liarsdeck/internal/cache"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster collects events instead of sending them over WS.
type mockBroadcaster struct {
	mu           sync.Mutex
	playerEvents map[string][]GameEvent
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{playerEvents: make(map[string][]GameEvent)}
}

func (mb *mockBroadcaster) sendFn(playerID string, ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents = make(map[string][]GameEvent)
}

func (mb *mockBroadcaster) eventsOfType(playerID string, typ GameEventType) []GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var out []GameEvent
	for _, ev := range mb.playerEvents[playerID] {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func (mb *mockBroadcaster) lastOfType(playerID string, typ GameEventType) *GameEvent {
	events := mb.eventsOfType(playerID, typ)
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

// recordingPublisher keeps every action record handed to it.
type recordingPublisher struct {
	mu      sync.Mutex
	records []cache.GameActionRecord
}

func (p *recordingPublisher) PublishGameAction(_ context.Context, rec cache.GameActionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
	return nil
}

func (p *recordingPublisher) snapshot() []cache.GameActionRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]cache.GameActionRecord{}, p.records...)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testOptions(mb *mockBroadcaster, clock *fakeClock, seed uint64) RoomOptions {
	return RoomOptions{
		TurnDuration: 30 * time.Second,
		SendFn:       mb.sendFn,
		Now:          clock.now,
		NewRand:      func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) },
	}
}

// setupRoom builds a lobby with numPlayers connected players; ids[0] is the host.
func setupRoom(t *testing.T, numPlayers int) (*Room, []string, *mockBroadcaster, *fakeClock) {
	t.Helper()
	mb := newMockBroadcaster()
	clock := newFakeClock()
	room, hostID := NewRoom("ABCDE", "p0", testOptions(mb, clock, 1))
	ids := []string{hostID}
	for i := 1; i < numPlayers; i++ {
		id, err := room.Join(fmt.Sprintf("p%d", i))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	mb.clear()
	return room, ids, mb, clock
}

// setupGame is setupRoom plus a started game.
func setupGame(t *testing.T, numPlayers int) (*Room, []string, *mockBroadcaster, *fakeClock) {
	t.Helper()
	room, ids, mb, clock := setupRoom(t, numPlayers)
	require.NoError(t, room.StartGame(ids[0]))
	mb.clear()
	return room, ids, mb, clock
}

// rigRound replaces the dealt round with known hands and gives the turn to current.
func rigRound(room *Room, table Rank, hands map[string][]string, current string) {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	g := room.Game
	g.TableRank = table
	g.Hands = hands
	g.LastPlay = nil
	g.PileCount = 0
	g.State = StateTurnActive
	room.setTurn(current)
}

// loadChamber fixes the next draws; once they run out the chamber reloads randomly.
func loadChamber(room *Room, slots ...Slot) {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	room.Game.Chamber.slots = append([]Slot{}, slots...)
}

// checkInvariants asserts the structural rules that must hold after every transition.
func checkInvariants(t *testing.T, room *Room) {
	t.Helper()
	room.Mu.Lock()
	defer room.Mu.Unlock()
	g := room.Game

	seen := make(map[string]bool)
	for _, id := range g.EliminatedIDs {
		require.False(t, seen[id], "player %s eliminated twice", id)
		seen[id] = true
	}

	eligible := room.eligiblePlayers()
	if g.State == StateFinished {
		require.LessOrEqual(t, len(eligible), 1)
		if len(eligible) == 1 {
			require.Equal(t, eligible[0], g.WinnerID)
		}
		return
	}
	if !g.State.InProgress() {
		return
	}
	require.Greater(t, len(eligible), 1, "game in progress with a single survivor")
	require.NotEqual(t, StateRoundTransition, g.State)

	holders := room.holders()
	require.Equal(t, len(holders) == 1, g.MustCallLiar(), "mustCallLiar must track a sole holder")
	require.True(t, room.isHolder(g.CurrentTurnID), "current turn %s is not an eligible card holder", g.CurrentTurnID)
	for id, hand := range g.Hands {
		require.LessOrEqual(t, len(hand), HandSize, "hand of %s", id)
	}
}
