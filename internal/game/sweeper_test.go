// internal/game/sweeper_test.go
package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingRoom struct{}

func (panickingRoom) RoomID() string { return "BOOM1" }

func (panickingRoom) CheckTimeout(time.Time) bool { panic("corrupted room") }

type countingRoom struct {
	id    string
	fire  bool
	calls int
}

func (c *countingRoom) RoomID() string { return c.id }

func (c *countingRoom) CheckTimeout(time.Time) bool {
	c.calls++
	return c.fire
}

func TestSweepIsolatesFailingRooms(t *testing.T) {
	s := NewSweeper(nil, time.Second)
	first := &countingRoom{id: "AAAAA", fire: true}
	last := &countingRoom{id: "CCCCC", fire: true}
	idle := &countingRoom{id: "DDDDD"}

	var resolved int
	require.NotPanics(t, func() {
		resolved = s.sweep([]timeoutChecker{first, panickingRoom{}, last, idle}, time.Now())
	})
	assert.Equal(t, 2, resolved)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, last.calls, "rooms after a panicking one are still swept")
	assert.Equal(t, 1, idle.calls)
}

func TestSweepOnceResolvesExpiredRooms(t *testing.T) {
	store, _, clock := newTestStore()
	room, hostID := store.CreateRoom("host")
	_, _, err := store.JoinRoom(room.ID, "guest")
	require.NoError(t, err)
	store.CreateRoom("lonely")
	require.NoError(t, room.StartGame(hostID))
	loadChamber(room, SlotSafe)

	s := NewSweeper(store, 0)
	assert.Equal(t, DefaultSweepInterval, s.interval)

	assert.Zero(t, s.SweepOnce(clock.now()))
	clock.advance(31 * time.Second)
	assert.Equal(t, 1, s.SweepOnce(clock.now()))
	assert.NotEqual(t, hostID, room.Snapshot().Game.CurrentTurnID)
}
