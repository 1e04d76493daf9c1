// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/liarsdeck/internal/models"
)

// PlayerView is the public state of one seat. Hands are reduced to a size.
type PlayerView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Connected     bool   `json:"connected"`
	IsHost        bool   `json:"isHost"`
	IsCurrentTurn bool   `json:"isCurrentTurn"`
	Eliminated    bool   `json:"eliminated"`
	HandSize      int    `json:"handSize"`
}

// LastPlayView exposes who played and how many cards, never which cards.
type LastPlayView struct {
	PlayerID  string `json:"playerId"`
	CardCount int    `json:"cardCount"`
	PileCount int    `json:"pileCount"`
}

// GameView is the broadcast-safe game sub-state.
type GameView struct {
	GameID         string        `json:"gameId,omitempty"`
	State          GameState     `json:"state"`
	Status         string        `json:"status"`
	Phase          string        `json:"phase"`
	Round          int           `json:"round"`
	TableRank      Rank          `json:"tableRank,omitempty"`
	TurnOrder      []string      `json:"turnOrder"`
	CurrentTurnID  string        `json:"currentTurnId,omitempty"`
	TurnDeadlineMs int64         `json:"turnDeadlineMs,omitempty"`
	MustCallLiar   bool          `json:"mustCallLiar"`
	PileCount      int           `json:"pileCount"`
	LastPlay       *LastPlayView `json:"lastPlay,omitempty"`
	EliminatedIDs  []string      `json:"eliminatedIds"`
	WinnerID       string        `json:"winnerId,omitempty"`
}

// RoomView is the snapshot broadcast to every player in a room_state event.
type RoomView struct {
	RoomID  string             `json:"roomId"`
	HostID  string             `json:"hostId"`
	Players []PlayerView       `json:"players"`
	Chat    []models.ChatEntry `json:"chat"`
	Game    GameView           `json:"game"`
}

// Snapshot returns the broadcast-safe view of the room.
func (r *Room) Snapshot() RoomView {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.snapshotUnsafe()
}

// Hand returns a copy of one player's private hand.
func (r *Room) Hand(playerID string) []string {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.handUnsafe(playerID)
}

func (r *Room) handUnsafe(playerID string) []string {
	hand := r.Game.Hands[playerID]
	out := make([]string, len(hand))
	copy(out, hand)
	return out
}

// snapshotUnsafe assumes the lock is held. Slices are copied so the view
// stays stable after the lock is released.
func (r *Room) snapshotUnsafe() RoomView {
	g := r.Game
	view := RoomView{
		RoomID:  r.ID,
		HostID:  r.HostID,
		Players: make([]PlayerView, 0, len(r.Players)),
		Chat:    make([]models.ChatEntry, len(r.Chat)),
	}
	copy(view.Chat, r.Chat)

	for _, p := range r.Players {
		view.Players = append(view.Players, PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			Connected:     p.Connected,
			IsHost:        p.ID == r.HostID,
			IsCurrentTurn: g.State.InProgress() && p.ID == g.CurrentTurnID,
			Eliminated:    g.isEliminated(p.ID),
			HandSize:      len(g.Hands[p.ID]),
		})
	}

	gv := GameView{
		State:         g.State,
		Status:        g.State.Status(),
		Phase:         g.State.Phase(),
		Round:         g.Round,
		TableRank:     g.TableRank,
		TurnOrder:     append([]string{}, g.TurnOrder...),
		MustCallLiar:  g.MustCallLiar(),
		PileCount:     g.PileCount,
		EliminatedIDs: append([]string{}, g.EliminatedIDs...),
		WinnerID:      g.WinnerID,
	}
	if g.ID != uuid.Nil {
		gv.GameID = g.ID.String()
	}
	if g.State.InProgress() {
		gv.CurrentTurnID = g.CurrentTurnID
		if !g.TurnDeadline.IsZero() {
			gv.TurnDeadlineMs = g.TurnDeadline.UnixMilli()
		}
	}
	if g.LastPlay != nil {
		gv.LastPlay = &LastPlayView{
			PlayerID:  g.LastPlay.PlayerID,
			CardCount: len(g.LastPlay.Cards),
			PileCount: g.LastPlay.PileCount,
		}
	}
	view.Game = gv
	return view
}
