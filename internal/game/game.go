// internal/game/game.go
package game

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// GameState is the single state machine of a room's game.
type GameState string

const (
	StateLobby           GameState = "lobby"
	StateTurnActive      GameState = "turn_active"
	StateLiarPending     GameState = "liar_pending"     // sole card holder must challenge
	StateRoundTransition GameState = "round_transition" // only while dealing, under the room lock
	StateFinished        GameState = "finished"
)

// Status is the coarse wire status: lobby, playing or finished.
func (s GameState) Status() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateFinished:
		return "finished"
	default:
		return "playing"
	}
}

// Phase is the wire phase: lobby, turn or finished.
func (s GameState) Phase() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateFinished:
		return "finished"
	default:
		return "turn"
	}
}

// InProgress is true between start_game and the end of the game.
func (s GameState) InProgress() bool {
	return s == StateTurnActive || s == StateLiarPending || s == StateRoundTransition
}

// Play is the most recent submission of the round.
type Play struct {
	PlayerID  string
	Cards     []string
	PileCount int // pile count right after this play
}

// Game is the per-room game sub-state. All fields are guarded by the room lock.
type Game struct {
	ID    uuid.UUID // regenerated on every start_game
	State GameState

	Round         int
	TableRank     Rank
	TurnOrder     []string
	CurrentTurnID string
	TurnDeadline  time.Time

	PileCount int
	LastPlay  *Play
	Hands     map[string][]string

	Chamber       *Chamber
	EliminatedIDs []string
	WinnerID      string

	actionIndex int
}

func newGame(r *rand.Rand) *Game {
	return &Game{
		State:   StateLobby,
		Hands:   make(map[string][]string),
		Chamber: NewChamber(r),
	}
}

// MustCallLiar is derived from the state; only the sole card holder is ever in this mode.
func (g *Game) MustCallLiar() bool {
	return g.State == StateLiarPending
}

func (g *Game) isEliminated(playerID string) bool {
	for _, id := range g.EliminatedIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// eliminate records the player once. Returns false if they were already out.
func (g *Game) eliminate(playerID string) bool {
	if g.isEliminated(playerID) {
		return false
	}
	g.EliminatedIDs = append(g.EliminatedIDs, playerID)
	return true
}

func (g *Game) inTurnOrder(playerID string) bool {
	for _, id := range g.TurnOrder {
		if id == playerID {
			return true
		}
	}
	return false
}

// removeCards takes each named card out of the hand by first occurrence.
// The hand is left untouched unless every card is present.
func removeCards(hand []string, cards []string) ([]string, bool) {
	rest := make([]string, len(hand))
	copy(rest, hand)
	for _, c := range cards {
		idx := -1
		for i, h := range rest {
			if h == c {
				idx = i
				break
			}
		}
		if idx < 0 {
			return hand, false
		}
		rest = append(rest[:idx], rest[idx+1:]...)
	}
	return rest, true
}
