package game

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// CallLiar challenges the last play of the round.
func (r *Room) CallLiar(callerID string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	g := r.Game
	if g.State != StateTurnActive && g.State != StateLiarPending {
		return ErrNotTurnPhase
	}
	if callerID != g.CurrentTurnID {
		return ErrNotYourTurn
	}
	if g.LastPlay == nil {
		return ErrNoPreviousPlay
	}
	if g.LastPlay.PlayerID == callerID {
		return ErrSelfChallenge
	}

	r.resolveLiar(callerID, ReasonManual)
	r.broadcastRoomState()
	return nil
}

// resolveLiar reveals the last play. A truthful play penalizes the caller,
// a lie penalizes its owner; the penalized player then faces the chamber.
func (r *Room) resolveLiar(callerID string, reason ResolutionReason) {
	g := r.Game
	play := g.LastPlay
	truthful := IsTruthful(g.TableRank, play.Cards)
	penalizedID := play.PlayerID
	if truthful {
		penalizedID = callerID
	}
	fatal, eliminatedID := r.pullTrigger(penalizedID)

	revealed := make([]string, len(play.Cards))
	copy(revealed, play.Cards)
	r.fireEvent(GameEvent{Type: EventChallengeResult, Payload: ChallengeResultPayload{
		CallerID:      callerID,
		AccusedID:     play.PlayerID,
		TableRank:     g.TableRank,
		RevealedCards: revealed,
		Truthful:      truthful,
		PenalizedID:   penalizedID,
		Fatal:         fatal,
		EliminatedID:  eliminatedID,
		Reason:        reason,
	}})
	r.logAction(callerID, "call_liar", map[string]interface{}{
		"accusedId":     play.PlayerID,
		"revealedCards": revealed,
		"truthful":      truthful,
		"penalizedId":   penalizedID,
		"fatal":         fatal,
		"reason":        reason,
	})
	log.WithFields(log.Fields{
		"room":      r.ID,
		"caller":    callerID,
		"accused":   play.PlayerID,
		"truthful":  truthful,
		"penalized": penalizedID,
		"fatal":     fatal,
	}).Info("liar resolved")

	if r.checkWin() {
		return
	}
	r.startRound(r.resolveStarter(penalizedID))
}

// pullTrigger draws one chamber slot against playerID. A live slot eliminates
// them unless they are already out; fatal reports the slot either way.
func (r *Room) pullTrigger(playerID string) (fatal bool, eliminatedID string) {
	g := r.Game
	if g.Chamber.Draw(r.rng) != SlotLive {
		return false, ""
	}
	if !g.eliminate(playerID) {
		return true, ""
	}
	r.logAction(playerID, "player_eliminated", map[string]interface{}{"cause": "chamber"})
	r.appendSystem(fmt.Sprintf("%s was eliminated.", r.playerName(playerID)))
	return true, playerID
}

// checkWin finishes the game once at most one eligible player remains.
func (r *Room) checkWin() bool {
	eligible := r.eligiblePlayers()
	if len(eligible) > 1 {
		return false
	}
	winner := ""
	if len(eligible) == 1 {
		winner = eligible[0]
	}
	r.finish(winner)
	return true
}

func (r *Room) finish(winnerID string) {
	g := r.Game
	g.State = StateFinished
	g.WinnerID = winnerID
	g.CurrentTurnID = ""
	g.TurnDeadline = time.Time{}

	r.logAction(winnerID, "game_end", map[string]interface{}{"winnerId": winnerID, "rounds": g.Round})
	log.WithFields(log.Fields{"room": r.ID, "game": g.ID, "winner": winnerID}).Info("game finished")
	if winnerID != "" {
		r.appendSystem(fmt.Sprintf("%s wins!", r.playerName(winnerID)))
	} else {
		r.appendSystem("Game over.")
	}
}

// CheckTimeout forces an outcome when the turn deadline is strictly before now.
// It reports whether anything happened.
func (r *Room) CheckTimeout(now time.Time) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	g := r.Game
	if r.closed || (g.State != StateTurnActive && g.State != StateLiarPending) {
		return false
	}
	if g.TurnDeadline.IsZero() || !now.After(g.TurnDeadline) {
		return false
	}
	holderID := g.CurrentTurnID
	log.WithFields(log.Fields{"room": r.ID, "player": holderID, "state": g.State}).Info("turn timed out")

	if g.State == StateLiarPending && g.LastPlay != nil {
		r.resolveLiar(holderID, ReasonTimeoutAutoLiar)
		r.broadcastRoomState()
		return true
	}

	fatal, eliminatedID := r.pullTrigger(holderID)
	r.fireEvent(GameEvent{Type: EventPenaltyResult, Payload: PenaltyResultPayload{
		PlayerID:     holderID,
		Fatal:        fatal,
		EliminatedID: eliminatedID,
		Reason:       ReasonTimeout,
	}})
	r.logAction(holderID, "timeout_penalty", map[string]interface{}{"fatal": fatal})
	if !r.checkWin() {
		r.settleTurn(holderID)
	}
	r.broadcastRoomState()
	return true
}
