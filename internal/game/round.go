package game

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// StartGame snapshots the connected players as the turn order and deals round 1.
func (r *Room) StartGame(callerID string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if callerID != r.HostID {
		return ErrHostOnly
	}
	g := r.Game
	if g.State.InProgress() {
		return ErrGameInProgress
	}
	var order []string
	for _, p := range r.Players {
		if p.Connected {
			order = append(order, p.ID)
		}
	}
	if len(order) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	g.ID = uuid.New()
	g.TurnOrder = order
	g.EliminatedIDs = nil
	g.WinnerID = ""
	g.Round = 0
	g.Chamber = NewChamber(r.rng)
	g.actionIndex = 0

	log.WithFields(log.Fields{"room": r.ID, "game": g.ID, "players": len(order)}).Info("game started")
	r.logAction(callerID, "game_start", map[string]interface{}{"turnOrder": order})
	r.appendSystem(fmt.Sprintf("Game started with %d players.", len(order)))

	r.startRound(r.resolveStarter(""))
	r.broadcastRoomState()
	return nil
}

// startRound re-rolls the table rank and deals a fresh deck to every player still alive.
func (r *Room) startRound(starterID string) {
	g := r.Game
	g.State = StateRoundTransition
	g.Round++
	g.TableRank = RandomTableRank(r.rng)
	g.LastPlay = nil
	g.PileCount = 0

	deck := NewDeck(r.rng)
	g.Hands = make(map[string][]string)
	for _, id := range g.TurnOrder {
		if g.isEliminated(id) {
			continue
		}
		if len(deck) < HandSize {
			break
		}
		hand := make([]string, HandSize)
		copy(hand, deck[:HandSize])
		deck = deck[HandSize:]
		g.Hands[id] = hand
	}

	g.State = StateTurnActive
	r.setTurn(starterID)

	r.logAction("", "round_start", map[string]interface{}{
		"round":     g.Round,
		"tableRank": g.TableRank,
		"starterId": starterID,
	})
	r.appendSystem(fmt.Sprintf("Round %d: the table rank is %s. %s starts.", g.Round, g.TableRank, r.playerName(starterID)))
	for _, id := range g.TurnOrder {
		if _, ok := g.Hands[id]; ok {
			r.sendHand(id)
		}
	}
}

// resolveStarter keeps the preferred player if still eligible, otherwise the next
// eligible seat after them. Without a preference the first eligible seat starts.
func (r *Room) resolveStarter(preferredID string) string {
	if preferredID != "" && r.isEligible(preferredID) {
		return preferredID
	}
	if preferredID == "" {
		for _, id := range r.Game.TurnOrder {
			if r.isEligible(id) {
				return id
			}
		}
		return ""
	}
	id, _ := NextEligible(r.Game.TurnOrder, preferredID, r.isEligible)
	return id
}

// SubmitCard plays 1 to 3 cards face down, claiming they match the table rank.
func (r *Room) SubmitCard(playerID string, cardNames []string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	g := r.Game
	if g.State != StateTurnActive && g.State != StateLiarPending {
		return ErrNotTurnPhase
	}
	if playerID != g.CurrentTurnID {
		return ErrNotYourTurn
	}
	if g.MustCallLiar() {
		return ErrMustCallLiar
	}
	if len(cardNames) < MinPlaySize || len(cardNames) > MaxPlaySize {
		return ErrInvalidPlaySize
	}
	rest, ok := removeCards(g.Hands[playerID], cardNames)
	if !ok {
		return ErrCardNotInHand
	}

	g.Hands[playerID] = rest
	g.PileCount += len(cardNames)
	played := make([]string, len(cardNames))
	copy(played, cardNames)
	g.LastPlay = &Play{PlayerID: playerID, Cards: played, PileCount: g.PileCount}

	r.logAction(playerID, "submit_card", map[string]interface{}{
		"count":     len(played),
		"pileCount": g.PileCount,
	})
	r.sendHand(playerID)
	r.settleTurn(playerID)
	r.broadcastRoomState()
	return nil
}

// settleTurn moves the turn on after fromID acted or dropped out:
// a sole card holder must call liar, no holders means a new round, otherwise
// the next holder plays.
func (r *Room) settleTurn(fromID string) {
	g := r.Game
	holders := r.holders()
	switch len(holders) {
	case 1:
		g.State = StateLiarPending
		r.setTurn(holders[0])
	case 0:
		next, ok := NextEligible(g.TurnOrder, fromID, r.isEligible)
		if !ok {
			r.finish("")
			return
		}
		r.startRound(next)
	default:
		g.State = StateTurnActive
		next, _ := NextEligible(g.TurnOrder, fromID, r.isHolder)
		r.setTurn(next)
	}
}
