// internal/game/room.go
package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/liarsdeck/internal/cache"
	"github.com/jason-s-yu/liarsdeck/internal/models"
	log "github.com/sirupsen/logrus"
)

const (
	MinPlayers  = 2
	MaxPlayers  = 4
	ChatLogSize = 80

	DefaultTurnDuration = 30 * time.Second
)

// ActionPublisher ships action records to the historian queue.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, record cache.GameActionRecord) error
}

// RoomOptions carries the process-wide collaborators every room shares.
type RoomOptions struct {
	TurnDuration time.Duration

	// SendFn delivers an event to one player. It is called while the room lock
	// is held and must not block or call back into the room.
	SendFn func(playerID string, ev GameEvent)

	// Publisher is optional; without it actions are not recorded.
	Publisher ActionPublisher

	// ReservePlayerID claims id across rooms and reports false if another room
	// already uses it. Nil means ids only need to be unique within the room.
	ReservePlayerID func(id string) bool

	Now     func() time.Time
	NewRand func() *rand.Rand
}

func (o RoomOptions) withDefaults() RoomOptions {
	if o.TurnDuration <= 0 {
		o.TurnDuration = DefaultTurnDuration
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewRand == nil {
		o.NewRand = newRand
	}
	return o
}

// Room holds the entire state of one room. Every exported method takes Mu for
// the whole transition; lower-case helpers assume it is held.
type Room struct {
	ID      string
	HostID  string
	Players []*models.Player // seating order
	Chat    []models.ChatEntry
	Game    *Game

	TurnDuration time.Duration

	SendFn    func(playerID string, ev GameEvent)
	publisher ActionPublisher
	reserveID func(id string) bool
	now       func() time.Time
	rng       *rand.Rand
	closed    bool

	Mu sync.Mutex
}

// NewRoom builds a lobby with the creator as sole player and host.
func NewRoom(id, hostName string, opts RoomOptions) (*Room, string) {
	opts = opts.withDefaults()
	r := &Room{
		ID:           id,
		TurnDuration: opts.TurnDuration,
		SendFn:       opts.SendFn,
		publisher:    opts.Publisher,
		reserveID:    opts.ReservePlayerID,
		now:          opts.Now,
		rng:          opts.NewRand(),
	}
	r.Game = newGame(r.rng)

	host := &models.Player{ID: newPlayerID(r.rng, r.playerIDTaken), Name: hostName, Connected: true}
	r.Players = append(r.Players, host)
	r.HostID = host.ID
	r.appendChat(models.ChatEntry{Text: fmt.Sprintf("%s created room %s.", hostName, id), System: true, SentAt: r.now().UnixMilli()})
	log.WithFields(log.Fields{"room": id, "player": host.ID}).Info("room created")
	return r, host.ID
}

// RoomID identifies the room to the sweeper.
func (r *Room) RoomID() string {
	return r.ID
}

// Join seats a new connected player in the lobby.
func (r *Room) Join(name string) (string, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.closed {
		return "", ErrRoomNotFound
	}
	if r.Game.State != StateLobby {
		return "", ErrGameInProgress
	}
	if len(r.Players) >= MaxPlayers {
		return "", ErrRoomFull
	}
	p := &models.Player{ID: newPlayerID(r.rng, r.playerIDTaken), Name: name, Connected: true}
	r.Players = append(r.Players, p)
	log.WithFields(log.Fields{"room": r.ID, "player": p.ID}).Info("player joined")

	r.appendSystem(fmt.Sprintf("%s joined.", name))
	r.broadcastRoomState()
	return p.ID, nil
}

// SyncPlayer sends a freshly bound player the room snapshot and, mid-game, their hand.
func (r *Room) SyncPlayer(playerID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.closed || r.player(playerID) == nil {
		return
	}
	r.sendTo(playerID, GameEvent{Type: EventRoomState, Payload: RoomStatePayload{Room: r.snapshotUnsafe()}})
	if _, ok := r.Game.Hands[playerID]; ok && r.Game.State.InProgress() {
		r.sendHand(playerID)
	}
}

// SendChat appends a player's chat line and rebroadcasts the room.
func (r *Room) SendChat(playerID, text string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	p := r.player(playerID)
	if p == nil || !p.Connected {
		return ErrNotInRoom
	}
	r.appendChat(models.ChatEntry{
		PlayerID: p.ID,
		Name:     p.Name,
		Text:     text,
		SentAt:   r.now().UnixMilli(),
	})
	r.broadcastRoomState()
	return nil
}

// HandleDisconnect marks a player disconnected and applies the game consequences.
// It returns true when no connected player is left and the room must be destroyed.
func (r *Room) HandleDisconnect(playerID string) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.player(playerID)
	if p == nil || !p.Connected || r.closed {
		return false
	}
	p.Connected = false
	r.logAction(playerID, "player_disconnect", nil)
	log.WithFields(log.Fields{"room": r.ID, "player": playerID}).Info("player disconnected")

	if r.connectedCount() == 0 {
		r.closed = true
		r.Game.TurnDeadline = time.Time{}
		return true
	}
	r.appendSystem(fmt.Sprintf("%s disconnected.", p.Name))

	if r.HostID == playerID {
		for _, pl := range r.Players {
			if pl.Connected {
				r.HostID = pl.ID
				r.appendSystem(fmt.Sprintf("%s is now the host.", pl.Name))
				break
			}
		}
	}

	g := r.Game
	if g.State.InProgress() && g.inTurnOrder(playerID) {
		if g.eliminate(playerID) {
			r.logAction(playerID, "player_eliminated", map[string]interface{}{"cause": "disconnect"})
			r.appendSystem(fmt.Sprintf("%s was eliminated.", p.Name))
		}
		if !r.checkWin() {
			holders := r.holders()
			switch {
			case g.CurrentTurnID == playerID:
				r.settleTurn(playerID)
			case len(holders) == 0:
				r.settleTurn(g.CurrentTurnID)
			case len(holders) == 1 && !(g.State == StateLiarPending && holders[0] == g.CurrentTurnID):
				r.settleTurn(g.CurrentTurnID)
			}
		}
	}

	r.broadcastRoomState()
	return false
}

func (r *Room) player(id string) *models.Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) hasPlayer(id string) bool {
	return r.player(id) != nil
}

// playerIDTaken reserves id with the store as a side effect when it is free.
func (r *Room) playerIDTaken(id string) bool {
	if r.hasPlayer(id) {
		return true
	}
	return r.reserveID != nil && !r.reserveID(id)
}

func (r *Room) playerName(id string) string {
	if p := r.player(id); p != nil {
		return p.Name
	}
	return id
}

func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// isEligible: connected and not eliminated.
func (r *Room) isEligible(id string) bool {
	p := r.player(id)
	return p != nil && p.Connected && !r.Game.isEliminated(id)
}

// isHolder: eligible and still holding at least one card.
func (r *Room) isHolder(id string) bool {
	return r.isEligible(id) && len(r.Game.Hands[id]) > 0
}

func (r *Room) eligiblePlayers() []string {
	var ids []string
	for _, id := range r.Game.TurnOrder {
		if r.isEligible(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *Room) holders() []string {
	var ids []string
	for _, id := range r.Game.TurnOrder {
		if r.isHolder(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// setTurn hands the turn to id with a fresh deadline.
func (r *Room) setTurn(id string) {
	r.Game.CurrentTurnID = id
	r.Game.TurnDeadline = r.now().Add(r.TurnDuration)
}

// appendChat keeps the newest entry first and drops the oldest beyond ChatLogSize.
func (r *Room) appendChat(entry models.ChatEntry) {
	r.Chat = append([]models.ChatEntry{entry}, r.Chat...)
	if len(r.Chat) > ChatLogSize {
		r.Chat = r.Chat[:ChatLogSize]
	}
}

func (r *Room) appendSystem(text string) {
	r.appendChat(models.ChatEntry{Text: text, System: true, SentAt: r.now().UnixMilli()})
	r.fireEvent(GameEvent{Type: EventSystemMessage, Payload: SystemMessagePayload{Text: text}})
}

// fireEvent sends an event to every connected player.
func (r *Room) fireEvent(ev GameEvent) {
	for _, p := range r.Players {
		if p.Connected {
			r.sendTo(p.ID, ev)
		}
	}
}

func (r *Room) sendTo(playerID string, ev GameEvent) {
	if r.SendFn == nil {
		return
	}
	r.SendFn(playerID, ev)
}

func (r *Room) broadcastRoomState() {
	r.fireEvent(GameEvent{Type: EventRoomState, Payload: RoomStatePayload{Room: r.snapshotUnsafe()}})
}

func (r *Room) sendHand(playerID string) {
	p := r.player(playerID)
	if p == nil || !p.Connected {
		return
	}
	r.sendTo(playerID, GameEvent{Type: EventHandState, Payload: HandStatePayload{Cards: r.handUnsafe(playerID)}})
}

// logAction publishes an action record asynchronously. Payloads must only carry public information.
// Nothing is recorded before the first StartGame assigns a game id.
func (r *Room) logAction(actorID, actionType string, payload map[string]interface{}) {
	if r.Game.ID == uuid.Nil {
		return
	}
	r.Game.actionIndex++
	if r.publisher == nil {
		return
	}
	record := cache.GameActionRecord{
		GameID:        r.Game.ID,
		RoomID:        r.ID,
		ActionIndex:   r.Game.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     r.now().UnixMilli(),
	}
	go func(pub ActionPublisher, rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := pub.PublishGameAction(ctx, rec); err != nil {
			log.WithFields(log.Fields{"room": rec.RoomID, "action": rec.ActionType}).Warnf("failed to publish action: %v", err)
		}
	}(r.publisher, record)
}
