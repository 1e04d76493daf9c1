// internal/handlers/ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/liarsdeck/internal/game"
	"github.com/jason-s-yu/liarsdeck/internal/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const writeTimeout = 5 * time.Second

// WSHandler upgrades /ws connections and runs one session per connection.
type WSHandler struct {
	store  *game.RoomStore
	hub    *Hub
	logger *logrus.Logger

	perSecond rate.Limit
	burst     int
}

// NewWSHandler builds the websocket handler. A non-positive perSecond disables rate limiting.
func NewWSHandler(store *game.RoomStore, hub *Hub, logger *logrus.Logger, perSecond float64, burst int) *WSHandler {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &WSHandler{store: store, hub: hub, logger: logger, perSecond: limit, burst: burst}
}

// session is the per-connection binding. A connection binds to at most one room seat.
type session struct {
	client   *Client
	limiter  *rate.Limiter
	roomID   string
	playerID string
}

func (s *session) bound() bool {
	return s.playerID != ""
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{Subprotocol},
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "internal server error")

	if c.Subprotocol() != Subprotocol {
		c.Close(BadSubprotocolError, "client must speak the liarsdeck subprotocol")
		return
	}
	middleware.LogWebSocketConnect(h.logger, r.RemoteAddr, r.URL.Path)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := &session{
		client:  newClient(outBufferSize),
		limiter: rate.NewLimiter(h.perSecond, h.burst),
	}
	go h.writePump(ctx, cancel, c, sess.client)

	readErr := h.readLoop(ctx, c, sess)

	if sess.bound() {
		h.hub.Unregister(sess.playerID, sess.client)
		h.store.Disconnect(sess.roomID, sess.playerID)
	}
	sess.client.close()
	middleware.LogWebSocketDisconnect(h.logger, r.RemoteAddr, r.URL.Path, sess.roomID, sess.playerID, readErr)
	c.Close(websocket.StatusNormalClosure, "")
}

// readLoop handles inbound frames until the peer goes away. Errors from a
// single frame are reported to the sender and never end the session.
func (h *WSHandler) readLoop(ctx context.Context, c *websocket.Conn, sess *session) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			h.reportError(sess, game.Malformed("binary frames are not supported"))
			continue
		}
		if !sess.limiter.Allow() {
			h.reportError(sess, game.ErrRateLimited)
			continue
		}

		ev, err := ParseEvent(data)
		if err != nil {
			h.reportError(sess, err)
			continue
		}
		if err := h.dispatch(sess, ev); err != nil {
			h.reportError(sess, err)
		}
	}
}

func (h *WSHandler) dispatch(sess *session, ev Event) error {
	switch ev.Type {
	case EventPing:
		sess.client.Send(game.GameEvent{Type: game.EventPong})
		return nil

	case EventCreateRoom:
		if sess.bound() {
			return game.ErrAlreadyInRoom
		}
		room, playerID := h.store.CreateRoom(ev.Name)
		h.bind(sess, room, playerID)
		return nil

	case EventJoinRoom:
		if sess.bound() {
			return game.ErrAlreadyInRoom
		}
		room, playerID, err := h.store.JoinRoom(ev.RoomID, ev.Name)
		if err != nil {
			return err
		}
		h.bind(sess, room, playerID)
		return nil
	}

	room, err := h.room(sess)
	if err != nil {
		return err
	}
	switch ev.Type {
	case EventStartGame:
		return room.StartGame(sess.playerID)
	case EventSubmitCard:
		return room.SubmitCard(sess.playerID, ev.CardNames)
	case EventChallengeLastPlay:
		return room.CallLiar(sess.playerID)
	case EventChatMessage:
		return room.SendChat(sess.playerID, ev.Text)
	}
	return game.Malformed("unknown event type %q", ev.Type)
}

// bind attaches the connection to its seat, then syncs the full state so the
// player sees whatever was broadcast before registration.
func (h *WSHandler) bind(sess *session, room *game.Room, playerID string) {
	sess.roomID = room.RoomID()
	sess.playerID = playerID
	h.hub.Register(playerID, sess.client)
	sess.client.Send(game.GameEvent{Type: game.EventRoomJoined, Payload: game.RoomJoinedPayload{
		RoomID:   sess.roomID,
		PlayerID: playerID,
	}})
	room.SyncPlayer(playerID)
}

func (h *WSHandler) room(sess *session) (*game.Room, error) {
	if !sess.bound() {
		return nil, game.ErrNotInRoom
	}
	room, ok := h.store.GetRoom(sess.roomID)
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return room, nil
}

func (h *WSHandler) reportError(sess *session, err error) {
	var ge *game.GameError
	if !errors.As(err, &ge) {
		h.logger.WithFields(logrus.Fields{"room": sess.roomID, "player": sess.playerID}).Errorf("unexpected handler error: %v", err)
		ge = &game.GameError{Code: "internal_error", Message: "internal server error"}
	}
	sess.client.Send(game.ErrorEvent(ge))
}

// writePump drains the client's queue onto the socket. A failed write cancels
// the session so the read loop unwinds too.
func (h *WSHandler) writePump(ctx context.Context, cancel context.CancelFunc, c *websocket.Conn, client *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case msg := <-client.OutChan:
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(wctx, websocket.MessageText, msg)
			wcancel()
			if err != nil {
				h.logger.Debugf("websocket write error: %v", err)
				cancel()
				return
			}
		}
	}
}
