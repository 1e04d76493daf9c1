package game

// GameEventType names an outbound event.
type GameEventType string

const (
	EventRoomJoined      GameEventType = "room_joined"
	EventRoomState       GameEventType = "room_state"       // full broadcast-safe snapshot
	EventHandState       GameEventType = "hand_state"       // private, addressed to the hand's owner
	EventChallengeResult GameEventType = "challenge_result" // liar resolution outcome
	EventPenaltyResult   GameEventType = "penalty_result"   // idle timeout outcome
	EventSystemMessage   GameEventType = "system_message"
	EventError           GameEventType = "error"
	EventPong            GameEventType = "pong"
)

// GameEvent is the envelope of every outbound message.
type GameEvent struct {
	Type    GameEventType `json:"type"`
	Payload interface{}   `json:"payload,omitempty"`
}

// ResolutionReason tags why a liar resolution or penalty happened.
type ResolutionReason string

const (
	ReasonManual          ResolutionReason = "manual"
	ReasonTimeoutAutoLiar ResolutionReason = "timeout_auto_liar"
	ReasonTimeout         ResolutionReason = "timeout"
)

type RoomJoinedPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type RoomStatePayload struct {
	Room RoomView `json:"room"`
}

type HandStatePayload struct {
	Cards []string `json:"cards"`
}

type ChallengeResultPayload struct {
	CallerID      string           `json:"callerId"`
	AccusedID     string           `json:"accusedId"`
	TableRank     Rank             `json:"tableRank"`
	RevealedCards []string         `json:"revealedCards"`
	Truthful      bool             `json:"truthful"`
	PenalizedID   string           `json:"penalizedId"`
	Fatal         bool             `json:"fatal"`
	EliminatedID  string           `json:"eliminatedId,omitempty"`
	Reason        ResolutionReason `json:"reason"`
}

type PenaltyResultPayload struct {
	PlayerID     string           `json:"playerId"`
	Fatal        bool             `json:"fatal"`
	EliminatedID string           `json:"eliminatedId,omitempty"`
	Reason       ResolutionReason `json:"reason"`
}

type SystemMessagePayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorEvent converts a GameError into the event sent back to the actor.
func ErrorEvent(err *GameError) GameEvent {
	return GameEvent{Type: EventError, Payload: ErrorPayload{Code: err.Code, Message: err.Message}}
}
