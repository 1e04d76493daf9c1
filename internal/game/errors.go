package game

import "fmt"

// ErrorCode identifies a recoverable failure reported to the acting player.
type ErrorCode string

const (
	CodeRoomNotFound     ErrorCode = "room_not_found"
	CodeGameInProgress   ErrorCode = "game_in_progress"
	CodeRoomFull         ErrorCode = "room_full"
	CodeHostOnly         ErrorCode = "host_only"
	CodeNotEnoughPlayers ErrorCode = "not_enough_players"
	CodeNotTurnPhase     ErrorCode = "not_turn_phase"
	CodeNotYourTurn      ErrorCode = "not_your_turn"
	CodeMustCallLiar     ErrorCode = "must_call_liar"
	CodeInvalidPlaySize  ErrorCode = "invalid_play_size"
	CodeCardNotInHand    ErrorCode = "card_not_in_hand"
	CodeNoPreviousPlay   ErrorCode = "no_previous_play"
	CodeSelfChallenge    ErrorCode = "self_challenge"
	CodeMalformedEvent   ErrorCode = "malformed_event"
	CodeNotInRoom        ErrorCode = "not_in_room"
	CodeAlreadyInRoom    ErrorCode = "already_in_room"
	CodeRateLimited      ErrorCode = "rate_limited"
)

// GameError is returned by every room operation that rejects player input.
// Two GameErrors match under errors.Is when their codes are equal, so a
// MalformedEvent with a custom message still matches ErrMalformedEvent.
type GameError struct {
	Code    ErrorCode
	Message string
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

var (
	ErrRoomNotFound     = &GameError{CodeRoomNotFound, "room not found"}
	ErrGameInProgress   = &GameError{CodeGameInProgress, "a game is already in progress"}
	ErrRoomFull         = &GameError{CodeRoomFull, "room is full"}
	ErrHostOnly         = &GameError{CodeHostOnly, "only the host can do that"}
	ErrNotEnoughPlayers = &GameError{CodeNotEnoughPlayers, "at least 2 connected players are required"}
	ErrNotTurnPhase     = &GameError{CodeNotTurnPhase, "no turn is in progress"}
	ErrNotYourTurn      = &GameError{CodeNotYourTurn, "it is not your turn"}
	ErrMustCallLiar     = &GameError{CodeMustCallLiar, "you are the last player holding cards and must call liar"}
	ErrInvalidPlaySize  = &GameError{CodeInvalidPlaySize, "play between 1 and 3 cards"}
	ErrCardNotInHand    = &GameError{CodeCardNotInHand, "card not in hand"}
	ErrNoPreviousPlay   = &GameError{CodeNoPreviousPlay, "there is no play to challenge"}
	ErrSelfChallenge    = &GameError{CodeSelfChallenge, "you cannot challenge your own play"}
	ErrMalformedEvent   = &GameError{CodeMalformedEvent, "malformed event"}
	ErrNotInRoom        = &GameError{CodeNotInRoom, "join or create a room first"}
	ErrAlreadyInRoom    = &GameError{CodeAlreadyInRoom, "already in a room"}
	ErrRateLimited      = &GameError{CodeRateLimited, "too many messages, slow down"}
)

// Malformed builds a MalformedEvent error with a specific reason.
func Malformed(format string, args ...interface{}) *GameError {
	return &GameError{Code: CodeMalformedEvent, Message: fmt.Sprintf(format, args...)}
}
