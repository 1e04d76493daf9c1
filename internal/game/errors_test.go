// internal/game/errors_test.go
package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameErrorMatching(t *testing.T) {
	err := Malformed("name is longer than %d characters", 20)
	assert.ErrorIs(t, err, ErrMalformedEvent)
	assert.NotErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, "malformed_event: name is longer than 20 characters", err.Error())

	wrapped := fmt.Errorf("dispatch: %w", ErrHostOnly)
	var ge *GameError
	assert.True(t, errors.As(wrapped, &ge))
	assert.Equal(t, CodeHostOnly, ge.Code)
}
