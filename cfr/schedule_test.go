package cfr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduleRejectsEmpty(t *testing.T) {
	_, err := NewSchedule(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewScheduleRejectsNonActualPlayer(t *testing.T) {
	_, err := NewSchedule([]Player{PlayerN(0), Chance})
	require.Error(t, err)
}

func TestScheduleRotatesInOrder(t *testing.T) {
	s, err := NewSchedule([]Player{PlayerN(0), PlayerN(1), PlayerN(2)})
	require.NoError(t, err)

	assert.Equal(t, PlayerN(0), s.Head())
	assert.Equal(t, PlayerN(1), s.PeekNext())

	assert.Equal(t, PlayerN(1), s.Rotate())
	assert.Equal(t, PlayerN(2), s.Rotate())
	assert.Equal(t, PlayerN(0), s.Rotate())
}

func TestScheduleContains(t *testing.T) {
	s, err := NewSchedule([]Player{PlayerN(0), PlayerN(1)})
	require.NoError(t, err)
	assert.True(t, s.Contains(PlayerN(1)))
	assert.False(t, s.Contains(PlayerN(5)))
}

func TestScheduleSinglePlayerPeekNextIsSelf(t *testing.T) {
	s, err := NewSchedule([]Player{PlayerN(0)})
	require.NoError(t, err)
	assert.Equal(t, PlayerN(0), s.PeekNext())
	assert.Equal(t, PlayerN(0), s.Rotate())
}
