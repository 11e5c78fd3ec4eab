package cfr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerNAndInt(t *testing.T) {
	p := PlayerN(3)
	assert.True(t, p.IsActual())
	assert.Equal(t, 3, p.Int())
	assert.Equal(t, "player3", p.String())
}

func TestSentinelPlayersAreNotActual(t *testing.T) {
	assert.False(t, Unknown.IsActual())
	assert.False(t, Chance.IsActual())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "chance", Chance.String())
}

func TestPlayerIntPanicsOnSentinel(t *testing.T) {
	assert.Panics(t, func() { Chance.Int() })
	assert.Panics(t, func() { Unknown.Int() })
}
