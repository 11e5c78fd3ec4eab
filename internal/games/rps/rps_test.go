package rps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cfrsolver/cfr"
)

func TestBeats(t *testing.T) {
	assert.True(t, beats(Rock, Scissors))
	assert.True(t, beats(Paper, Rock))
	assert.True(t, beats(Scissors, Paper))
	assert.False(t, beats(Rock, Paper))
	assert.False(t, beats(Rock, Rock))
}

func TestActivePlayerSequencing(t *testing.T) {
	env := Env{}
	w := NewRoot()
	assert.Equal(t, cfr.PlayerN(0), env.ActivePlayer(w))

	env.TransitionAction(w, Rock)
	assert.Equal(t, cfr.PlayerN(1), env.ActivePlayer(w))

	env.TransitionAction(w, Scissors)
	assert.Equal(t, cfr.Unknown, env.ActivePlayer(w))
	assert.True(t, env.IsTerminal(w))
}

func TestObservationsNeverRevealTheFirstMove(t *testing.T) {
	env := Env{}
	w := NewRoot()
	wPrime := NewRoot()
	env.TransitionAction(wPrime, Rock)
	assert.Equal(t, "", env.PrivateObservation(cfr.PlayerN(1), w, wPrime, Rock))
	assert.Equal(t, "", env.PublicObservation(w, wPrime, Rock))
}

func TestRewardTable(t *testing.T) {
	env := Env{}
	w := &State{p0: Rock, p1: Scissors}
	assert.Equal(t, 1.0, env.Reward(cfr.PlayerN(0), w))
	assert.Equal(t, -1.0, env.Reward(cfr.PlayerN(1), w))

	tie := &State{p0: Paper, p1: Paper}
	assert.Equal(t, 0.0, env.Reward(cfr.PlayerN(0), tie))
}

// TestVanillaCFRConvergesToUniformOnRPS trains CFR on Rock-Paper-Scissors
// and checks both players' average policies converge toward the unique
// equilibrium, uniform 1/3 over each move.
func TestVanillaCFRConvergesToUniformOnRPS(t *testing.T) {
	env := Env{}
	root := NewRoot()
	players := []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}

	solver, err := cfr.NewVanillaRun[*State, Move, struct{}, string](env, root, players, cfr.DefaultCFRConfig())
	require.NoError(t, err)

	_, err = solver.Iterate(1000)
	require.NoError(t, err)

	for _, p := range players {
		table := solver.AveragePolicyTable(p)
		for _, key := range table.Keys() {
			norm, err := table.Normalized(key)
			require.NoError(t, err)
			for _, m := range moves {
				assert.InDelta(t, 1.0/3.0, norm.Get(m), 0.1)
			}
		}
	}
}
