package cfr

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a minimal two-action, one-ply deterministic environment used to
// exercise checkpoint/blueprint round-tripping without depending on a
// full game package.
type coinState struct{ history string }

func (s *coinState) Clone() WorldState { cp := *s; return &cp }

type coinEnv struct{}

var _ Environment[*coinState, string, struct{}, string] = coinEnv{}

func (coinEnv) Traits() Traits                 { return Traits{Stochasticity: Deterministic, Serialized: true} }
func (coinEnv) Players(_ *coinState) []Player  { return []Player{PlayerN(0)} }
func (coinEnv) ActivePlayer(w *coinState) Player {
	if w.history == "" {
		return PlayerN(0)
	}
	return Unknown
}
func (coinEnv) IsTerminal(w *coinState) bool { return w.history != "" }
func (coinEnv) Actions(_ Player, _ *coinState) []string {
	return []string{"heads", "tails"}
}
func (coinEnv) ChanceActions(_ *coinState) []struct{}            { panic("no chance node") }
func (coinEnv) ChanceProbability(_ *coinState, _ struct{}) float64 { panic("no chance node") }
func (coinEnv) TransitionAction(w *coinState, a string)           { w.history = a }
func (coinEnv) TransitionChance(_ *coinState, _ struct{})         { panic("no chance node") }
func (coinEnv) Reward(_ Player, w *coinState) float64 {
	if w.history == "heads" {
		return 1
	}
	return -1
}
func (coinEnv) PrivateObservation(_ Player, _, _ *coinState, a string) string { return a }
func (coinEnv) PublicObservation(_, _ *coinState, a string) string           { return a }
func (coinEnv) PrivateObservationChance(_ Player, _, _ *coinState, _ struct{}) string {
	panic("no chance node")
}
func (coinEnv) PublicObservationChance(_, _ *coinState, _ struct{}) string {
	panic("no chance node")
}

func newCoinRoot() *coinState { return &coinState{} }

func TestVanillaCheckpointRoundTrip(t *testing.T) {
	env := coinEnv{}
	root := newCoinRoot()
	players := []Player{PlayerN(0)}

	solver, err := NewVanillaRun[*coinState, string, struct{}, string](env, root, players, DefaultCFRConfig())
	require.NoError(t, err)
	_, err = solver.Iterate(10)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vanilla.ckpt")
	require.NoError(t, solver.SaveCheckpoint(path))

	cp, err := LoadVanillaCheckpoint[string](path)
	require.NoError(t, err)
	assert.Equal(t, 10, cp.Iteration)

	restored, err := RestoreVanillaCheckpoint[*coinState, string, struct{}, string](env, root, cp)
	require.NoError(t, err)
	assert.Equal(t, solver.Iteration(), restored.Iteration())

	wantNorm, err := solver.AveragePolicyTable(PlayerN(0)).Normalized(NewInfoState[string](PlayerN(0)).Key())
	require.NoError(t, err)
	gotNorm, err := restored.AveragePolicyTable(PlayerN(0)).Normalized(NewInfoState[string](PlayerN(0)).Key())
	require.NoError(t, err)
	for _, a := range wantNorm.Actions() {
		assert.InDelta(t, wantNorm.Get(a), gotNorm.Get(a), 1e-9)
	}
}

func TestMCCFRCheckpointRestoresRNGPosition(t *testing.T) {
	env := coinEnv{}
	root := newCoinRoot()
	players := []Player{PlayerN(0)}

	cfg := DefaultMCCFRConfig()
	cfg.Seed = 7
	solver, err := NewMCCFRRun[*coinState, string, struct{}, string](env, root, players, cfg)
	require.NoError(t, err)
	_, err = solver.Iterate(5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mccfr.ckpt")
	require.NoError(t, solver.SaveCheckpoint(path))

	cp, err := LoadMCCFRCheckpoint[string](path)
	require.NoError(t, err)

	restored, err := RestoreMCCFRCheckpoint[*coinState, string, struct{}, string](env, root, cp)
	require.NoError(t, err)
	assert.Equal(t, solver.rng.state, restored.rng.state)
	assert.Equal(t, solver.rng.inc, restored.rng.inc)
}

func TestLoadCheckpointRejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ckpt")
	cp := &VanillaCheckpoint[string]{Version: 99}
	require.NoError(t, saveCheckpointFile(path, cp))

	_, err := LoadVanillaCheckpoint[string](path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
