package runtime

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cfrsolver/cfr"
)

func TestLoadAndActionWeightsFromStoredStrategy(t *testing.T) {
	players := []cfr.Player{cfr.PlayerN(0)}
	average := map[cfr.Player]*cfr.StatePolicy[string]{
		cfr.PlayerN(0): cfr.NewStatePolicy[string](cfr.ZeroPolicy[string]),
	}
	average[cfr.PlayerN(0)].At("0:", []string{"a", "b"}).Set("a", 3)
	average[cfr.PlayerN(0)].At("0:", []string{"a", "b"}).Set("b", 1)

	bp := cfr.BuildBlueprint(players, average, 10, time.Unix(0, 0))
	path := filepath.Join(t.TempDir(), "blueprint.json")
	require.NoError(t, bp.Save(path))

	policy, err := Load[string](path, 1)
	require.NoError(t, err)

	weights, err := policy.ActionWeights(cfr.PlayerN(0), "0:", []string{"a", "b"})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, weights.Get("a"), 1e-9)
	assert.InDelta(t, 0.25, weights.Get("b"), 1e-9)
}

func TestActionWeightsFallsBackToUniformForUnseenInfoset(t *testing.T) {
	players := []cfr.Player{cfr.PlayerN(0)}
	average := map[cfr.Player]*cfr.StatePolicy[string]{
		cfr.PlayerN(0): cfr.NewStatePolicy[string](cfr.ZeroPolicy[string]),
	}
	bp := cfr.BuildBlueprint(players, average, 10, time.Unix(0, 0))
	path := filepath.Join(t.TempDir(), "blueprint.json")
	require.NoError(t, bp.Save(path))

	policy, err := Load[string](path, 1)
	require.NoError(t, err)

	weights, err := policy.ActionWeights(cfr.PlayerN(0), "never-visited", []string{"a", "b", "c"})
	require.NoError(t, err)
	for _, a := range []string{"a", "b", "c"} {
		assert.InDelta(t, 1.0/3.0, weights.Get(a), 1e-9)
	}
}

func TestSampleReturnsALegalAction(t *testing.T) {
	players := []cfr.Player{cfr.PlayerN(0)}
	average := map[cfr.Player]*cfr.StatePolicy[string]{
		cfr.PlayerN(0): cfr.NewStatePolicy[string](cfr.ZeroPolicy[string]),
	}
	average[cfr.PlayerN(0)].At("0:", []string{"a", "b"}).Set("a", 1)

	bp := cfr.BuildBlueprint(players, average, 1, time.Unix(0, 0))
	path := filepath.Join(t.TempDir(), "blueprint.json")
	require.NoError(t, bp.Save(path))

	policy, err := Load[string](path, 42)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		a, err := policy.Sample(cfr.PlayerN(0), "0:", []string{"a", "b"})
		require.NoError(t, err)
		assert.Contains(t, []string{"a", "b"}, a)
	}
}
