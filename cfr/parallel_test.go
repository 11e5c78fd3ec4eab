package cfr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIndependentRunsEverySeedAndCollectsAverages(t *testing.T) {
	env := coinEnv{}
	players := []Player{PlayerN(0)}

	runs, err := RunIndependent[string](context.Background(), players, 4, 100, 20,
		func(seed int64) (IndependentSolver[string], error) {
			cfg := DefaultMCCFRConfig()
			cfg.Seed = seed
			return NewMCCFRRun[*coinState, string, struct{}, string](env, newCoinRoot(), players, cfg)
		},
	)
	require.NoError(t, err)
	require.Len(t, runs, 4)

	seen := make(map[int64]bool)
	for _, run := range runs {
		assert.NotNil(t, run.Average[PlayerN(0)])
		seen[run.Seed] = true
	}
	assert.Len(t, seen, 4, "every run should get a distinct derived seed")
}

func TestRunIndependentPropagatesBuildError(t *testing.T) {
	_, err := RunIndependent[string](context.Background(), []Player{PlayerN(0)}, 3, 1, 5,
		func(seed int64) (IndependentSolver[string], error) {
			if seed == 1 {
				return nil, assert.AnError
			}
			env := coinEnv{}
			return NewMCCFRRun[*coinState, string, struct{}, string](env, newCoinRoot(), []Player{PlayerN(0)}, DefaultMCCFRConfig())
		},
	)
	require.Error(t, err)
}

func TestMergeAveragePoliciesAveragesAcrossRuns(t *testing.T) {
	players := []Player{PlayerN(0)}

	run1 := NewStatePolicy[string](ZeroPolicy[string])
	run1.At("0:", []string{"a", "b"}).Set("a", 1)

	run2 := NewStatePolicy[string](ZeroPolicy[string])
	run2.At("0:", []string{"a", "b"}).Set("b", 1)

	merged := MergeAveragePolicies[string](players, []IndependentRun[string]{
		{Seed: 1, Average: map[Player]*StatePolicy[string]{PlayerN(0): run1}},
		{Seed: 2, Average: map[Player]*StatePolicy[string]{PlayerN(0): run2}},
	})

	ap, ok := merged[PlayerN(0)].Lookup("0:")
	require.True(t, ok)
	assert.InDelta(t, 0.5, ap.Get("a"), 1e-9)
	assert.InDelta(t, 0.5, ap.Get("b"), 1e-9)
}
