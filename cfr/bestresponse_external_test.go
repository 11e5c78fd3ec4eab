package cfr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cfrsolver/cfr"
	"github.com/lox/cfrsolver/internal/games/kuhn"
)

func TestComputeBestResponseBeatsUniformOpponent(t *testing.T) {
	env := kuhn.Env{}
	root := kuhn.NewRoot()
	players := []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}

	uniform := map[cfr.Player]*cfr.StatePolicy[kuhn.Action]{
		cfr.PlayerN(0): cfr.NewStatePolicy[kuhn.Action](cfr.UniformPolicy[kuhn.Action]),
		cfr.PlayerN(1): cfr.NewStatePolicy[kuhn.Action](cfr.UniformPolicy[kuhn.Action]),
	}

	_, value, err := cfr.ComputeBestResponse[*kuhn.State, kuhn.Action, kuhn.Deal, string](
		env, root, players, cfr.PlayerN(0), uniform,
	)
	require.NoError(t, err)
	assert.Greater(t, value, 0.0, "player 0's best response to a uniform-random opponent should show positive value")
}

func TestExploitabilityOfUniformProfileIsLargerThanTrainedProfile(t *testing.T) {
	env := kuhn.Env{}
	root := kuhn.NewRoot()
	players := []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}

	uniform := map[cfr.Player]*cfr.StatePolicy[kuhn.Action]{
		cfr.PlayerN(0): cfr.NewStatePolicy[kuhn.Action](cfr.UniformPolicy[kuhn.Action]),
		cfr.PlayerN(1): cfr.NewStatePolicy[kuhn.Action](cfr.UniformPolicy[kuhn.Action]),
	}
	uniformExpl, err := cfr.Exploitability[*kuhn.State, kuhn.Action, kuhn.Deal, string](env, root, players, uniform)
	require.NoError(t, err)

	solver, err := cfr.NewVanillaRun[*kuhn.State, kuhn.Action, kuhn.Deal, string](env, root, players, cfr.DefaultCFRConfig())
	require.NoError(t, err)
	_, err = solver.Iterate(500)
	require.NoError(t, err)

	trained := map[cfr.Player]*cfr.StatePolicy[kuhn.Action]{
		cfr.PlayerN(0): solver.AveragePolicyTable(cfr.PlayerN(0)),
		cfr.PlayerN(1): solver.AveragePolicyTable(cfr.PlayerN(1)),
	}
	trainedExpl, err := cfr.Exploitability[*kuhn.State, kuhn.Action, kuhn.Deal, string](env, root, players, trained)
	require.NoError(t, err)

	assert.Less(t, trainedExpl, uniformExpl, "500 iterations of CFR should be strictly less exploitable than uniform random play")
}

func TestExploitabilityRejectsNonTwoPlayerGames(t *testing.T) {
	env := kuhn.Env{}
	root := kuhn.NewRoot()
	players := []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1), cfr.PlayerN(2)}

	_, err := cfr.Exploitability[*kuhn.State, kuhn.Action, kuhn.Deal, string](env, root, players, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, cfr.ErrInvalidConfiguration)
}

func runMCCFR(t *testing.T, algo cfr.MCCFRAlgorithmMode) {
	t.Helper()
	env := kuhn.Env{}
	root := kuhn.NewRoot()
	players := []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}

	cfg := cfr.DefaultMCCFRConfig()
	cfg.Algorithm = algo
	cfg.Seed = 123
	if algo == cfr.ExternalSampling {
		cfg.UpdateMode = cfr.Alternating
		cfg.Weighting = cfr.StochasticMCWeighting
	}

	solver, err := cfr.NewMCCFRRun[*kuhn.State, kuhn.Action, kuhn.Deal, string](env, root, players, cfg)
	require.NoError(t, err)

	_, err = solver.Iterate(200)
	require.NoError(t, err)

	profile := map[cfr.Player]*cfr.StatePolicy[kuhn.Action]{
		cfr.PlayerN(0): solver.AveragePolicyTable(cfr.PlayerN(0)),
		cfr.PlayerN(1): solver.AveragePolicyTable(cfr.PlayerN(1)),
	}
	for _, p := range players {
		require.Greater(t, profile[p].Len(), 0, "%v traversal should have touched at least one infoset", algo)
	}
}

func TestMCCFROutcomeSamplingRuns(t *testing.T) {
	runMCCFR(t, cfr.OutcomeSampling)
}

func TestMCCFRExternalSamplingRuns(t *testing.T) {
	runMCCFR(t, cfr.ExternalSampling)
}

func TestMCCFRChanceSamplingRuns(t *testing.T) {
	runMCCFR(t, cfr.ChanceSamplingMode)
}

func TestMCCFRPureCFRRuns(t *testing.T) {
	runMCCFR(t, cfr.PureCFR)
}
