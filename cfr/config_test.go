package cfr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCFRConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultCFRConfig().Validate())
}

func TestCFRPlusConfigIsValid(t *testing.T) {
	assert.NoError(t, CFRPlusConfig().Validate())
}

func TestCFRConfigRejectsExponentialPlusRBP(t *testing.T) {
	cfg := CFRConfig{
		UpdateMode:  Alternating,
		RegretMode:  RegretMatchingPlusMode,
		Weighting:   ExponentialWeighting,
		Pruning:     RegretBasedPruning,
		Exponential: ExponentialParams{Beta: func(float64, int) float64 { return 0 }},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCFRConfigRejectsRBPWithoutRegretMatchingPlus(t *testing.T) {
	cfg := CFRConfig{
		UpdateMode: Alternating,
		RegretMode: RegretMatchingMode,
		Pruning:    RegretBasedPruning,
	}
	assert.Error(t, cfg.Validate())
}

func TestCFRConfigRejectsZeroDiscountParams(t *testing.T) {
	cfg := CFRConfig{
		UpdateMode: Alternating,
		RegretMode: RegretMatchingMode,
		Weighting:  DiscountedWeighting,
	}
	assert.Error(t, cfg.Validate())
}

func TestDefaultMCCFRConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultMCCFRConfig().Validate())
}

func TestMCCFRConfigRejectsExternalSamplingWithSimultaneousUpdate(t *testing.T) {
	cfg := MCCFRConfig{
		Algorithm:  ExternalSampling,
		UpdateMode: Simultaneous,
		Weighting:  StochasticMCWeighting,
	}
	assert.Error(t, cfg.Validate())
}

func TestMCCFRConfigRejectsEpsilonOutOfRange(t *testing.T) {
	cfg := MCCFRConfig{
		Exploration: EpsilonOnPolicyExploration,
		Epsilon:     1.5,
	}
	assert.Error(t, cfg.Validate())
}
