package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cfrsolver/cfr"
)

func TestDefaultRunConfigIsValid(t *testing.T) {
	cfg := DefaultRunConfig()
	require.NoError(t, cfg.Validate())
}

func TestLoadRunConfigMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadRunConfig(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig(), cfg)
}

func TestLoadRunConfigParsesHCLAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.hcl")
	contents := `
solver {
  game       = "rps"
  algorithm  = "mccfr"
  seed       = 42
  iterations = 500
}

checkpoint {
  path  = "out.ckpt"
  every = 100
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "rps", cfg.Solver.Game)
	assert.Equal(t, "mccfr", cfg.Solver.Algorithm)
	assert.Equal(t, int64(42), cfg.Solver.Seed)
	assert.Equal(t, 500, cfg.Solver.Iterations)
	assert.Equal(t, "out.ckpt", cfg.Checkpoint.Path)
	assert.Equal(t, 100, cfg.Checkpoint.Every)

	// unset fields fall back to the defaults
	assert.Equal(t, "alternating", cfg.Solver.UpdateMode)
	assert.Equal(t, "uniform", cfg.Solver.Weighting)
}

func TestValidateRejectsUnknownAlgorithm(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Solver.Algorithm = "bogus"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveIterations(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Solver.Iterations = 0
	assert.Error(t, cfg.Validate())
}

func TestCFRConfigTranslatesLinearWeighting(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Solver.Weighting = "linear"

	out, err := cfg.CFRConfig()
	require.NoError(t, err)
	assert.Equal(t, cfr.LinearWeighting, out.Weighting)
	assert.Equal(t, cfr.LinearDiscountParams(), out.Discount)
}

func TestCFRConfigTranslatesRegretMatchingPlus(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Solver.RegretMode = "matching_plus"

	out, err := cfg.CFRConfig()
	require.NoError(t, err)
	assert.Equal(t, cfr.RegretMatchingPlusMode, out.RegretMode)
}

func TestMCCFRConfigZeroEpsilonDisablesExploration(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Solver.Epsilon = 0

	out, err := cfg.MCCFRConfig()
	require.NoError(t, err)
	assert.Equal(t, cfr.OnPolicyExploration, out.Exploration)
}

func TestMCCFRConfigExternalSamplingForcesAlternating(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Solver.MCCFRVariant = "external"
	cfg.Solver.UpdateMode = "simultaneous"

	out, err := cfg.MCCFRConfig()
	require.NoError(t, err)
	assert.Equal(t, cfr.ExternalSampling, out.Algorithm)
	assert.Equal(t, cfr.Alternating, out.UpdateMode)
}
