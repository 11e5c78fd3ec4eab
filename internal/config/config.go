// Package config loads solver run configuration from HCL files, the same
// way the rest of the codebase loads server configuration.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/cfrsolver/cfr"
)

// RunConfig is the complete configuration for one solver run.
type RunConfig struct {
	Solver     SolverSettings     `hcl:"solver,block"`
	Checkpoint CheckpointSettings `hcl:"checkpoint,block"`
}

// SolverSettings selects the game, algorithm, and algorithm parameters.
type SolverSettings struct {
	Game         string  `hcl:"game"`
	Algorithm    string  `hcl:"algorithm,optional"`     // "vanilla" or "mccfr"
	UpdateMode   string  `hcl:"update_mode,optional"`   // "alternating" or "simultaneous"
	Weighting    string  `hcl:"weighting,optional"`      // vanilla: "uniform","linear","discounted","exponential"
	Pruning      string  `hcl:"pruning,optional"`        // vanilla: "none","partial","regret_based"
	RegretMode   string  `hcl:"regret_mode,optional"`     // "matching" or "matching_plus"
	MCCFRVariant string  `hcl:"mccfr_variant,optional"`  // "outcome","external","chance","pure"
	MCCFRWeight  string  `hcl:"mccfr_weighting,optional"` // "lazy","optimistic","stochastic"
	Epsilon      float64 `hcl:"epsilon,optional"`
	Seed         int64   `hcl:"seed,optional"`
	Iterations   int     `hcl:"iterations,optional"`
	LogLevel     string  `hcl:"log_level,optional"`
}

// CheckpointSettings controls periodic checkpoint persistence.
type CheckpointSettings struct {
	Path  string `hcl:"path,optional"`
	Every int    `hcl:"every,optional"`
}

// DefaultRunConfig returns the configuration used when no file is present.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Solver: SolverSettings{
			Game:         "kuhn",
			Algorithm:    "vanilla",
			UpdateMode:   "alternating",
			Weighting:    "uniform",
			Pruning:      "none",
			RegretMode:   "matching",
			MCCFRVariant: "outcome",
			MCCFRWeight:  "stochastic",
			Epsilon:      0.6,
			Seed:         1,
			Iterations:   1000,
			LogLevel:     "info",
		},
		Checkpoint: CheckpointSettings{
			Path:  "",
			Every: 0,
		},
	}
}

// LoadRunConfig loads run configuration from an HCL file, returning
// DefaultRunConfig if filename does not exist.
func LoadRunConfig(filename string) (*RunConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultRunConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	config := DefaultRunConfig()
	diags = gohcl.DecodeBody(file.Body, nil, config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultRunConfig()
	if config.Solver.Algorithm == "" {
		config.Solver.Algorithm = defaults.Solver.Algorithm
	}
	if config.Solver.UpdateMode == "" {
		config.Solver.UpdateMode = defaults.Solver.UpdateMode
	}
	if config.Solver.Weighting == "" {
		config.Solver.Weighting = defaults.Solver.Weighting
	}
	if config.Solver.Pruning == "" {
		config.Solver.Pruning = defaults.Solver.Pruning
	}
	if config.Solver.RegretMode == "" {
		config.Solver.RegretMode = defaults.Solver.RegretMode
	}
	if config.Solver.MCCFRVariant == "" {
		config.Solver.MCCFRVariant = defaults.Solver.MCCFRVariant
	}
	if config.Solver.MCCFRWeight == "" {
		config.Solver.MCCFRWeight = defaults.Solver.MCCFRWeight
	}
	if config.Solver.Iterations == 0 {
		config.Solver.Iterations = defaults.Solver.Iterations
	}
	if config.Solver.LogLevel == "" {
		config.Solver.LogLevel = defaults.Solver.LogLevel
	}
	return config, nil
}

// Validate checks that the configuration names recognized enum values.
func (c *RunConfig) Validate() error {
	if c.Solver.Game == "" {
		return fmt.Errorf("solver.game is required")
	}
	switch c.Solver.Algorithm {
	case "vanilla", "mccfr":
	default:
		return fmt.Errorf("unknown solver.algorithm %q", c.Solver.Algorithm)
	}
	switch c.Solver.UpdateMode {
	case "alternating", "simultaneous":
	default:
		return fmt.Errorf("unknown solver.update_mode %q", c.Solver.UpdateMode)
	}
	if c.Solver.Iterations <= 0 {
		return fmt.Errorf("solver.iterations must be positive")
	}
	return nil
}

// CFRConfig translates the HCL settings into a cfr.CFRConfig for vanilla
// runs. The file format carries no discount parameters or exponential
// beta function, so weighting "discounted" and "exponential" fail
// validation here.
func (c *RunConfig) CFRConfig() (cfr.CFRConfig, error) {
	cfg := cfr.DefaultCFRConfig()

	switch c.Solver.UpdateMode {
	case "simultaneous":
		cfg.UpdateMode = cfr.Simultaneous
	default:
		cfg.UpdateMode = cfr.Alternating
	}

	switch c.Solver.RegretMode {
	case "matching_plus":
		cfg.RegretMode = cfr.RegretMatchingPlusMode
	default:
		cfg.RegretMode = cfr.RegretMatchingMode
	}

	switch c.Solver.Weighting {
	case "linear":
		cfg.Weighting = cfr.LinearWeighting
		cfg.Discount = cfr.LinearDiscountParams()
	case "discounted":
		cfg.Weighting = cfr.DiscountedWeighting
	case "exponential":
		cfg.Weighting = cfr.ExponentialWeighting
	default:
		cfg.Weighting = cfr.UniformWeighting
	}

	switch c.Solver.Pruning {
	case "partial":
		cfg.Pruning = cfr.PartialPruning
	case "regret_based":
		cfg.Pruning = cfr.RegretBasedPruning
	default:
		cfg.Pruning = cfr.NoPruning
	}

	if err := cfg.Validate(); err != nil {
		return cfr.CFRConfig{}, err
	}
	return cfg, nil
}

// MCCFRConfig translates the HCL settings into a cfr.MCCFRConfig for
// Monte-Carlo runs.
func (c *RunConfig) MCCFRConfig() (cfr.MCCFRConfig, error) {
	cfg := cfr.DefaultMCCFRConfig()
	cfg.Seed = c.Solver.Seed
	cfg.Epsilon = c.Solver.Epsilon

	switch c.Solver.MCCFRVariant {
	case "external":
		cfg.Algorithm = cfr.ExternalSampling
		cfg.UpdateMode = cfr.Alternating
	case "chance":
		cfg.Algorithm = cfr.ChanceSamplingMode
	case "pure":
		cfg.Algorithm = cfr.PureCFR
	default:
		cfg.Algorithm = cfr.OutcomeSampling
	}

	if c.Solver.UpdateMode == "simultaneous" && cfg.Algorithm != cfr.ExternalSampling {
		cfg.UpdateMode = cfr.Simultaneous
	}

	switch c.Solver.MCCFRWeight {
	case "lazy":
		cfg.Weighting = cfr.LazyMCWeighting
	case "optimistic":
		cfg.Weighting = cfr.OptimisticMCWeighting
	default:
		cfg.Weighting = cfr.StochasticMCWeighting
	}

	if c.Solver.Epsilon > 0 {
		cfg.Exploration = cfr.EpsilonOnPolicyExploration
	} else {
		cfg.Exploration = cfr.OnPolicyExploration
	}

	if err := cfg.Validate(); err != nil {
		return cfr.MCCFRConfig{}, err
	}
	return cfg, nil
}
