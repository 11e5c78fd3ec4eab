package cfr

import (
	"fmt"
)

// RegretMinimizingMode selects the regret-matching kernel a vanilla CFR
// run applies.
type RegretMinimizingMode uint8

const (
	RegretMatchingMode RegretMinimizingMode = iota
	RegretMatchingPlusMode
)

func (m RegretMinimizingMode) String() string {
	switch m {
	case RegretMatchingMode:
		return "regret-matching"
	case RegretMatchingPlusMode:
		return "regret-matching-plus"
	default:
		return "unknown"
	}
}

// CFRWeightingMode selects how a vanilla CFR run weights cumulative
// regret and average-policy updates across iterations.
type CFRWeightingMode uint8

const (
	UniformWeighting CFRWeightingMode = iota
	LinearWeighting
	DiscountedWeighting
	ExponentialWeighting
)

func (m CFRWeightingMode) String() string {
	switch m {
	case UniformWeighting:
		return "uniform"
	case LinearWeighting:
		return "linear"
	case DiscountedWeighting:
		return "discounted"
	case ExponentialWeighting:
		return "exponential"
	default:
		return "unknown"
	}
}

// PruningMode selects whether and how a vanilla CFR traversal
// short-circuits zero-reach subtrees.
type PruningMode uint8

const (
	NoPruning PruningMode = iota
	PartialPruning
	RegretBasedPruning
)

// DiscountParams carries the (α, β, γ) triple for DiscountedWeighting.
// Linear weighting is the special case (1, 1, 1).
type DiscountParams struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// LinearDiscountParams returns the (1, 1, 1) triple equivalent to linear
// weighting, expressed as a discounted run.
func LinearDiscountParams() DiscountParams {
	return DiscountParams{Alpha: 1, Beta: 1, Gamma: 1}
}

// ExponentialParams carries exponential-CFR's per-action weighting
// function parameters. Beta computes the fallback weight used in place
// of negative instantaneous regret when deriving L1.
type ExponentialParams struct {
	Beta func(instantRegret float64, iteration int) float64
}

// CFRConfig configures a vanilla (full-tree) CFR run.
type CFRConfig struct {
	UpdateMode    UpdateMode
	RegretMode    RegretMinimizingMode
	Weighting     CFRWeightingMode
	Pruning       PruningMode
	Discount      DiscountParams
	Exponential   ExponentialParams `json:"-"` // Beta is a function and is not serialized
}

// DefaultCFRConfig returns plain alternating, regret-matching, uniform
// weighting with no pruning — the textbook vanilla CFR loop.
func DefaultCFRConfig() CFRConfig {
	return CFRConfig{
		UpdateMode: Alternating,
		RegretMode: RegretMatchingMode,
		Weighting:  UniformWeighting,
		Pruning:    NoPruning,
	}
}

// CFRPlusConfig returns the configuration the literature calls CFR+:
// alternating updates, regret-matching-plus, uniform weighting.
func CFRPlusConfig() CFRConfig {
	return CFRConfig{
		UpdateMode: Alternating,
		RegretMode: RegretMatchingPlusMode,
		Weighting:  UniformWeighting,
		Pruning:    NoPruning,
	}
}

// Validate rejects unsupported combinations. Exponential weighting
// combined with regret-matching-plus and regret-based pruning together is
// rejected outright, since the two clipping rules have never been jointly
// analyzed for regret-based pruning's early-cutoff criterion.
func (c CFRConfig) Validate() error {
	if c.Weighting == ExponentialWeighting && c.RegretMode == RegretMatchingPlusMode && c.Pruning == RegretBasedPruning {
		return fmt.Errorf("%w: exponential weighting cannot combine with regret-matching-plus and regret-based pruning", ErrInvalidConfiguration)
	}
	if c.Pruning == RegretBasedPruning && c.RegretMode != RegretMatchingPlusMode {
		return fmt.Errorf("%w: regret-based pruning requires regret-matching-plus", ErrInvalidConfiguration)
	}
	if c.Weighting == DiscountedWeighting {
		if c.Discount == (DiscountParams{}) {
			return fmt.Errorf("%w: discounted weighting requires non-zero discount params", ErrInvalidConfiguration)
		}
	}
	if c.Weighting == ExponentialWeighting && c.Exponential.Beta == nil {
		return fmt.Errorf("%w: exponential weighting requires a beta function", ErrInvalidConfiguration)
	}
	return nil
}

// MCCFRAlgorithmMode selects the Monte-Carlo CFR traversal variant.
type MCCFRAlgorithmMode uint8

const (
	OutcomeSampling MCCFRAlgorithmMode = iota
	ExternalSampling
	ChanceSamplingMode
	PureCFR
)

func (m MCCFRAlgorithmMode) String() string {
	switch m {
	case OutcomeSampling:
		return "outcome-sampling"
	case ExternalSampling:
		return "external-sampling"
	case ChanceSamplingMode:
		return "chance-sampling"
	case PureCFR:
		return "pure-cfr"
	default:
		return "unknown"
	}
}

// MCCFRWeightingMode selects outcome-sampling's average-policy update
// scheme. External sampling always uses StochasticMCWeighting (enforced
// by Validate).
type MCCFRWeightingMode uint8

const (
	LazyMCWeighting MCCFRWeightingMode = iota
	OptimisticMCWeighting
	StochasticMCWeighting
)

// MCCFRExplorationMode selects how a sampled player's action is drawn.
type MCCFRExplorationMode uint8

const (
	OnPolicyExploration MCCFRExplorationMode = iota
	EpsilonOnPolicyExploration
)

// MCCFRConfig configures a Monte-Carlo CFR run.
type MCCFRConfig struct {
	Algorithm   MCCFRAlgorithmMode
	UpdateMode  UpdateMode
	Weighting   MCCFRWeightingMode
	Exploration MCCFRExplorationMode
	Epsilon     float64
	Seed        int64
}

// DefaultMCCFRConfig returns outcome-sampling, alternating, stochastic
// weighting, ε-on-policy exploration with ε = 0.6, a configuration known
// to converge reliably on small poker-style games like Kuhn poker.
func DefaultMCCFRConfig() MCCFRConfig {
	return MCCFRConfig{
		Algorithm:   OutcomeSampling,
		UpdateMode:  Alternating,
		Weighting:   StochasticMCWeighting,
		Exploration: EpsilonOnPolicyExploration,
		Epsilon:     0.6,
	}
}

// Validate rejects configuration combinations that are inconsistent with
// the chosen sampling algorithm.
func (c MCCFRConfig) Validate() error {
	if c.Algorithm == ExternalSampling {
		if c.UpdateMode != Alternating {
			return fmt.Errorf("%w: external sampling requires alternating updates", ErrInvalidConfiguration)
		}
		if c.Weighting != StochasticMCWeighting {
			return fmt.Errorf("%w: external sampling requires stochastic weighting", ErrInvalidConfiguration)
		}
	}
	if c.Exploration == EpsilonOnPolicyExploration && (c.Epsilon < 0 || c.Epsilon > 1) {
		return fmt.Errorf("%w: epsilon must be within [0, 1]", ErrInvalidConfiguration)
	}
	return nil
}
