package cfr

import "fmt"

// MCCFRSolver runs the Monte-Carlo CFR family: outcome sampling, external
// sampling, chance sampling, and pure CFR. Unlike VanillaSolver, each
// iterate() call traverses only a sampled subset of the tree and updates
// current policy lazily: outcome and chance sampling apply regret
// matching on every visit, while external sampling and pure CFR apply it
// once at the end of the iteration to the infosets they touched.
type MCCFRSolver[W WorldState, A comparable, C comparable, O comparable] struct {
	*Base[W, A, C, O]
	cfg MCCFRConfig
	rng *fastRand

	// toUpdate accumulates infosets touched by external/pure CFR this
	// iteration; outcome sampling applies regret matching on every visit
	// instead and leaves this unused.
	toUpdate map[Player]map[string]struct{}

	// sampledThisIter tracks which infosets have had pure CFR's
	// per-iteration sampled action set, so it can be cleared at the next
	// iteration boundary.
	sampledThisIter map[Player]map[string]struct{}
}

// NewMCCFRSolver constructs a Monte-Carlo CFR run.
func NewMCCFRSolver[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	players []Player,
	currentPolicy map[Player]*StatePolicy[A],
	averagePolicy map[Player]*StatePolicy[A],
	cfg MCCFRConfig,
) (*MCCFRSolver[W, A, C, O], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := NewBase(env, root, players, cfg.UpdateMode, currentPolicy, averagePolicy)
	if err != nil {
		return nil, err
	}
	return &MCCFRSolver[W, A, C, O]{
		Base:     base,
		cfg:      cfg,
		rng:             newFastRand(cfg.Seed, 0),
		toUpdate:        make(map[Player]map[string]struct{}),
		sampledThisIter: make(map[Player]map[string]struct{}),
	}, nil
}

// Iterate runs n iterations, returning the per-player sampled value
// estimate produced during each one.
func (s *MCCFRSolver[W, A, C, O]) Iterate(n int) ([]map[Player]float64, error) {
	values := make([]map[Player]float64, 0, n)
	for i := 0; i < n; i++ {
		v, err := s.IterateOne()
		if err != nil {
			return values, err
		}
		values = append(values, v)
	}
	return values, nil
}

// IterateOne runs one sampled iteration, dispatching to the configured
// algorithm.
func (s *MCCFRSolver[W, A, C, O]) IterateOne() (map[Player]float64, error) {
	var updating Player
	if s.UpdateMode() == Alternating {
		updating = s.PlayerToUpdate()
	}

	var value map[Player]float64
	var err error
	switch s.cfg.Algorithm {
	case OutcomeSampling:
		value, err = s.outcomeSamplingIteration(updating)
	case ExternalSampling:
		value, err = s.externalSamplingIteration(updating)
	case ChanceSamplingMode:
		value, err = s.chanceSamplingIteration(updating)
	case PureCFR:
		value, err = s.pureCFRIteration(updating)
	default:
		return nil, fmt.Errorf("%w: unknown MCCFR algorithm", ErrInvalidConfiguration)
	}
	if err != nil {
		return nil, err
	}
	if s.UpdateMode() == Alternating {
		s.CyclePlayerToUpdate()
	}
	s.incrementIteration()
	return value, nil
}

// onPolicySample draws an action at infoset according to policy and
// returns the action and its on-policy probability.
func (s *MCCFRSolver[W, A, C, O]) onPolicySample(policy *ActionPolicy[A]) (a A, prob float64) {
	actions := policy.Actions()
	r := s.rng.Float64()
	cum := 0.0
	for _, act := range actions {
		cum += policy.Get(act)
		if r < cum {
			return act, policy.Get(act)
		}
	}
	last := actions[len(actions)-1]
	return last, policy.Get(last)
}

// epsilonOnPolicySample draws uniformly with probability ε, else
// on-policy. It returns the sampled action, its plain on-policy
// probability, and the ε-adjusted sampling probability used to unbias
// the estimator.
func (s *MCCFRSolver[W, A, C, O]) epsilonOnPolicySample(policy *ActionPolicy[A]) (a A, onPolicyProb, samplingProb float64) {
	actions := policy.Actions()
	eps := s.cfg.Epsilon
	if s.rng.Float64() < eps {
		a = actions[s.rng.Intn(len(actions))]
	} else {
		a, _ = s.onPolicySample(policy)
	}
	onPolicyProb = policy.Get(a)
	samplingProb = eps/float64(len(actions)) + (1-eps)*onPolicyProb
	return a, onPolicyProb, samplingProb
}

// sampleChance draws a chance outcome according to ChanceProbability and
// returns it along with that probability.
func (s *MCCFRSolver[W, A, C, O]) sampleChance(w W) (o C, prob float64) {
	outcomes := s.Env().ChanceActions(w)
	r := s.rng.Float64()
	cum := 0.0
	for _, out := range outcomes {
		p := s.Env().ChanceProbability(w, out)
		cum += p
		if r < cum {
			return out, p
		}
	}
	last := outcomes[len(outcomes)-1]
	return last, s.Env().ChanceProbability(w, last)
}

func (s *MCCFRSolver[W, A, C, O]) currentPolicyFromRegret(p Player, key string, actions []A) (*ActionPolicy[A], error) {
	data := s.InfoStates(p).Emplace(key, actions)
	policy := s.CurrentPolicyAt(p, key, actions)
	var err error
	if s.cfg.Algorithm != OutcomeSampling {
		return policy, nil
	}
	out := ZeroPolicy(actions)
	err = ApplyRegretMatching(data, &out)
	if err != nil {
		return nil, err
	}
	out.Range(func(a A, w float64) bool {
		policy.Set(a, w)
		return true
	})
	return policy, nil
}

func (s *MCCFRSolver[W, A, C, O]) markTouched(p Player, key string) {
	if s.toUpdate[p] == nil {
		s.toUpdate[p] = make(map[string]struct{})
	}
	s.toUpdate[p][key] = struct{}{}
}

// applyDelayedRegretMatching runs regret matching for every infoset
// touched this iteration (external sampling, pure CFR) and clears the
// touched set.
func (s *MCCFRSolver[W, A, C, O]) applyDelayedRegretMatching() error {
	for p, keys := range s.toUpdate {
		table := s.InfoStates(p)
		for key := range keys {
			data, ok := table.Lookup(key)
			if !ok {
				continue
			}
			actions := data.Actions()
			policy := s.CurrentPolicyAt(p, key, actions)
			out := ZeroPolicy(actions)
			if err := ApplyRegretMatching(data, &out); err != nil {
				return err
			}
			out.Range(func(a A, w float64) bool {
				policy.Set(a, w)
				return true
			})
		}
	}
	s.toUpdate = make(map[Player]map[string]struct{})
	return nil
}
