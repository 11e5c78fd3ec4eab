package cfr

import (
	"fmt"
	"math"
)

// VanillaSolver runs the full-tree CFR family: uniform, linear,
// discounted, and exponential weighting, regret matching or regret
// matching plus, with optional pruning. Each iterate() call walks the
// entire game tree from the root exactly once.
type VanillaSolver[W WorldState, A comparable, C comparable, O comparable] struct {
	*Base[W, A, C, O]
	cfg CFRConfig
	// touched accumulates, for the in-progress iteration, the infoset
	// keys exponential weighting must finalize once the whole tree has
	// been visited (see finalizeExponential).
	touched map[Player]map[string]struct{}
}

// NewVanillaSolver constructs a vanilla CFR run. See NewBase for the
// meaning of the shared parameters; cfg selects the weighting, regret
// kernel, and pruning mode.
func NewVanillaSolver[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	players []Player,
	currentPolicy map[Player]*StatePolicy[A],
	averagePolicy map[Player]*StatePolicy[A],
	cfg CFRConfig,
) (*VanillaSolver[W, A, C, O], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := NewBase(env, root, players, cfg.UpdateMode, currentPolicy, averagePolicy)
	if err != nil {
		return nil, err
	}
	return &VanillaSolver[W, A, C, O]{Base: base, cfg: cfg, touched: make(map[Player]map[string]struct{})}, nil
}

// Iterate runs n iterations, returning the per-player root value
// computed during each one.
func (s *VanillaSolver[W, A, C, O]) Iterate(n int) ([]map[Player]float64, error) {
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

// IterateOne runs a single iteration. In Alternating mode it updates the
// schedule head and rotates the schedule; in Simultaneous mode it updates
// every player.
func (s *VanillaSolver[W, A, C, O]) IterateOne() (map[Player]float64, error) {
	var updating Player
	if s.UpdateMode() == Alternating {
		updating = s.PlayerToUpdate()
	} else {
		updating = Unknown
	}
	if s.UpdateMode() == Alternating && updating == Chance {
		return nil, fmt.Errorf("%w: chance cannot be the player to update", ErrInvalidConfiguration)
	}

	reach := make(map[Player]float64, len(s.Players())+1)
	for _, p := range s.Players() {
		reach[p] = 1
	}
	reach[Chance] = 1

	infostates := make(map[Player]InfoState[O], len(s.Players()))
	for _, p := range s.Players() {
		infostates[p] = NewInfoState[O](p)
	}
	buf := NewPendingObservations[O]()

	t := s.Iteration() + 1
	if s.cfg.Weighting == ExponentialWeighting {
		s.touched = make(map[Player]map[string]struct{})
	}
	value, err := s.traverse(s.Root(), reach, infostates, buf, updating, t)
	if err != nil {
		return nil, err
	}
	if s.cfg.Weighting == ExponentialWeighting {
		s.finalizeExponential(t)
	}
	if s.UpdateMode() == Alternating {
		s.CyclePlayerToUpdate()
	}
	s.incrementIteration()
	return value, nil
}

// finalizeExponential applies exponential CFR's end-of-iteration
// cumulative-regret and average-policy update to every infoset touched
// during the just-completed traversal.
func (s *VanillaSolver[W, A, C, O]) finalizeExponential(t int) {
	for player, keys := range s.touched {
		table := s.InfoStates(player)
		for key := range keys {
			data, ok := table.Lookup(key)
			if !ok {
				continue
			}
			actions := data.Actions()
			instant := data.ensureInstantRegret()

			mean := 0.0
			for _, v := range instant {
				mean += v
			}
			mean /= float64(len(instant))

			l1 := make([]float64, len(instant))
			for i, v := range instant {
				l1[i] = math.Exp(v - mean)
			}

			for i := range instant {
				contribution := instant[i]
				if contribution < 0 && s.cfg.Exponential.Beta != nil {
					contribution = s.cfg.Exponential.Beta(instant[i], t)
				}
				data.AddRegret(actions[i], l1[i]*contribution)
				instant[i] = 0
			}

			policy := s.CurrentPolicyAt(player, key, actions)
			out := ZeroPolicy(actions)
			var err error
			if s.cfg.RegretMode == RegretMatchingPlusMode {
				err = ApplyRegretMatchingPlus(data, &out)
			} else {
				err = ApplyRegretMatching(data, &out)
			}
			if err == nil {
				out.Range(func(a A, w float64) bool {
					policy.Set(a, w)
					return true
				})
			}

			denom := data.ensureAvgDenom()
			avg := s.AveragePolicyAt(player, key, actions)
			for i, a := range actions {
				denom[i] += l1[i] * data.ReachProb
				avg.Add(a, l1[i]*data.ReachProb*policy.Get(a))
			}
		}
	}
}

// GameValue runs one evaluation traversal using the normalized average
// policy, with no table updates, and returns the expected value per
// player at the root.
func (s *VanillaSolver[W, A, C, O]) GameValue() (map[Player]float64, error) {
	reach := make(map[Player]float64, len(s.Players())+1)
	for _, p := range s.Players() {
		reach[p] = 1
	}
	reach[Chance] = 1
	infostates := make(map[Player]InfoState[O], len(s.Players()))
	for _, p := range s.Players() {
		infostates[p] = NewInfoState[O](p)
	}
	buf := NewPendingObservations[O]()
	return s.evaluate(s.Root(), reach, infostates, buf)
}

func (s *VanillaSolver[W, A, C, O]) updatesPlayer(active, updating Player) bool {
	if s.UpdateMode() == Simultaneous {
		return true
	}
	return active == updating
}

func (s *VanillaSolver[W, A, C, O]) traverse(
	w W,
	reach map[Player]float64,
	infostates map[Player]InfoState[O],
	buf PendingObservations[O],
	updating Player,
	t int,
) (map[Player]float64, error) {
	if s.Env().IsTerminal(w) {
		return s.terminalValue(w), nil
	}

	active := s.Env().ActivePlayer(w)
	if active == Chance {
		return s.traverseChanceEdges(w, reach, infostates, buf, updating, t, s.traverse)
	}

	if s.cfg.Pruning == PartialPruning && s.partiallyPruned(reach, active, updating) {
		return s.zeroValue(), nil
	}

	key := infostates[active].Key()
	actions := s.Env().Actions(active, w)
	data := s.InfoStates(active).Emplace(key, actions)
	policy := s.CurrentPolicyAt(active, key, actions)

	childValues := make([]map[Player]float64, len(actions))
	players := s.Players()
	for i, a := range actions {
		wPrime := NextWorldState(CloneEachStep, w)
		s.Env().TransitionAction(wPrime, a)

		childReach := cloneFloatMap(reach)
		childReach[active] *= policy.Get(a)

		childInfostates := cloneInfostates(infostates)
		childBuf := cloneBuffer(buf)
		AdvanceInfoStates(childBuf, childInfostates, players, active,
			s.Env().PublicObservation(w, wPrime, a),
			func(p Player) O { return s.Env().PrivateObservation(p, w, wPrime, a) })

		cv, err := s.traverse(wPrime, childReach, childInfostates, childBuf, updating, t)
		if err != nil {
			return nil, err
		}
		childValues[i] = cv
	}

	value := s.zeroValue()
	for i, a := range actions {
		p := policy.Get(a)
		for _, pl := range players {
			value[pl] += p * childValues[i][pl]
		}
	}

	if s.updatesPlayer(active, updating) {
		cfReach := counterfactualReach(reach, active)
		if err := s.updateRegret(data, active, policy, childValues, value[active], cfReach, reach[active], t); err != nil {
			return nil, err
		}
		if s.cfg.Weighting == ExponentialWeighting {
			if s.touched[active] == nil {
				s.touched[active] = make(map[string]struct{})
			}
			s.touched[active][key] = struct{}{}
		} else {
			s.updateAveragePolicy(active, key, actions, policy, reach[active], t)
		}
	}
	return value, nil
}

// traverseChanceEdges enumerates chance outcomes and recurses via recurse,
// which is passed in so the training traversal and evaluate can share
// this chance-node handling without re-implementing it.
func (s *VanillaSolver[W, A, C, O]) traverseChanceEdges(
	w W,
	reach map[Player]float64,
	infostates map[Player]InfoState[O],
	buf PendingObservations[O],
	updating Player,
	t int,
	recurse func(W, map[Player]float64, map[Player]InfoState[O], PendingObservations[O], Player, int) (map[Player]float64, error),
) (map[Player]float64, error) {
	outcomes := s.Env().ChanceActions(w)
	players := s.Players()
	value := s.zeroValue()
	for _, o := range outcomes {
		prob := s.Env().ChanceProbability(w, o)
		if prob <= 0 {
			continue
		}
		wPrime := NextWorldState(CloneEachStep, w)
		s.Env().TransitionChance(wPrime, o)

		childReach := cloneFloatMap(reach)
		childReach[Chance] *= prob

		childInfostates := cloneInfostates(infostates)
		childBuf := cloneBuffer(buf)
		AdvanceInfoStates(childBuf, childInfostates, players, Chance,
			s.Env().PublicObservationChance(w, wPrime, o),
			func(p Player) O { return s.Env().PrivateObservationChance(p, w, wPrime, o) })

		cv, err := recurse(wPrime, childReach, childInfostates, childBuf, updating, t)
		if err != nil {
			return nil, err
		}
		for _, p := range players {
			value[p] += prob * cv[p]
		}
	}
	return value, nil
}

// evaluate is GameValue's traversal: it uses the normalized average
// policy and performs no table updates.
func (s *VanillaSolver[W, A, C, O]) evaluate(
	w W,
	reach map[Player]float64,
	infostates map[Player]InfoState[O],
	buf PendingObservations[O],
) (map[Player]float64, error) {
	if s.Env().IsTerminal(w) {
		return s.terminalValue(w), nil
	}
	active := s.Env().ActivePlayer(w)
	if active == Chance {
		return s.traverseChanceEdges(w, reach, infostates, buf, Unknown, 0,
			func(w W, r map[Player]float64, i map[Player]InfoState[O], b PendingObservations[O], _ Player, _ int) (map[Player]float64, error) {
				return s.evaluate(w, r, i, b)
			})
	}

	key := infostates[active].Key()
	actions := s.Env().Actions(active, w)
	policy, err := s.AveragePolicyTable(active).Normalized(key)
	if err != nil {
		policy = UniformPolicy(actions)
	}

	players := s.Players()
	value := s.zeroValue()
	for _, a := range actions {
		wPrime := NextWorldState(CloneEachStep, w)
		s.Env().TransitionAction(wPrime, a)

		childInfostates := cloneInfostates(infostates)
		childBuf := cloneBuffer(buf)
		AdvanceInfoStates(childBuf, childInfostates, players, active,
			s.Env().PublicObservation(w, wPrime, a),
			func(p Player) O { return s.Env().PrivateObservation(p, w, wPrime, a) })

		cv, err := s.evaluate(wPrime, reach, childInfostates, childBuf)
		if err != nil {
			return nil, err
		}
		weight := policy.Get(a)
		for _, pl := range players {
			value[pl] += weight * cv[pl]
		}
	}
	return value, nil
}

func (s *VanillaSolver[W, A, C, O]) updateRegret(
	data *InfoStateData[A],
	active Player,
	policy *ActionPolicy[A],
	childValues []map[Player]float64,
	ownValue float64,
	cfReach float64,
	ownReach float64,
	t int,
) error {
	actions := data.Actions()
	switch s.cfg.Weighting {
	case DiscountedWeighting:
		w := s.cfg.Discount
		tf := float64(t)
		for _, a := range actions {
			r := data.Regret(a)
			exp := w.Alpha
			if r <= 0 {
				exp = w.Beta
			}
			factor := math.Pow(tf, exp) / (math.Pow(tf, exp) + 1)
			data.SetRegret(a, r*factor)
		}
	case ExponentialWeighting:
		// Instantaneous regret accumulates; the weighted cumulative
		// update happens once per iteration in finalizeExponential.
		instant := data.ensureInstantRegret()
		for i := range actions {
			delta := cfReach * (childValues[i][active] - ownValue)
			instant[i] += delta
		}
		data.ReachProb = ownReach
		return nil
	}

	for i, a := range actions {
		delta := cfReach * (childValues[i][active] - ownValue)
		data.AddRegret(a, delta)
	}

	var out ActionPolicy[A]
	if s.cfg.RegretMode == RegretMatchingPlusMode {
		out = ZeroPolicy(actions)
		if err := ApplyRegretMatchingPlus(data, &out); err != nil {
			return err
		}
	} else {
		out = ZeroPolicy(actions)
		if err := ApplyRegretMatching(data, &out); err != nil {
			return err
		}
	}
	out.Range(func(a A, w float64) bool {
		policy.Set(a, w)
		return true
	})
	return nil
}

func (s *VanillaSolver[W, A, C, O]) updateAveragePolicy(active Player, key string, actions []A, policy *ActionPolicy[A], ownReach float64, t int) {
	avg := s.AveragePolicyAt(active, key, actions)
	switch s.cfg.Weighting {
	case LinearWeighting:
		scaleAndAdd(avg, actions, float64(t)/float64(t+1), ownReach, policy)
	case DiscountedWeighting:
		gammaFactor := math.Pow(float64(t)/float64(t+1), s.cfg.Discount.Gamma)
		scaleAndAdd(avg, actions, gammaFactor, ownReach, policy)
	default:
		for _, a := range actions {
			avg.Add(a, ownReach*policy.Get(a))
		}
	}
}

func scaleAndAdd[A comparable](avg *ActionPolicy[A], actions []A, scale, ownReach float64, policy *ActionPolicy[A]) {
	for _, a := range actions {
		avg.Set(a, avg.Get(a)*scale+ownReach*policy.Get(a))
	}
}

func (s *VanillaSolver[W, A, C, O]) partiallyPruned(reach map[Player]float64, active, updating Player) bool {
	if s.UpdateMode() == Alternating {
		if reach[updating] != 0 {
			return false
		}
		for _, p := range s.Players() {
			if p == updating {
				continue
			}
			if reach[p] == 0 {
				return true
			}
		}
		return false
	}
	for _, p := range s.Players() {
		if reach[p] != 0 {
			return false
		}
	}
	return true
}

func (s *VanillaSolver[W, A, C, O]) terminalValue(w W) map[Player]float64 {
	out := make(map[Player]float64, len(s.Players()))
	for _, p := range s.Players() {
		out[p] = s.Env().Reward(p, w)
	}
	return out
}

func (s *VanillaSolver[W, A, C, O]) zeroValue() map[Player]float64 {
	out := make(map[Player]float64, len(s.Players()))
	for _, p := range s.Players() {
		out[p] = 0
	}
	return out
}

func counterfactualReach(reach map[Player]float64, excluding Player) float64 {
	product := 1.0
	for p, r := range reach {
		if p == excluding {
			continue
		}
		product *= r
	}
	return product
}

func cloneFloatMap(m map[Player]float64) map[Player]float64 {
	out := make(map[Player]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneInfostates[O comparable](m map[Player]InfoState[O]) map[Player]InfoState[O] {
	out := make(map[Player]InfoState[O], len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneBuffer[O comparable](b PendingObservations[O]) PendingObservations[O] {
	out := make(PendingObservations[O], len(b))
	for k, v := range b {
		cp := make([]ObservationPair[O], len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
