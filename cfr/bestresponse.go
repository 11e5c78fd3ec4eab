package cfr

import "fmt"

// BestResponsePolicy is a deterministic tabular policy: infoset key to
// single best-response action, the result of ComputeBestResponse.
type BestResponsePolicy[A comparable] struct {
	byKey map[string]A
}

// Action returns the best-response action recorded at key, and whether
// one was recorded (every infoset p visits during computation has one).
func (b *BestResponsePolicy[A]) Action(key string) (A, bool) {
	a, ok := b.byKey[key]
	return a, ok
}

// ComputeBestResponse builds player p's best response to opponents, the
// fixed profile of every other actual player (and Chance, via the
// environment). It returns the best-response policy and p's value
// against that profile.
//
// Because every world state consistent with one of p's infosets yields
// the same legal actions, best response is well-defined per infoset: the
// recursion accumulates, for each action at a p-owned infoset, the
// counterfactual-reach-weighted sum of child values across every world
// state sharing that infoset, then chooses the maximizing action once
// the whole subtree under the infoset has been visited.
func ComputeBestResponse[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	players []Player,
	p Player,
	opponents map[Player]*StatePolicy[A],
) (*BestResponsePolicy[A], float64, error) {
	br := &BestResponsePolicy[A]{byKey: make(map[string]A)}
	actionValues := make(map[string][]float64)
	actionLists := make(map[string][]A)

	infostates := make(map[Player]InfoState[O], len(players))
	for _, pl := range players {
		infostates[pl] = NewInfoState[O](pl)
	}
	buf := NewPendingObservations[O]()

	value, err := brRecurse(env, root, players, p, opponents, infostates, buf, 1.0, actionValues, actionLists)
	if err != nil {
		return nil, 0, err
	}
	for key, values := range actionValues {
		best := 0
		for i := 1; i < len(values); i++ {
			if values[i] > values[best] {
				best = i
			}
		}
		br.byKey[key] = actionLists[key][best]
	}
	return br, value, nil
}

func brRecurse[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	w W,
	players []Player,
	p Player,
	opponents map[Player]*StatePolicy[A],
	infostates map[Player]InfoState[O],
	buf PendingObservations[O],
	cfReach float64,
	actionValues map[string][]float64,
	actionLists map[string][]A,
) (float64, error) {
	if env.IsTerminal(w) {
		return env.Reward(p, w), nil
	}

	active := env.ActivePlayer(w)

	if active == Chance {
		outcomes := env.ChanceActions(w)
		total := 0.0
		for _, o := range outcomes {
			prob := env.ChanceProbability(w, o)
			if prob <= 0 {
				continue
			}
			wPrime := NextWorldState(CloneEachStep, w)
			env.TransitionChance(wPrime, o)
			childInfostates := cloneInfostates(infostates)
			childBuf := cloneBuffer(buf)
			AdvanceInfoStates(childBuf, childInfostates, players, Chance,
				env.PublicObservationChance(w, wPrime, o),
				func(pl Player) O { return env.PrivateObservationChance(pl, w, wPrime, o) })
			v, err := brRecurse(env, wPrime, players, p, opponents, childInfostates, childBuf, cfReach*prob, actionValues, actionLists)
			if err != nil {
				return 0, err
			}
			total += prob * v
		}
		return total, nil
	}

	actions := env.Actions(active, w)
	key := infostates[active].Key()

	if active == p {
		actionLists[key] = actions
		if _, ok := actionValues[key]; !ok {
			actionValues[key] = make([]float64, len(actions))
		}
		best := 0.0
		for i, a := range actions {
			wPrime := NextWorldState(CloneEachStep, w)
			env.TransitionAction(wPrime, a)
			childInfostates := cloneInfostates(infostates)
			childBuf := cloneBuffer(buf)
			AdvanceInfoStates(childBuf, childInfostates, players, active,
				env.PublicObservation(w, wPrime, a),
				func(pl Player) O { return env.PrivateObservation(pl, w, wPrime, a) })
			v, err := brRecurse(env, wPrime, players, p, opponents, childInfostates, childBuf, cfReach, actionValues, actionLists)
			if err != nil {
				return 0, err
			}
			actionValues[key][i] += cfReach * v
			if i == 0 || actionValues[key][i] > best {
				best = actionValues[key][i]
			}
		}
		return best, nil
	}

	policy, err := opponents[active].Normalized(key)
	if err != nil {
		policy = UniformPolicy(actions)
	}
	total := 0.0
	for _, a := range actions {
		weight := policy.Get(a)
		if weight <= 0 {
			continue
		}
		wPrime := NextWorldState(CloneEachStep, w)
		env.TransitionAction(wPrime, a)
		childInfostates := cloneInfostates(infostates)
		childBuf := cloneBuffer(buf)
		AdvanceInfoStates(childBuf, childInfostates, players, active,
			env.PublicObservation(w, wPrime, a),
			func(pl Player) O { return env.PrivateObservation(pl, w, wPrime, a) })
		v, err := brRecurse(env, wPrime, players, p, opponents, childInfostates, childBuf, cfReach, actionValues, actionLists)
		if err != nil {
			return 0, err
		}
		total += weight * v
	}
	return total, nil
}

// Exploitability computes exploitability of profile σ in a two-player
// zero-sum game: expl(σ) = v_1(BR_1(σ_2), σ_2) + v_2(σ_1, BR_2(σ_1)).
// It is non-negative and zero iff σ is a Nash equilibrium.
func Exploitability[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	players []Player,
	profile map[Player]*StatePolicy[A],
) (float64, error) {
	if len(players) != 2 {
		return 0, fmt.Errorf("%w: exploitability is defined for two-player games", ErrInvalidConfiguration)
	}
	total := 0.0
	for _, p := range players {
		_, v, err := ComputeBestResponse(env, root, players, p, profile)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
