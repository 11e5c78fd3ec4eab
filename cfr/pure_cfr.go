package cfr

// pureCFRIteration runs one Pure CFR iteration. A single action is
// sampled on first visit of each decision infoset this iteration and
// reused for every later history mapping to the same infoset, cleared
// again at the next iteration boundary.
//
// In alternating mode the traverser enumerates all actions exactly like
// external sampling while opponents follow their cached pure action. In
// simultaneous mode there is no traverser/opponent distinction, so this
// collapses to chance-sampling traversal (full enumeration at every
// decision node, one sampled chance outcome) — see DESIGN.md for why
// that is the chosen reading of the source's simultaneous-mode pure CFR.
func (s *MCCFRSolver[W, A, C, O]) pureCFRIteration(updating Player) (map[Player]float64, error) {
	s.sampledThisIter = make(map[Player]map[string]struct{})
	defer s.clearSampledActions()

	if s.UpdateMode() == Simultaneous {
		return s.chanceSamplingIteration(updating)
	}

	infostates := make(map[Player]InfoState[O], len(s.Players()))
	for _, p := range s.Players() {
		infostates[p] = NewInfoState[O](p)
	}
	buf := NewPendingObservations[O]()
	value, err := s.pureTraverse(s.Root(), infostates, buf, updating)
	if err != nil {
		return nil, err
	}
	if err := s.applyDelayedRegretMatching(); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *MCCFRSolver[W, A, C, O]) clearSampledActions() {
	for p, keys := range s.sampledThisIter {
		table := s.InfoStates(p)
		for key := range keys {
			if data, ok := table.Lookup(key); ok {
				data.SampledAction = -1
			}
		}
	}
}

func (s *MCCFRSolver[W, A, C, O]) pureTraverse(
	w W,
	infostates map[Player]InfoState[O],
	buf PendingObservations[O],
	updating Player,
) (map[Player]float64, error) {
	if s.Env().IsTerminal(w) {
		return s.esTerminalValue(w), nil
	}

	active := s.Env().ActivePlayer(w)
	players := s.Players()

	if active == Chance {
		o, _ := s.sampleChance(w)
		wPrime := NextWorldState(CloneEachStep, w)
		s.Env().TransitionChance(wPrime, o)
		childInfostates := cloneInfostates(infostates)
		childBuf := cloneBuffer(buf)
		AdvanceInfoStates(childBuf, childInfostates, players, Chance,
			s.Env().PublicObservationChance(w, wPrime, o),
			func(p Player) O { return s.Env().PrivateObservationChance(p, w, wPrime, o) })
		return s.pureTraverse(wPrime, childInfostates, childBuf, updating)
	}

	key := infostates[active].Key()
	actions := s.Env().Actions(active, w)
	data := s.InfoStates(active).Emplace(key, actions)
	policy := s.CurrentPolicyAt(active, key, actions)

	if active == updating {
		childValues := make([]map[Player]float64, len(actions))
		for i, a := range actions {
			wPrime := NextWorldState(CloneEachStep, w)
			s.Env().TransitionAction(wPrime, a)
			childInfostates := cloneInfostates(infostates)
			childBuf := cloneBuffer(buf)
			AdvanceInfoStates(childBuf, childInfostates, players, active,
				s.Env().PublicObservation(w, wPrime, a),
				func(p Player) O { return s.Env().PrivateObservation(p, w, wPrime, a) })
			cv, err := s.pureTraverse(wPrime, childInfostates, childBuf, updating)
			if err != nil {
				return nil, err
			}
			childValues[i] = cv
		}
		value := make(map[Player]float64, len(players))
		for _, p := range players {
			value[p] = 0
		}
		for i, a := range actions {
			w := policy.Get(a)
			for _, p := range players {
				value[p] += w * childValues[i][p]
			}
		}
		for i, a := range actions {
			data.AddRegret(a, childValues[i][active]-value[active])
		}
		s.markTouched(active, key)
		return value, nil
	}

	sampled := s.purePickAction(active, key, actions, policy, data)
	wPrime := NextWorldState(CloneEachStep, w)
	s.Env().TransitionAction(wPrime, sampled)
	childInfostates := cloneInfostates(infostates)
	childBuf := cloneBuffer(buf)
	AdvanceInfoStates(childBuf, childInfostates, players, active,
		s.Env().PublicObservation(w, wPrime, sampled),
		func(p Player) O { return s.Env().PrivateObservation(p, w, wPrime, sampled) })
	return s.pureTraverse(wPrime, childInfostates, childBuf, updating)
}

func (s *MCCFRSolver[W, A, C, O]) purePickAction(p Player, key string, actions []A, policy *ActionPolicy[A], data *InfoStateData[A]) A {
	if data.SampledAction >= 0 {
		return actions[data.SampledAction]
	}
	a, _ := s.onPolicySample(policy)
	for i, cand := range actions {
		if cand == a {
			data.SampledAction = i
			break
		}
	}
	if s.sampledThisIter[p] == nil {
		s.sampledThisIter[p] = make(map[string]struct{})
	}
	s.sampledThisIter[p][key] = struct{}{}
	return a
}
