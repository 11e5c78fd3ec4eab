package cfr

// externalSamplingIteration runs one external-sampling MCCFR iteration.
// External sampling only supports alternating updates with stochastic
// weighting (enforced by MCCFRConfig.Validate).
func (s *MCCFRSolver[W, A, C, O]) externalSamplingIteration(updating Player) (map[Player]float64, error) {
	infostates := make(map[Player]InfoState[O], len(s.Players()))
	for _, p := range s.Players() {
		infostates[p] = NewInfoState[O](p)
	}
	buf := NewPendingObservations[O]()
	reach := make(map[Player]float64, len(s.Players())+1)
	for _, p := range s.Players() {
		reach[p] = 1
	}
	reach[Chance] = 1

	value, err := s.esTraverse(s.Root(), reach, infostates, buf, updating)
	if err != nil {
		return nil, err
	}
	if err := s.applyDelayedRegretMatching(); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *MCCFRSolver[W, A, C, O]) esTraverse(
	w W,
	reach map[Player]float64,
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
		o, prob := s.sampleChance(w)
		wPrime := NextWorldState(CloneEachStep, w)
		s.Env().TransitionChance(wPrime, o)
		childInfostates := cloneInfostates(infostates)
		childBuf := cloneBuffer(buf)
		AdvanceInfoStates(childBuf, childInfostates, players, Chance,
			s.Env().PublicObservationChance(w, wPrime, o),
			func(p Player) O { return s.Env().PrivateObservationChance(p, w, wPrime, o) })
		_ = prob
		return s.esTraverse(wPrime, reach, childInfostates, childBuf, updating)
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
			cv, err := s.esTraverse(wPrime, reach, childInfostates, childBuf, updating)
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
			delta := childValues[i][active] - value[active]
			data.AddRegret(a, delta)
		}
		s.markTouched(active, key)
		return value, nil
	}

	sampled, onPolicyProb := s.onPolicySample(policy)
	wPrime := NextWorldState(CloneEachStep, w)
	s.Env().TransitionAction(wPrime, sampled)
	childInfostates := cloneInfostates(infostates)
	childBuf := cloneBuffer(buf)
	AdvanceInfoStates(childBuf, childInfostates, players, active,
		s.Env().PublicObservation(w, wPrime, sampled),
		func(p Player) O { return s.Env().PrivateObservation(p, w, wPrime, sampled) })

	if s.Base.NextPlayerToUpdate() == active {
		avg := s.AveragePolicyAt(active, key, actions)
		for _, a := range actions {
			avg.Add(a, policy.Get(a))
		}
	}
	_ = onPolicyProb

	return s.esTraverse(wPrime, reach, childInfostates, childBuf, updating)
}

func (s *MCCFRSolver[W, A, C, O]) esTerminalValue(w W) map[Player]float64 {
	out := make(map[Player]float64, len(s.Players()))
	for _, p := range s.Players() {
		out[p] = s.Env().Reward(p, w)
	}
	return out
}
