package cfr

// chanceSamplingIteration runs one chance-sampling MCCFR iteration:
// identical to vanilla CFR's full enumeration at decision nodes, but a
// single outcome is sampled at each chance node instead of enumerating
// them all.
func (s *MCCFRSolver[W, A, C, O]) chanceSamplingIteration(updating Player) (map[Player]float64, error) {
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
	return s.csTraverse(s.Root(), reach, infostates, buf, updating)
}

func (s *MCCFRSolver[W, A, C, O]) csTraverse(
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
		childReach := cloneFloatMap(reach)
		childReach[Chance] *= prob
		childInfostates := cloneInfostates(infostates)
		childBuf := cloneBuffer(buf)
		AdvanceInfoStates(childBuf, childInfostates, players, Chance,
			s.Env().PublicObservationChance(w, wPrime, o),
			func(p Player) O { return s.Env().PrivateObservationChance(p, w, wPrime, o) })
		return s.csTraverse(wPrime, childReach, childInfostates, childBuf, updating)
	}

	key := infostates[active].Key()
	actions := s.Env().Actions(active, w)
	data := s.InfoStates(active).Emplace(key, actions)
	policy := s.CurrentPolicyAt(active, key, actions)

	childValues := make([]map[Player]float64, len(actions))
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
		cv, err := s.csTraverse(wPrime, childReach, childInfostates, childBuf, updating)
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

	if active == updating || s.UpdateMode() == Simultaneous {
		cfReach := counterfactualReach(reach, active)
		for i, a := range actions {
			delta := cfReach * (childValues[i][active] - value[active])
			data.AddRegret(a, delta)
		}
		out := ZeroPolicy(actions)
		if err := ApplyRegretMatching(data, &out); err != nil {
			return nil, err
		}
		out.Range(func(a A, w float64) bool {
			policy.Set(a, w)
			return true
		})
		avg := s.AveragePolicyAt(active, key, actions)
		for _, a := range actions {
			avg.Add(a, reach[active]*policy.Get(a))
		}
	}

	return value, nil
}
