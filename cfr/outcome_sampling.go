package cfr

// outcomeSamplingIteration runs one outcome-sampling MCCFR iteration: a
// single trajectory, current policy refreshed by regret matching on
// every visit, regrets updated via the importance-weighted estimator.
func (s *MCCFRSolver[W, A, C, O]) outcomeSamplingIteration(updating Player) (map[Player]float64, error) {
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
	return s.osTraverse(NextWorldState(CloneEachStep, s.Root()), reach, 1, infostates, buf, updating, t)
}

func (s *MCCFRSolver[W, A, C, O]) osTraverse(
	w W,
	reach map[Player]float64,
	qSoFar float64,
	infostates map[Player]InfoState[O],
	buf PendingObservations[O],
	updating Player,
	t int,
) (map[Player]float64, error) {
	if s.Env().IsTerminal(w) {
		out := make(map[Player]float64, len(s.Players()))
		for _, p := range s.Players() {
			out[p] = s.Env().Reward(p, w) / qSoFar
		}
		return out, nil
	}

	active := s.Env().ActivePlayer(w)
	players := s.Players()

	if active == Chance {
		o, prob := s.sampleChance(w)
		wPrime := w
		s.Env().TransitionChance(wPrime, o)
		childReach := cloneFloatMap(reach)
		childReach[Chance] *= prob
		AdvanceInfoStates(buf, infostates, players, Chance,
			s.Env().PublicObservationChance(w, wPrime, o),
			func(p Player) O { return s.Env().PrivateObservationChance(p, w, wPrime, o) })
		return s.osTraverse(wPrime, childReach, qSoFar*prob, infostates, buf, updating, t)
	}

	key := infostates[active].Key()
	actions := s.Env().Actions(active, w)
	policy, err := s.currentPolicyFromRegret(active, key, actions)
	if err != nil {
		return nil, err
	}
	data, _ := s.InfoStates(active).Lookup(key)

	participates := active == updating || s.UpdateMode() == Simultaneous

	var sampled A
	var onPolicyProb, samplingProb float64
	if participates && s.cfg.Exploration == EpsilonOnPolicyExploration {
		sampled, onPolicyProb, samplingProb = s.epsilonOnPolicySample(policy)
	} else {
		sampled, onPolicyProb = s.onPolicySample(policy)
		samplingProb = onPolicyProb
	}

	wPrime := w
	s.Env().TransitionAction(wPrime, sampled)
	childReach := cloneFloatMap(reach)
	childReach[active] *= onPolicyProb
	AdvanceInfoStates(buf, infostates, players, active,
		s.Env().PublicObservation(w, wPrime, sampled),
		func(p Player) O { return s.Env().PrivateObservation(p, w, wPrime, sampled) })

	childValue, err := s.osTraverse(wPrime, childReach, qSoFar*samplingProb, infostates, buf, updating, t)
	if err != nil {
		return nil, err
	}

	if participates {
		cfReach := counterfactualReach(reach, active)
		weight := childValue[active] * cfReach
		for _, a := range actions {
			var delta float64
			if a == sampled {
				delta = weight * (1 - onPolicyProb)
			} else {
				delta = -weight * policy.Get(a)
			}
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

		s.updateOutcomeSamplingAverage(active, key, actions, data, policy, reach[active], qSoFar, sampled, t)
	}

	return childValue, nil
}

func (s *MCCFRSolver[W, A, C, O]) updateOutcomeSamplingAverage(
	active Player,
	key string,
	actions []A,
	data *InfoStateData[A],
	policy *ActionPolicy[A],
	ownReach float64,
	qAtNode float64,
	sampled A,
	t int,
) {
	avg := s.AveragePolicyAt(active, key, actions)
	switch s.cfg.Weighting {
	case LazyMCWeighting:
		w := data.ensureLazyWeight()
		for i, a := range actions {
			avg.Add(a, (w[i]+ownReach)*policy.Get(a))
			if a == sampled {
				w[i] = 0
			} else {
				w[i] += ownReach
			}
		}
	case OptimisticMCWeighting:
		last := data.LastVisit
		if last < 0 {
			last = 0
		}
		mult := float64(t + 1 - last)
		for _, a := range actions {
			avg.Add(a, ownReach*policy.Get(a)*mult)
		}
		data.LastVisit = t
	default: // StochasticMCWeighting
		for _, a := range actions {
			avg.Add(a, ownReach*policy.Get(a)/qAtNode)
		}
	}
}
