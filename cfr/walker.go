package cfr

// TraversalMode selects how a traversal obtains the world state for each
// recursive step. CloneEachStep is the vanilla-CFR mode: every branch
// gets its own clone so siblings do not observe each other's mutations.
// SingleTrajectory is the Monte-Carlo mode: only one path is ever live at
// a time, so the walker may move (mutate in place) rather than clone.
type TraversalMode int

const (
	CloneEachStep TraversalMode = iota
	SingleTrajectory
)

// NextWorldState returns the world state a recursive step should descend
// into, honoring mode. In CloneEachStep it clones w before the caller
// applies a transition to the result; in SingleTrajectory it returns w
// unchanged for the caller to mutate directly.
func NextWorldState[W WorldState](mode TraversalMode, w W) W {
	if mode == CloneEachStep {
		return w.Clone().(W)
	}
	return w
}

// PendingObservations buffers, per player, the (public, private)
// observation pairs that player has not yet folded into their running
// InfoState because it was not their turn when those observations were
// produced. The tree walker drains a player's buffer into their InfoState
// the next time that player is about to act.
type PendingObservations[O comparable] map[Player][]ObservationPair[O]

// NewPendingObservations returns an empty buffer.
func NewPendingObservations[O comparable]() PendingObservations[O] {
	return make(PendingObservations[O])
}

// Buffer appends a (public, private) observation pair to player p's
// pending queue, to be drained the next time p acts.
func (b PendingObservations[O]) Buffer(p Player, pub, priv O) {
	b[p] = append(b[p], ObservationPair[O]{Public: pub, Private: priv})
}

// Drain appends every queued observation pair for p (oldest first) to
// infostate, in turn-order, clearing p's queue, and returns the extended
// InfoState. It does not append a transition's own freshest observation;
// callers append that separately after draining, matching the order
// "observations accumulated since last turn, then the transition's new
// observation".
func (b PendingObservations[O]) Drain(p Player, infostate InfoState[O]) InfoState[O] {
	for _, pair := range b[p] {
		infostate = infostate.Append(pair.Public, pair.Private)
	}
	delete(b, p)
	return infostate
}

// AdvanceInfoStates updates infostates and buf for one transition w -> w'
// taken by edge description (pub, privateOf). Every player other than
// active receives their observation buffered for later; active instead
// has its buffer drained and the new observation appended immediately,
// since active is about to be visited at w'. infostates and buf are
// mutated in place; callers that need the pre-transition values must
// clone them first.
func AdvanceInfoStates[O comparable](
	buf PendingObservations[O],
	infostates map[Player]InfoState[O],
	players []Player,
	active Player,
	publicObs O,
	privateOf func(p Player) O,
) {
	for _, p := range players {
		if !p.IsActual() {
			continue
		}
		priv := privateOf(p)
		if p == active {
			infostates[p] = buf.Drain(p, infostates[p])
			infostates[p] = infostates[p].Append(publicObs, priv)
			continue
		}
		buf.Buffer(p, publicObs, priv)
	}
}
