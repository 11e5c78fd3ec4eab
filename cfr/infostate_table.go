package cfr

// InfoStateData is the per-infoset record created on first visit of an
// infoset during traversal. Its action list is fixed at creation and is
// identical for every world state that maps to the owning infoset;
// callers must not pass a different action list to a later Emplace of the
// same key.
//
// The optional auxiliary slices (LazyWeight, InstantRegret, AvgDenom) are
// allocated on first use by the algorithm that needs them so plain
// vanilla/uniform runs do not pay for storage only MCCFR or exponential
// weighting use.
type InfoStateData[A comparable] struct {
	actions  []A
	index    map[A]int
	regret   []float64

	// LazyWeight holds outcome-sampling's per-action delayed weight.
	LazyWeight []float64
	// LastVisit holds optimistic-weighting's last-visit iteration, -1
	// until the infoset's first update.
	LastVisit int
	// SampledAction holds pure CFR's per-iteration sampled action index
	// into actions, -1 when cleared at an iteration boundary.
	SampledAction int
	// InstantRegret holds exponential-CFR and RBP's per-action
	// instantaneous regret r̃(I,a), reset after each traversal consumes
	// it.
	InstantRegret []float64
	// ReachProb holds exponential-CFR's most recent π^t(I).
	ReachProb float64
	// AvgDenom holds exponential-CFR's per-action average-policy
	// denominator Σ_t π^t(I)·exp(L1^t(I,a)).
	AvgDenom []float64
}

func newInfoStateData[A comparable](actions []A) *InfoStateData[A] {
	index := make(map[A]int, len(actions))
	for i, a := range actions {
		index[a] = i
	}
	return &InfoStateData[A]{
		actions:       actions,
		index:         index,
		regret:        make([]float64, len(actions)),
		LastVisit:     -1,
		SampledAction: -1,
	}
}

// Actions returns the infoset's fixed legal-action list, in the order the
// Environment first returned it.
func (d *InfoStateData[A]) Actions() []A {
	return d.actions
}

// Regret returns the cumulative counterfactual regret for action a. It
// panics if a is not legal at this infoset.
func (d *InfoStateData[A]) Regret(a A) float64 {
	return d.regret[d.mustIndex(a)]
}

// SetRegret overwrites the cumulative counterfactual regret for action a.
func (d *InfoStateData[A]) SetRegret(a A, v float64) {
	d.regret[d.mustIndex(a)] = v
}

// AddRegret adds delta to the cumulative counterfactual regret for action
// a.
func (d *InfoStateData[A]) AddRegret(a A, delta float64) {
	d.regret[d.mustIndex(a)] += delta
}

// RegretVector returns the dense regret vector in action-list order. The
// returned slice aliases internal storage; callers must not retain it
// across a mutating call.
func (d *InfoStateData[A]) RegretVector() []float64 {
	return d.regret
}

func (d *InfoStateData[A]) mustIndex(a A) int {
	i, ok := d.index[a]
	if !ok {
		panic("cfr: action not legal at this infostate")
	}
	return i
}

func (d *InfoStateData[A]) ensureLazyWeight() []float64 {
	if d.LazyWeight == nil {
		d.LazyWeight = make([]float64, len(d.actions))
	}
	return d.LazyWeight
}

func (d *InfoStateData[A]) ensureInstantRegret() []float64 {
	if d.InstantRegret == nil {
		d.InstantRegret = make([]float64, len(d.actions))
	}
	return d.InstantRegret
}

func (d *InfoStateData[A]) ensureAvgDenom() []float64 {
	if d.AvgDenom == nil {
		d.AvgDenom = make([]float64, len(d.actions))
	}
	return d.AvgDenom
}

// InfoStateTable is the core's per-infoset storage, keyed by the
// structural identity of an InfoState (see InfoState.Key). It is not
// safe for concurrent use; a solver owns exactly one.
type InfoStateTable[A comparable] struct {
	byKey map[string]*InfoStateData[A]
}

// NewInfoStateTable returns an empty table.
func NewInfoStateTable[A comparable]() *InfoStateTable[A] {
	return &InfoStateTable[A]{byKey: make(map[string]*InfoStateData[A])}
}

// Emplace returns the InfoStateData for key, creating it with actions if
// this is the first visit. Re-emplacing a key that already exists is a
// no-op that returns the existing record; it does not validate that
// actions matches the stored list, matching the invariant that every
// world state mapping to the same infoset has the same legal actions.
func (t *InfoStateTable[A]) Emplace(key string, actions []A) *InfoStateData[A] {
	if d, ok := t.byKey[key]; ok {
		return d
	}
	d := newInfoStateData(actions)
	t.byKey[key] = d
	return d
}

// Lookup returns the InfoStateData for key and whether it was present.
func (t *InfoStateTable[A]) Lookup(key string) (*InfoStateData[A], bool) {
	d, ok := t.byKey[key]
	return d, ok
}

// Len returns the number of distinct infosets recorded.
func (t *InfoStateTable[A]) Len() int {
	return len(t.byKey)
}

// Keys returns all recorded infoset keys. Order is unspecified.
func (t *InfoStateTable[A]) Keys() []string {
	keys := make([]string, 0, len(t.byKey))
	for k := range t.byKey {
		keys = append(keys, k)
	}
	return keys
}
