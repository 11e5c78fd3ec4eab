package cfr

import "fmt"

// ActionPolicy is an ordered mapping from action to non-negative weight.
// Its action order always matches the owning infoset's legal-action list.
type ActionPolicy[A comparable] struct {
	actions []A
	index   map[A]int
	weights []float64
}

// NewActionPolicy builds an ActionPolicy over actions with weights
// supplied by init (called once per action, in order). actions is shared,
// not copied; callers pass the infoset's canonical action slice.
func NewActionPolicy[A comparable](actions []A, init func(a A) float64) ActionPolicy[A] {
	index := make(map[A]int, len(actions))
	weights := make([]float64, len(actions))
	for i, a := range actions {
		index[a] = i
		if init != nil {
			weights[i] = init(a)
		}
	}
	return ActionPolicy[A]{actions: actions, index: index, weights: weights}
}

// UniformPolicy returns 1/|actions| for every legal action.
func UniformPolicy[A comparable](actions []A) ActionPolicy[A] {
	p := 1.0 / float64(len(actions))
	return NewActionPolicy(actions, func(A) float64 { return p })
}

// ZeroPolicy returns 0 for every legal action.
func ZeroPolicy[A comparable](actions []A) ActionPolicy[A] {
	return NewActionPolicy(actions, func(A) float64 { return 0 })
}

// Actions returns the policy's action list, in order.
func (p ActionPolicy[A]) Actions() []A {
	return p.actions
}

// Len returns the number of legal actions.
func (p ActionPolicy[A]) Len() int {
	return len(p.actions)
}

// Get returns the weight of action a. It panics if a is not legal here.
func (p ActionPolicy[A]) Get(a A) float64 {
	return p.weights[p.mustIndex(a)]
}

// Set overwrites the weight of action a.
func (p ActionPolicy[A]) Set(a A, v float64) {
	p.weights[p.mustIndex(a)] = v
}

// Add adds delta to the weight of action a.
func (p ActionPolicy[A]) Add(a A, delta float64) {
	p.weights[p.mustIndex(a)] += delta
}

// Range calls f for every (action, weight) pair in order, stopping early
// if f returns false.
func (p ActionPolicy[A]) Range(f func(a A, w float64) bool) {
	for i, a := range p.actions {
		if !f(a, p.weights[i]) {
			return
		}
	}
}

// Equal reports whether p and o assign identical weights to identical
// actions in the same order.
func (p ActionPolicy[A]) Equal(o ActionPolicy[A]) bool {
	if len(p.actions) != len(o.actions) {
		return false
	}
	for i, a := range p.actions {
		if o.actions[i] != a || p.weights[i] != o.weights[i] {
			return false
		}
	}
	return true
}

func (p ActionPolicy[A]) mustIndex(a A) int {
	i, ok := p.index[a]
	if !ok {
		panic("cfr: action not legal in this policy")
	}
	return i
}

// Normalize returns a new ActionPolicy with weights divided by their sum.
// It returns a wrapped ErrNonNormalizablePolicy if the weights sum to zero.
func Normalize[A comparable](p ActionPolicy[A]) (ActionPolicy[A], error) {
	sum := 0.0
	for _, w := range p.weights {
		sum += w
	}
	if sum == 0 {
		return ActionPolicy[A]{}, fmt.Errorf("%w: action policy weights sum to zero", ErrNonNormalizablePolicy)
	}
	out := NewActionPolicy(p.actions, nil)
	for i, w := range p.weights {
		out.weights[i] = w / sum
	}
	return out, nil
}

// DefaultPolicy builds the initial ActionPolicy for an infoset seen for
// the first time.
type DefaultPolicy[A comparable] func(actions []A) ActionPolicy[A]

// StatePolicy maps an infoset key to an ActionPolicy. Lookups insert a
// default-policy instance on miss and return a stable pointer so external
// references remain valid across further visits.
type StatePolicy[A comparable] struct {
	byKey map[string]*ActionPolicy[A]
	def   DefaultPolicy[A]
}

// NewStatePolicy returns an empty StatePolicy using def to materialize
// unseen infosets.
func NewStatePolicy[A comparable](def DefaultPolicy[A]) *StatePolicy[A] {
	return &StatePolicy[A]{byKey: make(map[string]*ActionPolicy[A]), def: def}
}

// At returns the stored ActionPolicy for key, materializing it over
// actions via the configured default policy on first access.
func (s *StatePolicy[A]) At(key string, actions []A) *ActionPolicy[A] {
	if p, ok := s.byKey[key]; ok {
		return p
	}
	p := s.def(actions)
	s.byKey[key] = &p
	return &p
}

// AtDefault is At using an explicitly supplied default policy instead of
// the one configured at construction, for callers materializing an
// infoset with a non-standard initial distribution.
func (s *StatePolicy[A]) AtDefault(key string, actions []A, def DefaultPolicy[A]) *ActionPolicy[A] {
	if p, ok := s.byKey[key]; ok {
		return p
	}
	p := def(actions)
	s.byKey[key] = &p
	return &p
}

// Lookup returns the stored ActionPolicy for key without materializing a
// default.
func (s *StatePolicy[A]) Lookup(key string) (*ActionPolicy[A], bool) {
	p, ok := s.byKey[key]
	return p, ok
}

// Normalized returns a normalized snapshot of the stored policy at key,
// without mutating the stored cumulative weights. It returns a wrapped
// ErrNonNormalizablePolicy if key is absent or its weights sum to zero.
func (s *StatePolicy[A]) Normalized(key string) (ActionPolicy[A], error) {
	p, ok := s.byKey[key]
	if !ok {
		return ActionPolicy[A]{}, fmt.Errorf("%w: infoset has no recorded policy", ErrNonNormalizablePolicy)
	}
	return Normalize(*p)
}

// Keys returns every infoset key with a recorded policy. Order is
// unspecified.
func (s *StatePolicy[A]) Keys() []string {
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of infosets with a recorded policy.
func (s *StatePolicy[A]) Len() int {
	return len(s.byKey)
}
