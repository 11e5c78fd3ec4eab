// Package runtime exposes read-only access to a trained blueprint for
// sampling actions during live play, without pulling in the solver's
// regret tables or traversal machinery.
package runtime

import (
	"errors"

	randv2 "math/rand/v2"

	"github.com/lox/cfrsolver/cfr"
	"github.com/lox/cfrsolver/internal/randutil"
)

// Policy is a read-only view over a loaded Blueprint.
type Policy[A comparable] struct {
	blueprint *cfr.Blueprint[A]
	rng       *randv2.Rand
}

// Load constructs a runtime policy from a stored blueprint file, seeding
// its sampler deterministically from seed.
func Load[A comparable](path string, seed int64) (*Policy[A], error) {
	bp, err := cfr.LoadBlueprint[A](path)
	if err != nil {
		return nil, err
	}
	return &Policy[A]{blueprint: bp, rng: randutil.New(seed)}, nil
}

// Blueprint returns the underlying blueprint metadata.
func (p *Policy[A]) Blueprint() *cfr.Blueprint[A] {
	if p == nil {
		return nil
	}
	return p.blueprint
}

// ActionWeights returns the stored probability distribution for player at
// infoset key over actions. Actions absent from the blueprint (an
// infoset never visited during training, or a stored strategy shorter
// than the current legal-action list) fall back to uniform weight, and
// the result is renormalized so it is always a valid distribution.
func (p *Policy[A]) ActionWeights(player cfr.Player, key string, actions []A) (cfr.ActionPolicy[A], error) {
	if p == nil || p.blueprint == nil {
		return cfr.ActionPolicy[A]{}, errors.New("runtime: nil policy")
	}
	if len(actions) == 0 {
		return cfr.ActionPolicy[A]{}, errors.New("runtime: no legal actions")
	}

	snap, ok := p.blueprint.Strategy(player, key)
	if !ok {
		return cfr.UniformPolicy(actions), nil
	}

	stored := make(map[any]float64, len(snap.Actions))
	for i, a := range snap.Actions {
		stored[a] = snap.Weights[i]
	}
	uniform := 1.0 / float64(len(actions))
	policy := cfr.NewActionPolicy(actions, func(a A) float64 {
		if w, ok := stored[a]; ok {
			return w
		}
		return uniform
	})
	normalized, err := cfr.Normalize(policy)
	if err != nil {
		return cfr.UniformPolicy(actions), nil
	}
	return normalized, nil
}

// Sample draws one action from the policy's distribution at infoset key
// using the policy's own deterministic sampler.
func (p *Policy[A]) Sample(player cfr.Player, key string, actions []A) (A, error) {
	policy, err := p.ActionWeights(player, key, actions)
	if err != nil {
		var zero A
		return zero, err
	}
	r := p.rng.Float64()
	cum := 0.0
	for _, a := range actions {
		cum += policy.Get(a)
		if r < cum {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
}
