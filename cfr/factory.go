package cfr

// NewVanillaRun is a convenience constructor for VanillaSolver that
// builds fresh uniform current-policy and zero average-policy tables for
// every player, rather than requiring the caller to assemble the
// per-player maps by hand.
func NewVanillaRun[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	players []Player,
	cfg CFRConfig,
) (*VanillaSolver[W, A, C, O], error) {
	return NewVanillaSolver(env, root, players, nil, nil, cfg)
}

// NewMCCFRRun is the Monte-Carlo analogue of NewVanillaRun: fresh uniform
// current-policy and zero average-policy tables for every player.
func NewMCCFRRun[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	players []Player,
	cfg MCCFRConfig,
) (*MCCFRSolver[W, A, C, O], error) {
	return NewMCCFRSolver(env, root, players, nil, nil, cfg)
}

// UniformPolicyMap builds a fresh StatePolicy defaulting to UniformPolicy
// for every player in players, suitable for passing as either the
// current or average policy map to NewVanillaSolver/NewMCCFRSolver.
func UniformPolicyMap[A comparable](players []Player) map[Player]*StatePolicy[A] {
	out := make(map[Player]*StatePolicy[A], len(players))
	for _, p := range players {
		out[p] = NewStatePolicy[A](UniformPolicy[A])
	}
	return out
}

// ZeroPolicyMap builds a fresh StatePolicy defaulting to ZeroPolicy for
// every player in players, the conventional starting point for an
// average-policy accumulator.
func ZeroPolicyMap[A comparable](players []Player) map[Player]*StatePolicy[A] {
	out := make(map[Player]*StatePolicy[A], len(players))
	for _, p := range players {
		out[p] = NewStatePolicy[A](ZeroPolicy[A])
	}
	return out
}

// SharedPolicyMap replicates a single StatePolicy across every player in
// players, useful for symmetric games where all players should read and
// write through the same table.
func SharedPolicyMap[A comparable](players []Player, shared *StatePolicy[A]) map[Player]*StatePolicy[A] {
	out := make(map[Player]*StatePolicy[A], len(players))
	for _, p := range players {
		out[p] = shared
	}
	return out
}
