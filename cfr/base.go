package cfr

import "fmt"

// Base is the shared state of one CFR run: the environment, root world
// state, per-player current/average policy tables, per-player infostate
// tables, the update schedule, and the iteration counter. Both the
// vanilla and Monte-Carlo CFR families embed a Base and add their own
// traversal on top of it; Base itself never traverses anything.
type Base[W WorldState, A comparable, C comparable, O comparable] struct {
	env        Environment[W, A, C, O]
	root       W
	players    []Player
	current    map[Player]*StatePolicy[A]
	average    map[Player]*StatePolicy[A]
	infostates map[Player]*InfoStateTable[A]
	schedule   *Schedule
	updateMode UpdateMode
	iteration  int
}

// NewBase constructs a Base. players lists every actual (non-chance)
// player in the game. currentPolicy and averagePolicy may be nil or
// partial; a missing or nil entry is replaced by a fresh table
// defaulting to UniformPolicy (current) or ZeroPolicy (average).
//
// NewBase returns a wrapped ErrEnvironmentNotSerialized if env's Traits do
// not report Serialized, and a wrapped ErrInconsistentInfostates if
// currentPolicy or averagePolicy names a player not in players.
func NewBase[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	players []Player,
	updateMode UpdateMode,
	currentPolicy map[Player]*StatePolicy[A],
	averagePolicy map[Player]*StatePolicy[A],
) (*Base[W, A, C, O], error) {
	if !env.Traits().Serialized {
		return nil, fmt.Errorf("%w: environment does not guarantee serialized/unrolled trajectories", ErrEnvironmentNotSerialized)
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: at least one actual player is required", ErrInvalidConfiguration)
	}
	for p := range currentPolicy {
		if !containsPlayer(players, p) {
			return nil, fmt.Errorf("%w: current policy names a player outside the player list", ErrInconsistentInfostates)
		}
	}
	for p := range averagePolicy {
		if !containsPlayer(players, p) {
			return nil, fmt.Errorf("%w: average policy names a player outside the player list", ErrInconsistentInfostates)
		}
	}

	b := &Base[W, A, C, O]{
		env:        env,
		root:       root,
		players:    append([]Player(nil), players...),
		current:    make(map[Player]*StatePolicy[A], len(players)),
		average:    make(map[Player]*StatePolicy[A], len(players)),
		infostates: make(map[Player]*InfoStateTable[A], len(players)),
		updateMode: updateMode,
	}
	for _, p := range players {
		if sp, ok := currentPolicy[p]; ok && sp != nil {
			b.current[p] = sp
		} else {
			b.current[p] = NewStatePolicy[A](UniformPolicy[A])
		}
		if sp, ok := averagePolicy[p]; ok && sp != nil {
			b.average[p] = sp
		} else {
			b.average[p] = NewStatePolicy[A](ZeroPolicy[A])
		}
		b.infostates[p] = NewInfoStateTable[A]()
	}

	if updateMode == Alternating {
		sched, err := NewSchedule(players)
		if err != nil {
			return nil, err
		}
		b.schedule = sched
	}
	return b, nil
}

func containsPlayer(players []Player, p Player) bool {
	for _, q := range players {
		if q == p {
			return true
		}
	}
	return false
}

// Env returns the environment this run is driving.
func (b *Base[W, A, C, O]) Env() Environment[W, A, C, O] {
	return b.env
}

// Root returns the run's root world state. Callers must clone before
// mutating.
func (b *Base[W, A, C, O]) Root() W {
	return b.root
}

// Players returns the actual players this run updates, in construction
// order.
func (b *Base[W, A, C, O]) Players() []Player {
	out := make([]Player, len(b.players))
	copy(out, b.players)
	return out
}

// UpdateMode reports whether this run alternates or updates
// simultaneously.
func (b *Base[W, A, C, O]) UpdateMode() UpdateMode {
	return b.updateMode
}

// Iteration returns the number of completed iterations.
func (b *Base[W, A, C, O]) Iteration() int {
	return b.iteration
}

func (b *Base[W, A, C, O]) incrementIteration() {
	b.iteration++
}

// PlayerToUpdate returns the head of the alternating schedule: the player
// the next iterate() call updates. It panics in Simultaneous mode, where
// every player updates every iteration.
func (b *Base[W, A, C, O]) PlayerToUpdate() Player {
	if b.schedule == nil {
		panic("cfr: PlayerToUpdate called on a simultaneous-mode run")
	}
	return b.schedule.Head()
}

// CyclePlayerToUpdate rotates the alternating schedule and returns the
// new head. It panics in Simultaneous mode.
func (b *Base[W, A, C, O]) CyclePlayerToUpdate() Player {
	if b.schedule == nil {
		panic("cfr: CyclePlayerToUpdate called on a simultaneous-mode run")
	}
	return b.schedule.Rotate()
}

// NextPlayerToUpdate returns the player that will be updated after the
// current one, without rotating the schedule. It panics in Simultaneous
// mode.
func (b *Base[W, A, C, O]) NextPlayerToUpdate() Player {
	if b.schedule == nil {
		panic("cfr: NextPlayerToUpdate called on a simultaneous-mode run")
	}
	return b.schedule.PeekNext()
}

// CurrentPolicyAt returns the current-policy ActionPolicy for player p at
// infoset key, materializing a uniform default over actions on first
// visit.
func (b *Base[W, A, C, O]) CurrentPolicyAt(p Player, key string, actions []A) *ActionPolicy[A] {
	return b.current[p].At(key, actions)
}

// AveragePolicyAt returns the average-policy ActionPolicy for player p at
// infoset key, materializing a zero default over actions on first visit.
func (b *Base[W, A, C, O]) AveragePolicyAt(p Player, key string, actions []A) *ActionPolicy[A] {
	return b.average[p].At(key, actions)
}

// InfoStates returns player p's infostate table.
func (b *Base[W, A, C, O]) InfoStates(p Player) *InfoStateTable[A] {
	return b.infostates[p]
}

// CurrentPolicyTable returns player p's full current-policy table.
func (b *Base[W, A, C, O]) CurrentPolicyTable(p Player) *StatePolicy[A] {
	return b.current[p]
}

// AveragePolicyTable returns player p's full average-policy table.
func (b *Base[W, A, C, O]) AveragePolicyTable(p Player) *StatePolicy[A] {
	return b.average[p]
}
