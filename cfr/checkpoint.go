package cfr

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/cfrsolver/internal/fileutil"
)

const checkpointVersion = 1

// InfoStateSnapshot is the JSON representation of one infoset's regret
// record.
type InfoStateSnapshot[A comparable] struct {
	Actions []A       `json:"actions"`
	Regret  []float64 `json:"regret"`
}

// PolicySnapshot is the JSON representation of one infoset's stored
// policy weights (current or average).
type PolicySnapshot[A comparable] struct {
	Actions []A       `json:"actions"`
	Weights []float64 `json:"weights"`
}

// PlayerSnapshot captures everything one player contributes to a
// checkpoint: its infostate regrets and its current/average policy
// tables, both keyed by infoset key.
type PlayerSnapshot[A comparable] struct {
	InfoStates map[string]InfoStateSnapshot[A] `json:"info_states"`
	Current    map[string]PolicySnapshot[A]    `json:"current_policy"`
	Average    map[string]PolicySnapshot[A]    `json:"average_policy"`
}

func snapshotPlayer[A comparable](infostates *InfoStateTable[A], current, average *StatePolicy[A]) PlayerSnapshot[A] {
	snap := PlayerSnapshot[A]{
		InfoStates: make(map[string]InfoStateSnapshot[A], infostates.Len()),
		Current:    make(map[string]PolicySnapshot[A], current.Len()),
		Average:    make(map[string]PolicySnapshot[A], average.Len()),
	}
	for _, key := range infostates.Keys() {
		data, _ := infostates.Lookup(key)
		regret := append([]float64(nil), data.RegretVector()...)
		snap.InfoStates[key] = InfoStateSnapshot[A]{Actions: data.Actions(), Regret: regret}
	}
	for _, key := range current.Keys() {
		p, _ := current.Lookup(key)
		weights := make([]float64, 0, p.Len())
		p.Range(func(_ A, w float64) bool { weights = append(weights, w); return true })
		snap.Current[key] = PolicySnapshot[A]{Actions: p.Actions(), Weights: weights}
	}
	for _, key := range average.Keys() {
		p, _ := average.Lookup(key)
		weights := make([]float64, 0, p.Len())
		p.Range(func(_ A, w float64) bool { weights = append(weights, w); return true })
		snap.Average[key] = PolicySnapshot[A]{Actions: p.Actions(), Weights: weights}
	}
	return snap
}

func restorePlayer[A comparable](snap PlayerSnapshot[A], infostates *InfoStateTable[A], current, average *StatePolicy[A]) {
	for key, is := range snap.InfoStates {
		data := infostates.Emplace(key, is.Actions)
		for i, a := range is.Actions {
			data.SetRegret(a, is.Regret[i])
		}
	}
	for key, ps := range snap.Current {
		p := current.At(key, ps.Actions)
		for i, a := range ps.Actions {
			p.Set(a, ps.Weights[i])
		}
	}
	for key, ps := range snap.Average {
		p := average.At(key, ps.Actions)
		for i, a := range ps.Actions {
			p.Set(a, ps.Weights[i])
		}
	}
}

// VanillaCheckpoint is the on-disk snapshot of a VanillaSolver run.
type VanillaCheckpoint[A comparable] struct {
	Version    int                         `json:"version"`
	Iteration  int                         `json:"iteration"`
	PlayerOrder []Player                   `json:"player_order"`
	Config     CFRConfig                   `json:"config"`
	Players    map[Player]PlayerSnapshot[A] `json:"players"`
}

// Checkpoint builds an in-memory snapshot of the solver's current state.
func (s *VanillaSolver[W, A, C, O]) Checkpoint() *VanillaCheckpoint[A] {
	cp := &VanillaCheckpoint[A]{
		Version:     checkpointVersion,
		Iteration:   s.Iteration(),
		PlayerOrder: s.Players(),
		Config:      s.cfg,
		Players:     make(map[Player]PlayerSnapshot[A], len(s.Players())),
	}
	for _, p := range s.Players() {
		cp.Players[p] = snapshotPlayer(s.InfoStates(p), s.CurrentPolicyTable(p), s.AveragePolicyTable(p))
	}
	return cp
}

// SaveCheckpoint writes the solver's current state to path, atomically.
func (s *VanillaSolver[W, A, C, O]) SaveCheckpoint(path string) error {
	return saveCheckpointFile(path, s.Checkpoint())
}

// RestoreVanillaCheckpoint rebuilds a VanillaSolver from a previously
// saved checkpoint. env and root describe the game; the player order,
// configuration, regrets, and policy tables are all taken from cp, and an
// alternating schedule is advanced to cp.Iteration's position. The
// exponential-weighting Beta function is not stored in a checkpoint.
func RestoreVanillaCheckpoint[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	cp *VanillaCheckpoint[A],
) (*VanillaSolver[W, A, C, O], error) {
	solver, err := NewVanillaSolver[W, A, C, O](env, root, cp.PlayerOrder, nil, nil, cp.Config)
	if err != nil {
		return nil, err
	}
	for _, p := range cp.PlayerOrder {
		restorePlayer(cp.Players[p], solver.InfoStates(p), solver.CurrentPolicyTable(p), solver.AveragePolicyTable(p))
	}
	solver.iteration = cp.Iteration
	if solver.UpdateMode() == Alternating {
		for i := 0; i < cp.Iteration%len(cp.PlayerOrder); i++ {
			solver.CyclePlayerToUpdate()
		}
	}
	return solver, nil
}

// MCCFRCheckpoint is the on-disk snapshot of an MCCFRSolver run,
// additionally carrying the sampler's RNG position so a resumed run
// continues the same pseudo-random stream.
type MCCFRCheckpoint[A comparable] struct {
	Version     int                          `json:"version"`
	Iteration   int                          `json:"iteration"`
	PlayerOrder []Player                     `json:"player_order"`
	Config      MCCFRConfig                  `json:"config"`
	RNGState    uint64                       `json:"rng_state"`
	RNGInc      uint64                       `json:"rng_inc"`
	Players     map[Player]PlayerSnapshot[A] `json:"players"`
}

// Checkpoint builds an in-memory snapshot of the solver's current state.
func (s *MCCFRSolver[W, A, C, O]) Checkpoint() *MCCFRCheckpoint[A] {
	cp := &MCCFRCheckpoint[A]{
		Version:     checkpointVersion,
		Iteration:   s.Iteration(),
		PlayerOrder: s.Players(),
		Config:      s.cfg,
		RNGState:    s.rng.state,
		RNGInc:      s.rng.inc,
		Players:     make(map[Player]PlayerSnapshot[A], len(s.Players())),
	}
	for _, p := range s.Players() {
		cp.Players[p] = snapshotPlayer(s.InfoStates(p), s.CurrentPolicyTable(p), s.AveragePolicyTable(p))
	}
	return cp
}

// SaveCheckpoint writes the solver's current state to path, atomically.
func (s *MCCFRSolver[W, A, C, O]) SaveCheckpoint(path string) error {
	return saveCheckpointFile(path, s.Checkpoint())
}

// RestoreMCCFRCheckpoint rebuilds an MCCFRSolver from a previously saved
// checkpoint, including the exact RNG position and, for an alternating
// run, the schedule position, so sampling continues deterministically
// from where the checkpoint was taken.
func RestoreMCCFRCheckpoint[W WorldState, A comparable, C comparable, O comparable](
	env Environment[W, A, C, O],
	root W,
	cp *MCCFRCheckpoint[A],
) (*MCCFRSolver[W, A, C, O], error) {
	solver, err := NewMCCFRSolver[W, A, C, O](env, root, cp.PlayerOrder, nil, nil, cp.Config)
	if err != nil {
		return nil, err
	}
	for _, p := range cp.PlayerOrder {
		restorePlayer(cp.Players[p], solver.InfoStates(p), solver.CurrentPolicyTable(p), solver.AveragePolicyTable(p))
	}
	solver.iteration = cp.Iteration
	solver.rng.state = cp.RNGState
	solver.rng.inc = cp.RNGInc
	if solver.UpdateMode() == Alternating {
		for i := 0; i < cp.Iteration%len(cp.PlayerOrder); i++ {
			solver.CyclePlayerToUpdate()
		}
	}
	return solver, nil
}

func saveCheckpointFile(path string, snap any) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

func loadCheckpointFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// LoadVanillaCheckpoint reads and decodes a VanillaCheckpoint from path.
func LoadVanillaCheckpoint[A comparable](path string) (*VanillaCheckpoint[A], error) {
	var cp VanillaCheckpoint[A]
	if err := loadCheckpointFile(path, &cp); err != nil {
		return nil, err
	}
	if cp.Version != checkpointVersion {
		return nil, fmt.Errorf("%w: unsupported checkpoint version", ErrInvalidConfiguration)
	}
	return &cp, nil
}

// LoadMCCFRCheckpoint reads and decodes an MCCFRCheckpoint from path.
func LoadMCCFRCheckpoint[A comparable](path string) (*MCCFRCheckpoint[A], error) {
	var cp MCCFRCheckpoint[A]
	if err := loadCheckpointFile(path, &cp); err != nil {
		return nil, err
	}
	if cp.Version != checkpointVersion {
		return nil, fmt.Errorf("%w: unsupported checkpoint version", ErrInvalidConfiguration)
	}
	return &cp, nil
}
