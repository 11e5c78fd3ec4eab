package cfr

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// AverageProvider exposes a solver's per-player average policy table.
// VanillaSolver and MCCFRSolver both satisfy it through their embedded Base.
type AverageProvider[A comparable] interface {
	AveragePolicyTable(p Player) *StatePolicy[A]
}

// IndependentSolver is the minimal surface RunIndependent drives.
type IndependentSolver[A comparable] interface {
	Iterator
	AverageProvider[A]
}

// IndependentRun is one solver instance's outcome after running in
// isolation from every other instance.
type IndependentRun[A comparable] struct {
	Seed    int64
	Average map[Player]*StatePolicy[A]
}

// RunIndependent launches n independently seeded solver instances
// concurrently. Each instance is built fresh by build, which must not
// share any mutable state with another instance's build call (a fresh
// Environment/root/solver per seed is sufficient; Environment
// implementations in this module are themselves stateless). Every
// instance runs for iterations steps, and its final average policy is
// collected once all instances finish. If any instance errors, the
// others are cancelled via ctx and the first error is returned.
func RunIndependent[A comparable](
	ctx context.Context,
	players []Player,
	n int,
	baseSeed int64,
	iterations int,
	build func(seed int64) (IndependentSolver[A], error),
) ([]IndependentRun[A], error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]IndependentRun[A], n)

	for i := 0; i < n; i++ {
		i := i
		seed := baseSeed + int64(i)*2654435761
		g.Go(func() error {
			solver, err := build(seed)
			if err != nil {
				return fmt.Errorf("build run %d: %w", i, err)
			}
			for iter := 0; iter < iterations; iter++ {
				if _, err := solver.IterateOne(); err != nil {
					return fmt.Errorf("run %d iterate: %w", i, err)
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
			average := make(map[Player]*StatePolicy[A], len(players))
			for _, p := range players {
				average[p] = solver.AveragePolicyTable(p)
			}
			results[i] = IndependentRun[A]{Seed: seed, Average: average}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MergeAveragePolicies averages the per-key, per-action weights of every
// run's policy table into a single StatePolicy per player. Each key's
// action list is taken from the first run that recorded the key; a run
// lacking the key counts as uniform over that list (and the uniform
// entry is inserted into that run's table), so a key visited by only
// some runs is not skewed toward zero.
func MergeAveragePolicies[A comparable](players []Player, runs []IndependentRun[A]) map[Player]*StatePolicy[A] {
	merged := make(map[Player]*StatePolicy[A], len(players))
	for _, p := range players {
		keys := make(map[string][]A)
		for _, run := range runs {
			table, ok := run.Average[p]
			if !ok {
				continue
			}
			for _, key := range table.Keys() {
				if _, seen := keys[key]; seen {
					continue
				}
				if ap, ok := table.Lookup(key); ok {
					keys[key] = ap.Actions()
				}
			}
		}

		table := NewStatePolicy[A](UniformPolicy[A])
		for key, actions := range keys {
			sums := make(map[any]float64, len(actions))
			for _, run := range runs {
				runTable, ok := run.Average[p]
				if !ok {
					continue
				}
				ap := runTable.AtDefault(key, actions, UniformPolicy[A])
				for _, a := range actions {
					sums[a] += ap.Get(a)
				}
			}
			n := float64(len(runs))
			table.AtDefault(key, actions, func(actions []A) ActionPolicy[A] {
				return NewActionPolicy(actions, func(a A) float64 {
					return sums[a] / n
				})
			})
		}
		merged[p] = table
	}
	return merged
}
