package cfr

import (
	"time"

	"github.com/coder/quartz"
)

// Iterator is satisfied by VanillaSolver and MCCFRSolver.
type Iterator interface {
	IterateOne() (map[Player]float64, error)
}

// CheckpointSaver is satisfied by solvers that can persist their state.
type CheckpointSaver interface {
	SaveCheckpoint(path string) error
}

// TrainerSolver is the minimal interface a Trainer drives.
type TrainerSolver interface {
	Iterator
	CheckpointSaver
}

// Trainer repeatedly calls IterateOne and triggers checkpoint saves on an
// iteration count, a wall-clock interval, or both. The clock is injectable
// so tests can advance it explicitly instead of sleeping on a real one.
type Trainer struct {
	solver TrainerSolver
	clock  quartz.Clock

	checkpointPath     string
	checkpointEvery    int
	checkpointInterval time.Duration

	onProgress func(iteration int, regret map[Player]float64)
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithClock overrides the default real clock, for deterministic tests.
func WithClock(clock quartz.Clock) TrainerOption {
	return func(t *Trainer) { t.clock = clock }
}

// WithCheckpoint enables saving to path every n iterations. n <= 0 disables
// the iteration-count trigger.
func WithCheckpoint(path string, every int) TrainerOption {
	return func(t *Trainer) {
		t.checkpointPath = path
		t.checkpointEvery = every
	}
}

// WithCheckpointInterval enables saving to path whenever interval has
// elapsed on the trainer's clock, independent of iteration count.
func WithCheckpointInterval(path string, interval time.Duration) TrainerOption {
	return func(t *Trainer) {
		t.checkpointPath = path
		t.checkpointInterval = interval
	}
}

// WithProgress registers a callback invoked after every iteration.
func WithProgress(fn func(iteration int, regret map[Player]float64)) TrainerOption {
	return func(t *Trainer) { t.onProgress = fn }
}

// NewTrainer builds a Trainer around solver with a real clock by default.
func NewTrainer(solver TrainerSolver, opts ...TrainerOption) *Trainer {
	t := &Trainer{solver: solver, clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run drives n iterations, saving checkpoints as configured. It returns the
// error from the first failed iteration or checkpoint save.
func (t *Trainer) Run(n int) error {
	lastCheckpoint := t.clock.Now()
	for i := 1; i <= n; i++ {
		regret, err := t.solver.IterateOne()
		if err != nil {
			return err
		}
		if t.onProgress != nil {
			t.onProgress(i, regret)
		}

		due := t.checkpointEvery > 0 && i%t.checkpointEvery == 0
		if t.checkpointInterval > 0 && t.clock.Now().Sub(lastCheckpoint) >= t.checkpointInterval {
			due = true
		}
		if due && t.checkpointPath != "" {
			if err := t.solver.SaveCheckpoint(t.checkpointPath); err != nil {
				return err
			}
			lastCheckpoint = t.clock.Now()
		}
	}
	return nil
}
