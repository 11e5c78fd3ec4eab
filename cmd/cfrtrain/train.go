package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lox/cfrsolver/cfr"
	"github.com/lox/cfrsolver/internal/config"
	"github.com/lox/cfrsolver/internal/games/kuhn"
	"github.com/lox/cfrsolver/internal/games/rps"
)

// Run dispatches training to the selected game's concrete type
// instantiation, since the CFR core is generic over action/observation
// types that are only known once the game is chosen.
func (cmd *TrainCmd) Run() error {
	cfgPath := cmd.Config
	if cfgPath == "" {
		cfgPath = "cfrtrain.hcl"
	}
	runCfg, err := config.LoadRunConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Game != "" {
		runCfg.Solver.Game = cmd.Game
	}
	if cmd.Iterations > 0 {
		runCfg.Solver.Iterations = cmd.Iterations
	}
	if cmd.Seed != 0 {
		runCfg.Solver.Seed = cmd.Seed
	}
	if cmd.CheckpointPath == "" {
		cmd.CheckpointPath = runCfg.Checkpoint.Path
	}
	if cmd.CheckpointEvery == 0 {
		cmd.CheckpointEvery = runCfg.Checkpoint.Every
	}
	if err := runCfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch runCfg.Solver.Game {
	case "kuhn":
		return trainKuhn(cmd, runCfg)
	case "rps":
		return trainRPS(cmd, runCfg)
	default:
		return fmt.Errorf("unknown game %q", runCfg.Solver.Game)
	}
}

func trainKuhn(cmd *TrainCmd, runCfg *config.RunConfig) error {
	env := kuhn.Env{}
	players := []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}
	root := kuhn.NewRoot()
	return runTraining(env, root, players, cmd, runCfg)
}

func trainRPS(cmd *TrainCmd, runCfg *config.RunConfig) error {
	env := rps.Env{}
	players := []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}
	root := rps.NewRoot()
	return runTraining(env, root, players, cmd, runCfg)
}

func runTraining[W cfr.WorldState, A comparable, C comparable, O comparable](
	env cfr.Environment[W, A, C, O],
	root W,
	players []cfr.Player,
	cmd *TrainCmd,
	runCfg *config.RunConfig,
) error {
	iterations := runCfg.Solver.Iterations
	logEvery := iterations / 10
	if logEvery == 0 {
		logEvery = 1
	}

	if runCfg.Solver.Algorithm == "mccfr" {
		mcfg, err := runCfg.MCCFRConfig()
		if err != nil {
			return fmt.Errorf("mccfr config: %w", err)
		}

		var solver *cfr.MCCFRSolver[W, A, C, O]
		if cmd.ResumeFrom != "" {
			cp, err := cfr.LoadMCCFRCheckpoint[A](cmd.ResumeFrom)
			if err != nil {
				return fmt.Errorf("load checkpoint: %w", err)
			}
			solver, err = cfr.RestoreMCCFRCheckpoint[W, A, C, O](env, root, cp)
			if err != nil {
				return fmt.Errorf("restore checkpoint: %w", err)
			}
		} else {
			solver, err = cfr.NewMCCFRRun[W, A, C, O](env, root, players, mcfg)
			if err != nil {
				return fmt.Errorf("new mccfr run: %w", err)
			}
		}

		trainer := cfr.NewTrainer(solver,
			cfr.WithCheckpoint(cmd.CheckpointPath, cmd.CheckpointEvery),
			cfr.WithProgress(func(i int, _ map[cfr.Player]float64) {
				if i%logEvery == 0 {
					log.Info().Int("iteration", i).Msg("progress")
				}
			}),
		)
		start := time.Now()
		if err := trainer.Run(iterations); err != nil {
			return fmt.Errorf("train: %w", err)
		}
		log.Info().Dur("duration", time.Since(start)).Msg("training complete")

		average := make(map[cfr.Player]*cfr.StatePolicy[A], len(players))
		for _, p := range players {
			average[p] = solver.AveragePolicyTable(p)
		}
		bp := cfr.BuildBlueprint(players, average, iterations, time.Now())
		if err := bp.Save(cmd.Out); err != nil {
			return fmt.Errorf("save blueprint: %w", err)
		}
		log.Info().Str("path", cmd.Out).Msg("blueprint saved")
		return nil
	}

	cfg, err := runCfg.CFRConfig()
	if err != nil {
		return fmt.Errorf("cfr config: %w", err)
	}

	var solver *cfr.VanillaSolver[W, A, C, O]
	if cmd.ResumeFrom != "" {
		cp, err := cfr.LoadVanillaCheckpoint[A](cmd.ResumeFrom)
		if err != nil {
			return fmt.Errorf("load checkpoint: %w", err)
		}
		solver, err = cfr.RestoreVanillaCheckpoint[W, A, C, O](env, root, cp)
		if err != nil {
			return fmt.Errorf("restore checkpoint: %w", err)
		}
	} else {
		solver, err = cfr.NewVanillaRun[W, A, C, O](env, root, players, cfg)
		if err != nil {
			return fmt.Errorf("new vanilla run: %w", err)
		}
	}

	trainer := cfr.NewTrainer(solver,
		cfr.WithCheckpoint(cmd.CheckpointPath, cmd.CheckpointEvery),
		cfr.WithProgress(func(i int, _ map[cfr.Player]float64) {
			if i%logEvery == 0 {
				log.Info().Int("iteration", i).Msg("progress")
			}
		}),
	)
	start := time.Now()
	if err := trainer.Run(iterations); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	log.Info().Dur("duration", time.Since(start)).Msg("training complete")

	average := make(map[cfr.Player]*cfr.StatePolicy[A], len(players))
	for _, p := range players {
		average[p] = solver.AveragePolicyTable(p)
	}
	bp := cfr.BuildBlueprint(players, average, iterations, time.Now())
	if err := bp.Save(cmd.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	log.Info().Str("path", cmd.Out).Msg("blueprint saved")
	return nil
}
