package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lox/cfrsolver/cfr"
	"github.com/lox/cfrsolver/internal/games/kuhn"
	"github.com/lox/cfrsolver/internal/games/rps"
)

// Run loads a blueprint and reports its exploitability against the
// matching game's best response.
func (cmd *EvalCmd) Run() error {
	switch cmd.Game {
	case "kuhn":
		return evalGame[*kuhn.State, kuhn.Action, kuhn.Deal, string](kuhn.Env{}, kuhn.NewRoot(), cmd.Blueprint)
	case "rps":
		return evalGame[*rps.State, rps.Move, struct{}, string](rps.Env{}, rps.NewRoot(), cmd.Blueprint)
	default:
		return fmt.Errorf("unknown game %q", cmd.Game)
	}
}

func evalGame[W cfr.WorldState, A comparable, C comparable, O comparable](
	env cfr.Environment[W, A, C, O],
	root W,
	blueprintPath string,
) error {
	bp, err := cfr.LoadBlueprint[A](blueprintPath)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}
	log.Info().Int("iterations", bp.Iterations).Time("generated", bp.GeneratedAt).Msg("blueprint loaded")

	players := []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}
	profile := make(map[cfr.Player]*cfr.StatePolicy[A], len(players))
	for _, p := range players {
		table := cfr.NewStatePolicy[A](cfr.UniformPolicy[A])
		strategies := bp.Strategies[p]
		for key, snap := range strategies {
			snap := snap
			table.AtDefault(key, snap.Actions, func(actions []A) cfr.ActionPolicy[A] {
				return cfr.NewActionPolicy(actions, func(a A) float64 {
					for i, cand := range snap.Actions {
						if cand == a {
							return snap.Weights[i]
						}
					}
					return 0
				})
			})
		}
		profile[p] = table
	}

	expl, err := cfr.Exploitability(env, root, players, profile)
	if err != nil {
		return fmt.Errorf("exploitability: %w", err)
	}
	log.Info().Float64("exploitability", expl).Msg("evaluation complete")
	return nil
}
