// Package rps implements Rock-Paper-Scissors as a two-step extensive-form
// game with hidden simultaneity: player 1 acts without any observation of
// player 0's move, which is the standard way to embed a simultaneous-move
// game in an extensive-form tree.
package rps

import "github.com/lox/cfrsolver/cfr"

// Move is one of the three actions available to both players.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

var moves = []Move{Rock, Paper, Scissors}

// beats reports whether a beats b under standard rules.
func beats(a, b Move) bool {
	switch {
	case a == Rock && b == Scissors:
		return true
	case a == Paper && b == Rock:
		return true
	case a == Scissors && b == Paper:
		return true
	default:
		return false
	}
}

// State is the game state: both players' moves, empty until chosen.
type State struct {
	p0, p1 Move
}

// NewRoot returns the initial state, before either player has moved.
func NewRoot() *State {
	return &State{}
}

// Clone returns an independent copy.
func (s *State) Clone() cfr.WorldState {
	cp := *s
	return &cp
}

// Env implements cfr.Environment for Rock-Paper-Scissors. There is no
// chance node; the ChanceActions/ChanceProbability/TransitionChance and
// chance-observation methods exist only to satisfy the interface and are
// never invoked since Traits().Stochasticity is Deterministic.
type Env struct{}

var _ cfr.Environment[*State, Move, struct{}, string] = Env{}

func (Env) Traits() cfr.Traits {
	return cfr.Traits{Stochasticity: cfr.Deterministic, Serialized: true}
}

func (Env) Players(_ *State) []cfr.Player {
	return []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}
}

func (Env) ActivePlayer(w *State) cfr.Player {
	if w.p0 == "" {
		return cfr.PlayerN(0)
	}
	if w.p1 == "" {
		return cfr.PlayerN(1)
	}
	return cfr.Unknown
}

func (Env) IsTerminal(w *State) bool {
	return w.p0 != "" && w.p1 != ""
}

func (Env) Actions(_ cfr.Player, _ *State) []Move {
	return moves
}

func (Env) ChanceActions(_ *State) []struct{} {
	panic("rps: ChanceActions called on a deterministic environment")
}

func (Env) ChanceProbability(_ *State, _ struct{}) float64 {
	panic("rps: ChanceProbability called on a deterministic environment")
}

func (Env) TransitionAction(w *State, a Move) {
	if w.p0 == "" {
		w.p0 = a
		return
	}
	w.p1 = a
}

func (Env) TransitionChance(_ *State, _ struct{}) {
	panic("rps: TransitionChance called on a deterministic environment")
}

// Reward returns +1/0/-1 for win/tie/loss.
func (Env) Reward(p cfr.Player, w *State) float64 {
	if w.p0 == w.p1 {
		return 0
	}
	p0Wins := beats(w.p0, w.p1)
	if p.Int() == 0 {
		if p0Wins {
			return 1
		}
		return -1
	}
	if p0Wins {
		return -1
	}
	return 1
}

// PrivateObservation and PublicObservation both return "" unconditionally:
// player 1's infoset must not depend on player 0's move, so no
// observation is produced by player 0's transition. Player 0's own
// subsequent (degenerate, single-visit) infoset similarly carries no
// observation.
func (Env) PrivateObservation(_ cfr.Player, _, _ *State, _ Move) string {
	return ""
}

func (Env) PublicObservation(_, _ *State, _ Move) string {
	return ""
}

func (Env) PrivateObservationChance(_ cfr.Player, _, _ *State, _ struct{}) string {
	panic("rps: PrivateObservationChance called on a deterministic environment")
}

func (Env) PublicObservationChance(_, _ *State, _ struct{}) string {
	panic("rps: PublicObservationChance called on a deterministic environment")
}
