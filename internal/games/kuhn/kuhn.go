// Package kuhn implements Kuhn poker, the three-card two-player bluffing
// game used throughout the equilibrium-computation literature as the
// smallest non-trivial test of a CFR implementation.
package kuhn

import "github.com/lox/cfrsolver/cfr"

// Card labels the three Kuhn poker cards.
type Card int

const (
	Jack Card = iota
	Queen
	King
)

func (c Card) String() string {
	switch c {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return "?"
	}
}

// Action is one of the two moves available at every Kuhn poker decision
// node. Its meaning depends on context: Pass is check-or-fold, Bet is
// bet-or-call.
type Action string

const (
	Pass Action = "p"
	Bet  Action = "b"
)

// Deal is the chance outcome dealing one card to each player.
type Deal struct {
	P0, P1 Card
}

// State is one Kuhn poker world state: the dealt cards (Jack sentinel
// before dealing, never otherwise ambiguous since deals are always
// distinct) and the betting history so far.
type State struct {
	cards   [2]Card
	dealt   bool
	history string
}

// NewRoot returns the initial, undealt world state.
func NewRoot() *State {
	return &State{}
}

// Clone returns an independent copy.
func (s *State) Clone() cfr.WorldState {
	cp := *s
	return &cp
}

// Env implements cfr.Environment for Kuhn poker.
type Env struct{}

var _ cfr.Environment[*State, Action, Deal, string] = Env{}

func (Env) Traits() cfr.Traits {
	return cfr.Traits{Stochasticity: cfr.EnumeratesChance, Serialized: true}
}

func (Env) Players(_ *State) []cfr.Player {
	return []cfr.Player{cfr.PlayerN(0), cfr.PlayerN(1)}
}

func (Env) ActivePlayer(w *State) cfr.Player {
	if !w.dealt {
		return cfr.Chance
	}
	if isTerminalHistory(w.history) {
		return cfr.Unknown
	}
	return cfr.PlayerN(len(w.history) % 2)
}

func (Env) IsTerminal(w *State) bool {
	return w.dealt && isTerminalHistory(w.history)
}

func isTerminalHistory(h string) bool {
	switch h {
	case "pp", "bb", "bp", "pbb", "pbp":
		return true
	default:
		return false
	}
}

func (Env) Actions(_ cfr.Player, _ *State) []Action {
	return []Action{Pass, Bet}
}

func (Env) ChanceActions(_ *State) []Deal {
	deals := make([]Deal, 0, 6)
	for a := Jack; a <= King; a++ {
		for b := Jack; b <= King; b++ {
			if a != b {
				deals = append(deals, Deal{P0: a, P1: b})
			}
		}
	}
	return deals
}

func (Env) ChanceProbability(_ *State, _ Deal) float64 {
	return 1.0 / 6.0
}

func (Env) TransitionAction(w *State, a Action) {
	w.history += string(a)
}

func (Env) TransitionChance(w *State, o Deal) {
	w.cards = [2]Card{o.P0, o.P1}
	w.dealt = true
}

// Reward returns p's net chips at showdown or fold, ante and bets
// included: 1 chip ante each, 1 chip per bet/call, winner takes the pot.
func (Env) Reward(p cfr.Player, w *State) float64 {
	payoffP0 := kuhnPayoff(w.cards, w.history)
	if p.Int() == 0 {
		return payoffP0
	}
	return -payoffP0
}

func kuhnPayoff(cards [2]Card, history string) float64 {
	switch history {
	case "pp":
		return showdown(cards, 1)
	case "bp":
		return 1
	case "bb":
		return showdown(cards, 2)
	case "pbp":
		return -1
	case "pbb":
		return showdown(cards, 2)
	default:
		panic("kuhn: payoff requested for non-terminal history " + history)
	}
}

func showdown(cards [2]Card, stake float64) float64 {
	if cards[0] > cards[1] {
		return stake
	}
	return -stake
}

func (Env) PrivateObservation(_ cfr.Player, _, _ *State, a Action) string {
	return string(a)
}

func (Env) PublicObservation(_, _ *State, a Action) string {
	return string(a)
}

func (Env) PrivateObservationChance(p cfr.Player, _, wPrime *State, _ Deal) string {
	if p.Int() == 0 {
		return wPrime.cards[0].String()
	}
	return wPrime.cards[1].String()
}

func (Env) PublicObservationChance(_, _ *State, _ Deal) string {
	return ""
}
