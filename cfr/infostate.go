package cfr

import "fmt"

// ObservationPair is one (public, private) observation pair appended to an
// InfoState as a trajectory advances.
type ObservationPair[O comparable] struct {
	Public  O
	Private O
}

// InfoState is an ordered sequence of (public, private) observation pairs
// belonging to one acting player. Two distinct world states that produce
// equal InfoState values are indistinguishable to that player and share
// every per-infoset table the core keeps.
//
// InfoState is immutable once built: Append returns an extended copy
// rather than mutating the receiver, so a reference retained by a caller
// (e.g. a pending-observation buffer) is never invalidated by further
// play along a sibling branch.
type InfoState[O comparable] struct {
	player  Player
	entries []ObservationPair[O]
	key     string
}

// NewInfoState returns the empty infostate for player p.
func NewInfoState[O comparable](p Player) InfoState[O] {
	return InfoState[O]{player: p}
}

// Player returns the acting player this infostate belongs to.
func (s InfoState[O]) Player() Player {
	return s.player
}

// Len returns the number of observation pairs accumulated so far.
func (s InfoState[O]) Len() int {
	return len(s.entries)
}

// Append returns a new InfoState extending s with one more observation
// pair. s itself is left unmodified.
func (s InfoState[O]) Append(pub, priv O) InfoState[O] {
	next := make([]ObservationPair[O], len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, ObservationPair[O]{Public: pub, Private: priv})
	return InfoState[O]{
		player:  s.player,
		entries: next,
		key:     fmt.Sprintf("%s%v|%v;", s.key, pub, priv),
	}
}

// Clone returns an independent copy of s. Because InfoState is immutable,
// this is the identity; it exists so call sites that snapshot a running
// infostate before continuing to extend it read clearly.
func (s InfoState[O]) Clone() InfoState[O] {
	return s
}

// Key returns a value-based key suitable for use as a map key, stable
// across separately-constructed InfoState values holding equal player and
// observation sequences. It is the structural identity the info-state
// table and policy tables index on.
func (s InfoState[O]) Key() string {
	return fmt.Sprintf("%d:%s", s.player, s.key)
}

// Equal reports whether s and o carry the same player and observation
// sequence.
func (s InfoState[O]) Equal(o InfoState[O]) bool {
	return s.Key() == o.Key()
}
