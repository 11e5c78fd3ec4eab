package cfr

import "errors"

// Sentinel errors returned at API boundaries. Construction sites wrap one
// of these with fmt.Errorf's %w alongside a specific reason; callers that
// need to branch on a failure use errors.Is against the sentinel rather
// than string-matching the message.
var (
	// ErrInvalidConfiguration reports a forbidden combination of algorithm
	// parameters, such as an alternating player_to_update of chance.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrEnvironmentNotSerialized reports an Environment whose Traits do
	// not include the serialized/unrolled guarantee the core requires.
	ErrEnvironmentNotSerialized = errors.New("environment not serialized")
	// ErrInconsistentInfostates reports a per-player map passed at
	// construction that names a player outside the run's player list.
	ErrInconsistentInfostates = errors.New("inconsistent infostates")
	// ErrNonNormalizablePolicy reports an attempt to normalize an action
	// policy whose weights sum to zero.
	ErrNonNormalizablePolicy = errors.New("non-normalizable policy")
	// ErrSizeMismatch reports a regret map and policy map with different
	// action sets passed to a regret-matching kernel.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrUnknownPlayer reports a player-to-update not present in the
	// update schedule.
	ErrUnknownPlayer = errors.New("unknown player")
)
