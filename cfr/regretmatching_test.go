package cfr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRegretMatchingPositiveRegrets(t *testing.T) {
	d := newInfoStateData([]string{"a", "b", "c"})
	d.SetRegret("a", 1)
	d.SetRegret("b", 2)
	d.SetRegret("c", -5)

	out := ZeroPolicy([]string{"a", "b", "c"})
	require.NoError(t, ApplyRegretMatching(d, &out))

	assert.InDelta(t, 1.0/3.0, out.Get("a"), 1e-9)
	assert.InDelta(t, 2.0/3.0, out.Get("b"), 1e-9)
	assert.Equal(t, 0.0, out.Get("c"))
	// plain regret matching never mutates stored regret
	assert.Equal(t, -5.0, d.Regret("c"))
}

func TestApplyRegretMatchingUniformFallback(t *testing.T) {
	d := newInfoStateData([]string{"a", "b", "c", "d"})
	out := ZeroPolicy([]string{"a", "b", "c", "d"})
	require.NoError(t, ApplyRegretMatching(d, &out))
	for _, a := range out.Actions() {
		assert.InDelta(t, 0.25, out.Get(a), 1e-9)
	}
}

func TestApplyRegretMatchingPlusClipsNegativeRegret(t *testing.T) {
	d := newInfoStateData([]string{"a", "b"})
	d.SetRegret("a", -3)
	d.SetRegret("b", 1)

	out := ZeroPolicy([]string{"a", "b"})
	require.NoError(t, ApplyRegretMatchingPlus(d, &out))

	assert.Equal(t, 0.0, d.Regret("a"), "RM+ clips stored regret to zero")
	assert.Equal(t, 1.0, out.Get("b"))
}

func TestApplyRegretMatchingPlusRBPReplacesPrunedRegret(t *testing.T) {
	d := newInfoStateData([]string{"a", "b"})
	d.SetRegret("a", -10)
	d.ensureInstantRegret()
	d.InstantRegret[0] = 4 // positive instant regret on a previously-pruned action

	out := ZeroPolicy([]string{"a", "b"})
	require.NoError(t, ApplyRegretMatchingPlusRBP(d, &out))

	assert.Equal(t, 4.0, d.Regret("a"))
	assert.Equal(t, 0.0, d.InstantRegret[0], "instant regret is consumed after applying")
}

func TestRegretMatchingKernelsRejectSizeMismatch(t *testing.T) {
	d := newInfoStateData([]string{"a", "b"})
	out := ZeroPolicy([]string{"a", "b", "c"})
	err := ApplyRegretMatching(d, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}
