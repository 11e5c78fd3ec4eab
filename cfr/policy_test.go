package cfr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformPolicyIsEvenlyWeighted(t *testing.T) {
	p := UniformPolicy([]string{"a", "b", "c", "d"})
	for _, a := range p.Actions() {
		assert.InDelta(t, 0.25, p.Get(a), 1e-9)
	}
}

func TestZeroPolicyIsAllZero(t *testing.T) {
	p := ZeroPolicy([]string{"a", "b"})
	assert.Equal(t, 0.0, p.Get("a"))
	assert.Equal(t, 0.0, p.Get("b"))
}

func TestActionPolicySetAndAdd(t *testing.T) {
	p := NewActionPolicy([]string{"x", "y"}, nil)
	p.Set("x", 2)
	p.Add("x", 1)
	assert.Equal(t, 3.0, p.Get("x"))
	assert.Equal(t, 0.0, p.Get("y"))
}

func TestActionPolicyGetPanicsOnIllegalAction(t *testing.T) {
	p := UniformPolicy([]string{"x"})
	assert.Panics(t, func() { p.Get("not-legal") })
}

func TestNormalizeDividesByWeightSum(t *testing.T) {
	p := NewActionPolicy([]string{"a", "b"}, func(a string) float64 {
		if a == "a" {
			return 3
		}
		return 1
	})
	out, err := Normalize(p)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, out.Get("a"), 1e-9)
	assert.InDelta(t, 0.25, out.Get("b"), 1e-9)
}

func TestNormalizeZeroSumIsNonNormalizable(t *testing.T) {
	p := ZeroPolicy([]string{"a", "b"})
	_, err := Normalize(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonNormalizablePolicy)
}

func TestStatePolicyMaterializesDefaultOnce(t *testing.T) {
	calls := 0
	table := NewStatePolicy[string](func(actions []string) ActionPolicy[string] {
		calls++
		return UniformPolicy(actions)
	})

	first := table.At("I", []string{"a", "b"})
	second := table.At("I", []string{"a", "b"})

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, table.Len())
}

func TestStatePolicyLookupMissingKey(t *testing.T) {
	table := NewStatePolicy[string](UniformPolicy[string])
	_, ok := table.Lookup("nope")
	assert.False(t, ok)
}

func TestStatePolicyNormalizedReflectsMutation(t *testing.T) {
	table := NewStatePolicy[string](ZeroPolicy[string])
	ap := table.At("I", []string{"a", "b"})
	ap.Set("a", 4)
	ap.Set("b", 4)

	norm, err := table.Normalized("I")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, norm.Get("a"), 1e-9)
	assert.InDelta(t, 0.5, norm.Get("b"), 1e-9)
}
