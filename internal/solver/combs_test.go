package solver

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombsValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s, m, xmax int
		want       int64
	}{
		// Over capacity.
		{2, 5, 2, 0},
		// Single cell always counts one way.
		{1, 1, 1, 1},
		// Single capacity uses the permutation count s!/(s-m)!.
		{5, 2, 1, 20},
		{5, 0, 1, 1},
		{4, 4, 1, 24},
		// Unconstrained capacity is direct exponentiation.
		{3, 2, 2, 9},
		{4, 3, 5, 64},
		// General bounded case, composition enumeration.
		{2, 3, 2, 6},
		{2, 4, 2, 6},
		{2, 4, 3, 14},
		{2, 5, 3, 20},
		{3, 3, 2, 24},
		{3, 4, 2, 54},
		{3, 5, 2, 90},
		{3, 6, 2, 90},
		{4, 4, 2, 204},
		{4, 5, 3, 960},
		{5, 4, 2, 540},
	}
	for _, test := range tests {
		got := combs(test.s, test.m, test.xmax)
		assert.Equal(t, test.want, got.Int64(),
			"combs(%d, %d, %d)", test.s, test.m, test.xmax)
	}
}

func TestCombsCacheStable(t *testing.T) {
	t.Parallel()
	a := combs(6, 7, 2)
	b := combs(6, 7, 2)
	assert.Zero(t, a.Cmp(b))
}

func TestLogCombs(t *testing.T) {
	t.Parallel()

	_, err := logCombs(2, 5, 2)
	assert.ErrorIs(t, err, errTooManyMines)

	lc, err := logCombs(1, 1, 1)
	require.NoError(t, err)
	assert.Zero(t, lc)

	lc, err = logCombs(5, 2, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(20), lc, 1e-9)

	lc, err = logCombs(3, 2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Log(3), lc, 1e-9)

	lc, err = logCombs(3, 4, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(54), lc, 1e-9)
}

func TestUnsafeProb(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s, m, xmax int
		want       float64
	}{
		{3, 5, 1, 0},             // over capacity
		{4, 1, 1, 0.25},          // single capacity: m/s
		{4, 3, 1, 0.75},
		{2, 0, 1, 0},
		{3, 2, 5, 1 - 4.0/9.0},   // unconstrained: 1-(1-1/s)^m
		{2, 3, 2, 1},             // m > xmax*(s-1) forces every cell
		{3, 4, 2, 1 - 6.0/54.0}, // bounded: combs(2,4,2)=6, combs(3,4,2)=54
	}
	for _, test := range tests {
		got := unsafeProb(test.s, test.m, test.xmax)
		assert.InDelta(t, test.want, got, 1e-9,
			"unsafeProb(%d, %d, %d)", test.s, test.m, test.xmax)
	}
}

func TestBigLog(t *testing.T) {
	t.Parallel()

	// A number far beyond float64 range.
	huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(400), nil)
	assert.InDelta(t, 400*math.Log(10), bigLog(huge), 1e-6)

	assert.InDelta(t, math.Log(7), bigLog(big.NewInt(7)), 1e-12)
}
