package solver

import (
	"context"
	"math/big"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedRows(m *matrixVec) [][]int {
	rows := make([][]int, m.rows())
	for i, row := range m.cells {
		rows[i] = append(append([]int{}, row...), m.vec[i])
	}
	sort.Slice(rows, func(i, j int) bool {
		for k := range rows[i] {
			if rows[i][k] != rows[j][k] {
				return rows[i][k] < rows[j][k]
			}
		}
		return false
	})
	return rows
}

func TestBuildFullMatrix(t *testing.T) {
	t.Parallel()
	board := mustBoard(t, threeByThree)

	m, unclicked := buildFullMatrix(board, 3)

	require.Equal(t, []Point{
		{0, 0}, {1, 0}, {1, 1}, {0, 2}, {1, 2}, {2, 2},
	}, unclicked)

	// Row order is board scan order; compare modulo ordering anyway.
	want := &matrixVec{
		cells: [][]int{
			{0, 1, 1, 0, 0, 0}, // the 1 at (2,0)
			{1, 1, 1, 1, 1, 0}, // the 3 at (0,1)
			{0, 1, 1, 0, 1, 1}, // the 2 at (2,1)
			{1, 1, 1, 1, 1, 1}, // global mine count
		},
		vec: []int{1, 3, 2, 3},
	}
	assert.Equal(t, sortedRows(want), sortedRows(m))
}

func TestBuildFullMatrixNoInformativeRows(t *testing.T) {
	t.Parallel()
	// Numbers touching unclicked cells each contribute a row; numbers
	// with no unclicked neighbour contribute nothing.
	board := mustBoard(t, `
		0 0 #
		0 0 #
	`)
	m, unclicked := buildFullMatrix(board, 1)
	require.Len(t, unclicked, 2)
	// The two 0-cells adjacent to the unclicked column, plus the
	// global row; the left-edge 0s drop out.
	assert.Equal(t, 3, m.rows())

	fully := mustBoard(t, "0")
	m2, unclicked2 := buildFullMatrix(fully, 0)
	assert.Empty(t, unclicked2)
	assert.Equal(t, 1, m2.rows()) // pure global constraint
}

func ratInt(v int64) *big.Rat { return new(big.Rat).SetInt64(v) }

func TestUniqueColsRoundTrip(t *testing.T) {
	t.Parallel()
	board := mustBoard(t, fiveByFive)

	m, unclicked := buildFullMatrix(board, 8)
	grouped, inverse := m.uniqueCols()

	require.Len(t, inverse, m.cols())
	assert.Less(t, grouped.cols(), m.cols())

	// Re-expansion through the inverse mapping reproduces the original
	// matrix exactly.
	for i := 0; i < m.rows(); i++ {
		for j := 0; j < m.cols(); j++ {
			assert.Equal(t, m.cells[i][j], grouped.cells[i][inverse[j]],
				"row %d col %d", i, j)
		}
	}

	// Groups partition the unclicked cells.
	groups := findGroups(unclicked, inverse, grouped.cols())
	seen := make(map[Point]bool)
	for _, grp := range groups {
		require.NotEmpty(t, grp)
		for _, pt := range grp {
			assert.False(t, seen[pt], "cell %v in two groups", pt)
			seen[pt] = true
		}
	}
	assert.Len(t, seen, len(unclicked))
}

func TestRrefFixedFreePartition(t *testing.T) {
	t.Parallel()
	board := mustBoard(t, fiveByFive)
	m, _ := buildFullMatrix(board, 8)
	grouped, _ := m.uniqueCols()

	red, err := grouped.rref()
	require.NoError(t, err)

	assert.Len(t, red.fixed, len(red.cells))
	assert.Equal(t, grouped.cols(), len(red.fixed)+len(red.free))

	// Pivot columns carry a unit vector.
	for i, col := range red.fixed {
		for r := range red.cells {
			want := int64(0)
			if r == i {
				want = 1
			}
			assert.Zero(t, red.cells[r][col].Cmp(ratInt(want)),
				"pivot col %d row %d", col, r)
		}
	}
}

func TestRrefInconsistent(t *testing.T) {
	t.Parallel()
	m := &matrixVec{
		cells: [][]int{
			{1, 1},
			{1, 1},
		},
		vec: []int{1, 2},
	}
	_, err := m.rref()
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestFreeVarBoundsNeverUnderBound(t *testing.T) {
	t.Parallel()
	board := mustBoard(t, fiveByFive)
	m, unclicked := buildFullMatrix(board, 8)
	grouped, inverse := m.uniqueCols()
	groups := findGroups(unclicked, inverse, grouped.cols())
	red, err := grouped.rref()
	require.NoError(t, err)

	bounds := freeVarBounds(grouped, groups, red.free, 8, 1)
	configs, err := enumerateConfigs(context.Background(), red, groups, bounds, 1)
	require.NoError(t, err)

	// Every achieved free-variable value fits under its bound.
	for _, cfg := range configs {
		for k, col := range red.free {
			assert.LessOrEqual(t, cfg[col], bounds[k])
		}
	}
}
