package game

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestMinefieldGeneration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
	}{
		{
			name:   "9x9(10)",
			params: GameParams{Width: 9, Height: 9, MineCount: 10, PerCell: 1},
		},
		{
			name:   "16x16(99)",
			params: GameParams{Width: 16, Height: 16, MineCount: 99, PerCell: 1},
		},
		{
			name:   "8x8(30) multi-mine",
			params: GameParams{Width: 8, Height: 8, MineCount: 30, PerCell: 3},
		},
		{
			name:   "dense 4x4(20) cap 2",
			params: GameParams{Width: 4, Height: 4, MineCount: 20, PerCell: 2},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := testRand()
			f, err := NewMinefield(test.params, 2, 2, r)
			require.NoError(t, err)

			total := 0
			for _, n := range f.Cells {
				assert.GreaterOrEqual(t, n, 0)
				assert.LessOrEqual(t, n, test.params.PerCell)
				total += n
			}
			assert.Equal(t, test.params.MineCount, total)
			assert.False(t, f.HasMine(2, 2), "first-click cell must stay clear")
		})
	}
}

func TestMinefieldDistribution(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical generation test in short mode")
	}
	t.Parallel()

	// Over many generations every non-safe cell should receive mines
	// at a roughly uniform rate.
	params := GameParams{Width: 6, Height: 6, MineCount: 8, PerCell: 1}
	r := testRand()
	counts := make([]int, params.CellCount())
	const rounds = 2000
	for range rounds {
		f, err := NewMinefield(params, 0, 0, r)
		require.NoError(t, err)
		for i, n := range f.Cells {
			counts[i] += n
		}
	}

	safe := map[int]bool{0: true, 1: true, 6: true, 7: true}
	eligible := params.CellCount() - len(safe)
	expected := float64(rounds*params.MineCount) / float64(eligible)
	for i, c := range counts {
		if safe[i] {
			assert.Zero(t, c, "safe cell %d", i)
			continue
		}
		assert.InDelta(t, expected, float64(c), expected/2, "cell %d", i)
	}
}

func TestMinefieldRejectsBadParams(t *testing.T) {
	t.Parallel()

	bad := []GameParams{
		{Width: 0, Height: 5, MineCount: 1, PerCell: 1},
		{Width: 5, Height: 5, MineCount: 1, PerCell: 0},
		{Width: 5, Height: 5, MineCount: 0, PerCell: 1},
		{Width: 2, Height: 2, MineCount: 3, PerCell: 1}, // no room for a safe cell
	}
	for _, params := range bad {
		_, err := NewMinefield(params, 0, 0, testRand())
		assert.ErrorIs(t, err, ErrBadParams, "%+v", params)
	}
}

func TestNewGameOpensFirstCell(t *testing.T) {
	t.Parallel()
	params := GameParams{Width: 9, Height: 9, MineCount: 10, PerCell: 1}

	g, err := NewGame(params, 4, 4, testRand())
	require.NoError(t, err)

	assert.False(t, g.Dead)
	assert.True(t, g.PlayerGrid[4*9+4].IsRevealed())
}

func TestOpenFloodsOpening(t *testing.T) {
	t.Parallel()
	// Hand-built field: a single mine in the top-left corner. Opening
	// the far corner floods everything except the mine's own cell.
	f := &Minefield{Width: 4, Height: 4, PerCell: 1, Cells: make([]int, 16)}
	f.Cells[0] = 1
	g := &GameState{
		GameParams: GameParams{Width: 4, Height: 4, MineCount: 1, PerCell: 1},
		Field:      f,
		PlayerGrid: newUnknownGrid(16),
	}

	g.OpenCell(3, 3)

	for i, s := range g.PlayerGrid {
		if i == 0 {
			assert.Equal(t, Unknown, s)
		} else {
			assert.True(t, s.IsRevealed(), "cell %d", i)
		}
	}
	assert.True(t, g.Won, "all safe cells revealed")
}

func TestOpenMineLoses(t *testing.T) {
	t.Parallel()
	f := &Minefield{Width: 2, Height: 1, PerCell: 1, Cells: []int{1, 0}}
	g := &GameState{
		GameParams: GameParams{Width: 2, Height: 1, MineCount: 1, PerCell: 1},
		Field:      f,
		PlayerGrid: newUnknownGrid(2),
	}

	g.OpenCell(0, 0)

	assert.True(t, g.Dead)
	assert.Equal(t, Exploded, g.PlayerGrid[0])

	// Further moves are ignored.
	g.OpenCell(1, 0)
	assert.Equal(t, Unknown, g.PlayerGrid[1])
}

func TestFlagCycle(t *testing.T) {
	t.Parallel()
	f := &Minefield{Width: 2, Height: 1, PerCell: 2, Cells: []int{2, 0}}
	g := &GameState{
		GameParams: GameParams{Width: 2, Height: 1, MineCount: 2, PerCell: 2},
		Field:      f,
		PlayerGrid: newUnknownGrid(2),
	}

	g.FlagCell(0, 0)
	assert.Equal(t, FlaggedState(1), g.PlayerGrid[0])
	assert.Equal(t, 1, g.RemainingMines())

	g.FlagCell(0, 0)
	assert.Equal(t, FlaggedState(2), g.PlayerGrid[0])
	assert.Equal(t, 0, g.RemainingMines())

	g.FlagCell(0, 0)
	assert.Equal(t, Unknown, g.PlayerGrid[0])
	assert.Equal(t, 2, g.RemainingMines())

	// Flagged cells cannot be opened.
	g.FlagCell(0, 0)
	g.OpenCell(0, 0)
	assert.False(t, g.Dead)
}

func TestChord(t *testing.T) {
	t.Parallel()
	// 2x2 board, mine in the corner. Once the mine is flagged, chording
	// the 1 opens the remaining two cells and wins the game.
	f := &Minefield{Width: 2, Height: 2, PerCell: 1, Cells: []int{1, 0, 0, 0}}
	g := &GameState{
		GameParams: GameParams{Width: 2, Height: 2, MineCount: 1, PerCell: 1},
		Field:      f,
		PlayerGrid: newUnknownGrid(4),
	}

	g.OpenCell(1, 1)
	require.Equal(t, CellState(1), g.PlayerGrid[3])

	// Chord without the flag in place does nothing.
	g.ChordCell(1, 1)
	assert.Equal(t, Unknown, g.PlayerGrid[1])

	g.FlagCell(0, 0)
	g.ChordCell(1, 1)
	assert.True(t, g.PlayerGrid[1].IsRevealed())
	assert.True(t, g.PlayerGrid[2].IsRevealed())
	assert.True(t, g.Won)
}

func TestGobRoundTrip(t *testing.T) {
	t.Parallel()
	params := GameParams{Width: 9, Height: 9, MineCount: 10, PerCell: 1}
	g, err := NewGame(params, 4, 4, testRand())
	require.NoError(t, err)
	g.FlagCell(0, 0)

	b, err := g.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeGameState(b)
	require.NoError(t, err)
	assert.Equal(t, g.GameParams, decoded.GameParams)
	assert.Equal(t, g.PlayerGrid, decoded.PlayerGrid)
	assert.Equal(t, g.Field.Cells, decoded.Field.Cells)
}

func TestBoardParseAndRender(t *testing.T) {
	t.Parallel()

	b, err := ParseBoard(`
		# 2 F1
		1 0 #
	`)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Width)
	assert.Equal(t, 2, b.Height)

	// Flags read as unclicked through the solver view.
	_, ok := b.Num(2, 0)
	assert.False(t, ok)
	n, ok := b.Num(1, 0)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	reparsed, err := ParseBoard(b.String())
	require.NoError(t, err)
	assert.Equal(t, b.Cells, reparsed.Cells)

	_, err = ParseBoard("# #\n# # #")
	assert.Error(t, err)
	_, err = ParseBoard("")
	assert.Error(t, err)
}

func TestSolverBoardHidesFlags(t *testing.T) {
	t.Parallel()
	f := &Minefield{Width: 2, Height: 1, PerCell: 1, Cells: []int{1, 0}}
	g := &GameState{
		GameParams: GameParams{Width: 2, Height: 1, MineCount: 1, PerCell: 1},
		Field:      f,
		PlayerGrid: newUnknownGrid(2),
	}
	g.FlagCell(0, 0)

	board := g.Board()
	_, ok := board.Num(0, 0)
	assert.False(t, ok, "flagged cell must look unclicked to the solver")
}

func newUnknownGrid(n int) []CellState {
	grid := make([]CellState, n)
	for i := range grid {
		grid[i] = Unknown
	}
	return grid
}
