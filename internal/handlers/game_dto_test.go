package handlers

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LewisGaul/minegauler-sub000/internal/game"
	"github.com/LewisGaul/minegauler-sub000/internal/solver"
)

func TestParseCreateNewGameDTO(t *testing.T) {
	t.Parallel()

	query, err := url.ParseQuery("width=8&height=8&mine_count=10&x=3&y=4")
	require.NoError(t, err)

	dto, err := ParseCreateNewGameDTO(query)
	require.NoError(t, err)
	assert.Equal(t, CreateNewGameDTO{Width: 8, Height: 8, MineCount: 10, PerCell: 1}, dto)

	query, err = url.ParseQuery("width=8&height=8&mine_count=10&per_cell=3")
	require.NoError(t, err)

	dto, err = ParseCreateNewGameDTO(query)
	require.NoError(t, err)
	assert.Equal(t, 3, dto.PerCell)

	query, err = url.ParseQuery("width=8&height=8")
	require.NoError(t, err)

	_, err = ParseCreateNewGameDTO(query)
	assert.Error(t, err)
}

func TestParsePosition(t *testing.T) {
	t.Parallel()

	query, err := url.ParseQuery("x=3&y=4&move=open")
	require.NoError(t, err)

	pos, err := ParsePosition(query)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 3, Y: 4}, pos)

	query, err = url.ParseQuery("x=3")
	require.NoError(t, err)

	_, err = ParsePosition(query)
	assert.Error(t, err)
}

func TestParseGameMove(t *testing.T) {
	t.Parallel()

	for s, want := range map[string]GameMove{
		"open": Open, "Flag": Flag, "CHORD": Chord,
	} {
		move, err := ParseGameMove(s)
		require.NoError(t, err)
		assert.Equal(t, want, move)
	}

	_, err := ParseGameMove("explode")
	assert.ErrorIs(t, err, ErrBadMove)
}

func TestNewProbabilityGridDTO(t *testing.T) {
	t.Parallel()

	board, err := game.ParseBoard(`
		1 1 #
		# # #
	`)
	require.NoError(t, err)

	state := &game.GameState{
		GameParams: game.GameParams{Width: 3, Height: 2, MineCount: 1, PerCell: 1},
		PlayerGrid: board.Cells,
	}

	grid, err := solver.Solve(context.Background(), board, 1, 1)
	require.NoError(t, err)

	dto := NewProbabilityGridDTO(42, state, grid)
	assert.Equal(t, "42", dto.GameSessionId)
	assert.Len(t, dto.Cells, 4)

	// Row-major order, revealed cells skipped.
	assert.Equal(t, ProbabilityCell{X: 2, Y: 0, Probability: dto.Cells[0].Probability}, dto.Cells[0])
	for _, c := range dto.Cells {
		assert.GreaterOrEqual(t, c.Probability, 0.0)
		assert.LessOrEqual(t, c.Probability, 1.0)
	}
}
