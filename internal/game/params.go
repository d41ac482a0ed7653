package game

import (
	"errors"
	"fmt"
)

// GameParams describes a board variant. PerCell is 1 for standard
// minesweeper; values above 1 allow several mines to share a cell.
type GameParams struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
	PerCell   int `json:"per_cell"`
}

var ErrBadParams = errors.New("bad game parameters")

func (p GameParams) Validate() error {
	if p.Width < 1 || p.Height < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrBadParams, p.Width, p.Height)
	}
	if p.PerCell < 1 {
		return fmt.Errorf("%w: per-cell cap %d", ErrBadParams, p.PerCell)
	}
	if p.MineCount < 1 {
		return fmt.Errorf("%w: mine count %d", ErrBadParams, p.MineCount)
	}
	// At least the starting cell must stay clear.
	if p.MineCount >= (p.CellCount()-1)*p.PerCell {
		return fmt.Errorf(
			"%w: %d mines will not fit a %dx%d board with up to %d per cell",
			ErrBadParams, p.MineCount, p.Width, p.Height, p.PerCell,
		)
	}
	return nil
}

func (p GameParams) CellCount() int { return p.Width * p.Height }

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}
