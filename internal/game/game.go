// Package game implements the minesweeper game state machine the
// probability engine observes: minefield generation, click/flag/chord
// handling and win/loss transitions.
package game

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// GameState is a full game in progress: the hidden minefield plus the
// player's knowledge grid.
type GameState struct {
	GameParams
	Field      *Minefield
	PlayerGrid []CellState
	Dead, Won  bool
}

// NewGame generates a minefield safe around the first click and opens
// that first cell.
func NewGame(params GameParams, x, y int, r *rand.Rand) (*GameState, error) {
	if !params.ValidatePosition(x, y) {
		return nil, fmt.Errorf("%w: position %d:%d", ErrBadParams, x, y)
	}
	field, err := NewMinefield(params, x, y, r)
	if err != nil {
		return nil, err
	}

	grid := make([]CellState, params.CellCount())
	for i := range grid {
		grid[i] = Unknown
	}
	g := &GameState{
		GameParams: params,
		Field:      field,
		PlayerGrid: grid,
	}
	g.OpenCell(x, y)
	if g.Dead {
		return nil, fmt.Errorf("mine in starting cell %d:%d", x, y)
	}
	return g, nil
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var g GameState
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g GameState) Over() bool { return g.Dead || g.Won }

// OpenCell opens an unclicked cell. Flagged cells are ignored. Opening
// a mined cell ends the game; opening a zero floods outward through the
// whole opening, breadth first.
func (g *GameState) OpenCell(x, y int) {
	if g.Over() || g.PlayerGrid[y*g.Width+x] != Unknown {
		return
	}
	if g.Field.HasMine(x, y) {
		g.PlayerGrid[y*g.Width+x] = Exploded
		g.Dead = true
		return
	}

	var q deque.Deque[int]
	q.PushBack(y*g.Width + x)
	for q.Len() > 0 {
		i := q.PopFront()
		if g.PlayerGrid[i] != Unknown {
			continue
		}
		n := g.Field.NumberAt(i%g.Width, i/g.Width)
		g.PlayerGrid[i] = CellState(n)
		if n != 0 {
			continue
		}
		for _, nbr := range neighbourIndexes(i%g.Width, i/g.Width, g.Width, g.Height) {
			if g.PlayerGrid[nbr] == Unknown && g.Field.Cells[nbr] == 0 {
				q.PushBack(nbr)
			}
		}
	}

	g.checkWin()
}

// FlagCell cycles the flags on an unclicked cell: none, 1, ... PerCell,
// none again. Flags never end the game and are never trusted by the
// solver.
func (g *GameState) FlagCell(x, y int) {
	if g.Over() {
		return
	}
	i := y*g.Width + x
	s := g.PlayerGrid[i]
	if s.IsRevealed() || s == Exploded {
		return
	}
	next := s.Flags() + 1
	if next > g.PerCell {
		g.PlayerGrid[i] = Unknown
		return
	}
	g.PlayerGrid[i] = FlaggedState(next)
}

// ChordCell opens every unflagged neighbour of a revealed number whose
// planted flags already account for it.
func (g *GameState) ChordCell(x, y int) {
	if g.Over() {
		return
	}
	s := g.PlayerGrid[y*g.Width+x]
	if !s.IsRevealed() {
		return
	}
	flagged := 0
	for _, i := range neighbourIndexes(x, y, g.Width, g.Height) {
		flagged += g.PlayerGrid[i].Flags()
	}
	if flagged != int(s) {
		return
	}
	for _, i := range neighbourIndexes(x, y, g.Width, g.Height) {
		if g.PlayerGrid[i] == Unknown {
			g.OpenCell(i%g.Width, i/g.Width)
			if g.Dead {
				return
			}
		}
	}
}

// RemainingMines is the advisory countdown shown to the player: total
// mines minus planted flags. It can go negative when the player
// over-flags.
func (g GameState) RemainingMines() int {
	flags := 0
	for _, s := range g.PlayerGrid {
		flags += s.Flags()
	}
	return g.MineCount - flags
}

// Board snapshots the player's knowledge for rendering or solving.
func (g GameState) Board() *Board {
	cells := make([]CellState, len(g.PlayerGrid))
	copy(cells, g.PlayerGrid)
	return &Board{Width: g.Width, Height: g.Height, Cells: cells}
}

// RevealMines exposes every mined cell once the game is over. The
// exploded cell keeps its marker.
func (g *GameState) RevealMines() {
	if !g.Over() {
		return
	}
	for i, s := range g.PlayerGrid {
		if s == Exploded || s.IsRevealed() {
			continue
		}
		if n := g.Field.Cells[i]; n > 0 {
			g.PlayerGrid[i] = MinedState(n)
		}
	}
}

// RevealAll uncovers the whole board and ends the game. Used when the
// player forfeits.
func (g *GameState) RevealAll() {
	if !g.Over() {
		g.Dead = true
	}
	for i, s := range g.PlayerGrid {
		if s == Exploded || s.IsRevealed() {
			continue
		}
		if n := g.Field.Cells[i]; n > 0 {
			g.PlayerGrid[i] = MinedState(n)
		} else {
			g.PlayerGrid[i] = CellState(g.Field.NumberAt(i%g.Width, i/g.Width))
		}
	}
}

func (g *GameState) checkWin() {
	for i, s := range g.PlayerGrid {
		if !s.IsRevealed() && g.Field.Cells[i] == 0 {
			return
		}
	}
	g.Won = true
}
