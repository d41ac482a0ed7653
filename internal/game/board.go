package game

import (
	"fmt"
	"strconv"
	"strings"
)

// CellState is one cell of the player's knowledge grid. Values >= 0 are
// revealed neighbour-mine counts (which can exceed 8 on multi-mine
// boards). Negative values are unclicked: Unknown, flag markers, or the
// exploded cell after a loss.
type CellState int

const (
	Unknown  CellState = -1
	Exploded CellState = -100
)

// FlaggedState encodes n planted flags, n >= 1.
func FlaggedState(n int) CellState { return CellState(-1 - n) }

// MinedState encodes n mines shown after the game ends, n >= 1.
func MinedState(n int) CellState { return CellState(-100 - n) }

// Mines is the number of mines shown on the cell, 0 while it is hidden.
func (s CellState) Mines() int {
	if s < Exploded {
		return int(-s) - 100
	}
	return 0
}

// Flags is the number of flags planted on the cell, 0 if none.
func (s CellState) Flags() int {
	if s < Unknown && s > Exploded {
		return int(-s - 1)
	}
	return 0
}

func (s CellState) IsRevealed() bool { return s >= 0 }

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "#"
	case s == Exploded:
		return "!"
	case s >= 0:
		return strconv.Itoa(int(s))
	case s < Exploded:
		return "M" + strconv.Itoa(s.Mines())
	default:
		return "F" + strconv.Itoa(s.Flags())
	}
}

// Board is a read-only snapshot of the player's knowledge, in the shape
// the probability engine consumes.
type Board struct {
	Width, Height int
	Cells         []CellState
}

func (b Board) Size() (width, height int) { return b.Width, b.Height }

// Num implements the solver's board view. Flagged cells report ok ==
// false just like plain unclicked ones: flags are advisory.
func (b Board) Num(x, y int) (int, bool) {
	s := b.Cells[y*b.Width+x]
	if s >= 0 {
		return int(s), true
	}
	return 0, false
}

func (b Board) At(x, y int) CellState { return b.Cells[y*b.Width+x] }

func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.At(x, y).String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard builds a Board from a whitespace-separated text grid:
// "#" for unclicked, "F" or "Fn" for flags, a number for revealed
// cells. The inverse of Board.String, handy in tests and bot commands.
func ParseBoard(s string) (*Board, error) {
	var cells []CellState
	width := -1

	lines := strings.Split(strings.TrimSpace(s), "\n")
	for _, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		if width == -1 {
			width = len(tokens)
		} else if len(tokens) != width {
			return nil, fmt.Errorf("ragged board: row %q has %d cells, want %d",
				line, len(tokens), width)
		}
		for _, tok := range tokens {
			switch {
			case tok == "#":
				cells = append(cells, Unknown)
			case tok == "!":
				cells = append(cells, Exploded)
			case tok[0] == 'F' || tok[0] == 'M':
				n := 1
				if len(tok) > 1 {
					var err error
					if n, err = strconv.Atoi(tok[1:]); err != nil || n < 1 {
						return nil, fmt.Errorf("bad marker token %q", tok)
					}
				}
				if tok[0] == 'F' {
					cells = append(cells, FlaggedState(n))
				} else {
					cells = append(cells, MinedState(n))
				}
			default:
				n, err := strconv.Atoi(tok)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("bad cell token %q", tok)
				}
				cells = append(cells, CellState(n))
			}
		}
	}
	if width <= 0 {
		return nil, fmt.Errorf("empty board")
	}
	return &Board{Width: width, Height: len(cells) / width, Cells: cells}, nil
}
