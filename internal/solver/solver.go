// Package solver computes exact per-cell mine probabilities for a
// partially revealed minesweeper board by enumerating every mine
// placement consistent with the visible numbers and the total mine
// count, and counting exactly how many ways each is realizable.
//
// The pipeline is: board -> linear system -> column dedup into groups
// -> exact-rational RREF -> free-variable bounds -> configuration
// enumeration -> combinatorial weighing -> normalized per-cell grid.
// The problem is combinatorial; the enumeration step is exponential in
// the number of free variables, which is why Solve takes a context.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

var (
	// ErrInvalidInput rejects calls whose scalars cannot describe any
	// board: negative mine count, per-cell cap below 1, or more mines
	// than the unclicked cells can physically hold.
	ErrInvalidInput = errors.New("invalid solver input")

	// ErrInfeasible means no mine placement satisfies the board. It is
	// a legitimate, reportable outcome (contradictory flags, corrupted
	// snapshot), never accompanied by a partial grid.
	ErrInfeasible = errors.New("no consistent mine placement")
)

func errProbRange(p float64) error {
	return fmt.Errorf("probability %f outside [0,1]: %w", p, ErrInfeasible)
}

// Point is a board coordinate, x across, y down.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board is the read-only view the engine needs of the surrounding game.
// Num reports the revealed neighbour-mine count at a coordinate, with
// ok false for unclicked cells. Flagged-but-unclicked cells must be
// presented as unclicked: flags are advisory and are never treated as
// certainties here.
type Board interface {
	Size() (width, height int)
	Num(x, y int) (n int, ok bool)
}

// Grid holds one unsafe probability per unclicked coordinate; revealed
// coordinates have no entry.
type Grid struct {
	width, height int
	probs         map[Point]float64
}

func NewGrid(width, height int) *Grid {
	return &Grid{width: width, height: height, probs: make(map[Point]float64)}
}

func (g *Grid) Size() (width, height int) { return g.width, g.height }

// At returns the probability that the cell at (x, y) contains at least
// one mine; ok is false for revealed cells.
func (g *Grid) At(x, y int) (p float64, ok bool) {
	p, ok = g.probs[Point{x, y}]
	return
}

func (g *Grid) Len() int { return len(g.probs) }

func (g *Grid) set(pt Point, p float64) { g.probs[pt] = p }

// Solve computes the probability that each unclicked cell of b contains
// at least one mine, given the total number of mines still hidden and
// the per-cell cap (1 for standard boards, above 1 for the multi-mine
// variant).
//
// The computation is deterministic and has no side effects beyond a
// pure combinatorial-count cache; concurrent calls are safe. The
// context is consulted inside the enumeration loop, since pathological
// boards are exponential.
func Solve(ctx context.Context, b Board, mines, perCell int) (*Grid, error) {
	if mines < 0 {
		return nil, fmt.Errorf("mine count %d is negative: %w", mines, ErrInvalidInput)
	}
	if perCell < 1 {
		return nil, fmt.Errorf("per-cell cap %d below 1: %w", perCell, ErrInvalidInput)
	}

	width, height := b.Size()

	full, unclicked := buildFullMatrix(b, mines)
	if mines > len(unclicked)*perCell {
		return nil, fmt.Errorf(
			"%d mines exceed capacity of %d unclicked cells (cap %d): %w",
			mines, len(unclicked), perCell, ErrInvalidInput,
		)
	}
	if len(unclicked) == 0 {
		// Nothing left to predict; mines == 0 is implied by the
		// capacity check above.
		return NewGrid(width, height), nil
	}

	grouped, inverse := full.uniqueCols()
	groups := findGroups(unclicked, inverse, grouped.cols())

	Log.WithFields(logrus.Fields{
		"rows":   full.rows(),
		"cells":  len(unclicked),
		"groups": len(groups),
	}).Debug("built constraint system")

	red, err := grouped.rref()
	if err != nil {
		return nil, err
	}

	bounds := freeVarBounds(grouped, groups, red.free, mines, perCell)

	configs, err := enumerateConfigs(ctx, red, groups, bounds, perCell)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, ErrInfeasible
	}

	Log.WithField("configs", len(configs)).Debug("enumerated configurations")

	return aggregateProbs(configs, groups, perCell, width, height)
}
