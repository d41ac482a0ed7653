package game

import (
	"math/rand/v2"
)

// Minefield is the hidden truth of a game: the number of mines in each
// cell (0 for clear cells, up to PerCell otherwise).
type Minefield struct {
	Width, Height int
	PerCell       int
	Cells         []int
}

// NewMinefield places mines at random, keeping the first-clicked cell
// clear and, when capacity allows, its whole neighbourhood too so the
// first click yields an opening. Placement draws from a shuffled pool
// holding each eligible coordinate PerCell times, which caps any one
// cell at PerCell mines by construction.
func NewMinefield(p GameParams, safeX, safeY int, r *rand.Rand) (*Minefield, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	safe := map[int]bool{safeY*p.Width + safeX: true}
	for _, nbr := range neighbourIndexes(safeX, safeY, p.Width, p.Height) {
		safe[nbr] = true
	}

	available := make([]int, 0, p.CellCount())
	for i := 0; i < p.CellCount(); i++ {
		if !safe[i] {
			available = append(available, i)
		}
	}
	if p.MineCount > len(available)*p.PerCell {
		// Too dense for a guaranteed opening: only the clicked cell
		// itself stays clear.
		available = available[:0]
		for i := 0; i < p.CellCount(); i++ {
			if i != safeY*p.Width+safeX {
				available = append(available, i)
			}
		}
	}

	pool := make([]int, 0, len(available)*p.PerCell)
	for range p.PerCell {
		pool = append(pool, available...)
	}
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	f := &Minefield{
		Width:   p.Width,
		Height:  p.Height,
		PerCell: p.PerCell,
		Cells:   make([]int, p.CellCount()),
	}
	for _, i := range pool[:p.MineCount] {
		f.Cells[i]++
	}
	return f, nil
}

func (f Minefield) MinesAt(x, y int) int { return f.Cells[y*f.Width+x] }

func (f Minefield) HasMine(x, y int) bool { return f.MinesAt(x, y) > 0 }

// NumberAt is the count shown when (x, y) is opened: the total number
// of mines in the 8 surrounding cells.
func (f Minefield) NumberAt(x, y int) int {
	n := 0
	for _, i := range neighbourIndexes(x, y, f.Width, f.Height) {
		n += f.Cells[i]
	}
	return n
}

func neighbourIndexes(x, y, w, h int) []int {
	nbrs := make([]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			nbrs = append(nbrs, ny*w+nx)
		}
	}
	return nbrs
}
