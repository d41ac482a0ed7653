package solver

import (
	"fmt"
	"strings"
)

// matrixVec is a set of simultaneous linear equations in matrix form:
// one row of integer coefficients per equation plus a right-hand-side
// value in vec.
type matrixVec struct {
	cells [][]int
	vec   []int
}

func (m matrixVec) rows() int { return len(m.cells) }

func (m matrixVec) cols() int {
	if len(m.cells) == 0 {
		return 0
	}
	return len(m.cells[0])
}

func (m matrixVec) String() string {
	var b strings.Builder
	for i, row := range m.cells {
		fmt.Fprintf(&b, "|%v | %d|\n", row, m.vec[i])
	}
	return b.String()
}

// buildFullMatrix converts the visible board into simultaneous
// equations over the unclicked cells. Every revealed number with at
// least one unclicked neighbour contributes a row; the final row is
// the global mine-count constraint with coefficient 1 for every
// unclicked cell. Returns the matrix and the ordered unclicked cells
// its columns index.
func buildFullMatrix(b Board, mines int) (*matrixVec, []Point) {
	w, h := b.Size()

	var unclicked []Point
	colOf := make(map[Point]int)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, ok := b.Num(x, y); !ok {
				colOf[Point{x, y}] = len(unclicked)
				unclicked = append(unclicked, Point{x, y})
			}
		}
	}

	m := &matrixVec{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			num, ok := b.Num(x, y)
			if !ok {
				continue
			}
			row := make([]int, len(unclicked))
			informative := false
			for _, nbr := range neighbours(x, y, w, h) {
				if j, ok := colOf[nbr]; ok {
					row[j]++
					informative = true
				}
			}
			if informative {
				m.cells = append(m.cells, row)
				m.vec = append(m.vec, num)
			}
		}
	}

	global := make([]int, len(unclicked))
	for j := range global {
		global[j] = 1
	}
	m.cells = append(m.cells, global)
	m.vec = append(m.vec, mines)

	return m, unclicked
}

// neighbours returns the 8-neighbourhood of (x, y) clipped to the
// board, in scan order. No wraparound.
func neighbours(x, y, w, h int) []Point {
	nbrs := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			nbrs = append(nbrs, Point{nx, ny})
		}
	}
	return nbrs
}

// uniqueCols drops duplicate columns, keeping the first occurrence of
// each distinct column, and returns the inverse mapping from original
// column index to deduplicated column index. Re-expanding the result
// through the inverse mapping reproduces the original matrix exactly.
func (m *matrixVec) uniqueCols() (*matrixVec, []int) {
	var (
		kept    [][]int // distinct columns, in first-seen order
		inverse = make([]int, m.cols())
	)
	for j := 0; j < m.cols(); j++ {
		col := make([]int, m.rows())
		for i := range m.cells {
			col[i] = m.cells[i][j]
		}
		found := -1
		for k, c := range kept {
			if equalInts(c, col) {
				found = k
				break
			}
		}
		if found == -1 {
			found = len(kept)
			kept = append(kept, col)
		}
		inverse[j] = found
	}

	grouped := &matrixVec{
		cells: make([][]int, m.rows()),
		vec:   m.vec,
	}
	for i := range grouped.cells {
		grouped.cells[i] = make([]int, len(kept))
		for k, col := range kept {
			grouped.cells[i][k] = col[i]
		}
	}
	return grouped, inverse
}

// findGroups maps the column dedup inverse back onto cell coordinates:
// group k holds every unclicked cell whose column collapsed into
// deduplicated column k. Cells within a group are interchangeable for
// counting purposes.
func findGroups(unclicked []Point, inverse []int, groupCount int) [][]Point {
	groups := make([][]Point, groupCount)
	for cellInd, groupInd := range inverse {
		groups[groupInd] = append(groups[groupInd], unclicked[cellInd])
	}
	return groups
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
