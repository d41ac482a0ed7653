package solver

import (
	"math/big"
)

// reducedSystem is the grouped matrix (augmented with its RHS) brought
// to reduced row-echelon form over the rationals. Pivot columns are
// "fixed": for any assignment to the free columns the pivot values are
// uniquely determined by back-substitution. Row i corresponds to pivot
// column fixed[i].
type reducedSystem struct {
	cells [][]*big.Rat // rows x cols, zero rows dropped
	vec   []*big.Rat
	fixed []int // pivot column indexes, ascending
	free  []int // non-pivot column indexes, ascending
}

// rref reduces the augmented system [m | vec] to reduced row-echelon
// form using exact rational arithmetic, so no pivot rounding can creep
// in. Returns ErrInfeasible if some row reduces to 0 = nonzero.
func (m *matrixVec) rref() (*reducedSystem, error) {
	rows, cols := m.rows(), m.cols()

	a := make([][]*big.Rat, rows)
	v := make([]*big.Rat, rows)
	for i := range a {
		a[i] = make([]*big.Rat, cols)
		for j := range a[i] {
			a[i][j] = new(big.Rat).SetInt64(int64(m.cells[i][j]))
		}
		v[i] = new(big.Rat).SetInt64(int64(m.vec[i]))
	}

	var fixed []int
	pivotRow := 0
	for col := 0; col < cols && pivotRow < rows; col++ {
		// Find a row with a nonzero entry in this column.
		sel := -1
		for i := pivotRow; i < rows; i++ {
			if a[i][col].Sign() != 0 {
				sel = i
				break
			}
		}
		if sel == -1 {
			continue
		}
		a[pivotRow], a[sel] = a[sel], a[pivotRow]
		v[pivotRow], v[sel] = v[sel], v[pivotRow]

		// Scale the pivot row so the pivot entry is 1.
		inv := new(big.Rat).Inv(a[pivotRow][col])
		for j := col; j < cols; j++ {
			a[pivotRow][j].Mul(a[pivotRow][j], inv)
		}
		v[pivotRow].Mul(v[pivotRow], inv)

		// Eliminate the column from every other row.
		for i := 0; i < rows; i++ {
			if i == pivotRow || a[i][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(a[i][col])
			for j := col; j < cols; j++ {
				t := new(big.Rat).Mul(factor, a[pivotRow][j])
				a[i][j].Sub(a[i][j], t)
			}
			t := new(big.Rat).Mul(factor, v[pivotRow])
			v[i].Sub(v[i], t)
		}

		fixed = append(fixed, col)
		pivotRow++
	}

	red := &reducedSystem{fixed: fixed}
	for j := 0; j < cols; j++ {
		if !containsInt(fixed, j) {
			red.free = append(red.free, j)
		}
	}

	// Keep nonzero rows; a zero row with a nonzero RHS means the board
	// state is contradictory.
	for i := 0; i < rows; i++ {
		zero := true
		for j := 0; j < cols; j++ {
			if a[i][j].Sign() != 0 {
				zero = false
				break
			}
		}
		if zero {
			if v[i].Sign() != 0 {
				return nil, ErrInfeasible
			}
			continue
		}
		red.cells = append(red.cells, a[i])
		red.vec = append(red.vec, v[i])
	}

	return red, nil
}

// fixedValues back-substitutes an assignment of the free variables and
// returns one rational per pivot row: vec - freeMatrix * freeVals.
// The result for row i is the value forced onto fixed column fixed[i].
func (r *reducedSystem) fixedValues(freeVals []int, out []*big.Rat) []*big.Rat {
	if out == nil {
		out = make([]*big.Rat, len(r.cells))
		for i := range out {
			out[i] = new(big.Rat)
		}
	}
	t := new(big.Rat)
	for i, row := range r.cells {
		out[i].Set(r.vec[i])
		for k, j := range r.free {
			if freeVals[k] == 0 || row[j].Sign() == 0 {
				continue
			}
			t.SetInt64(int64(freeVals[k]))
			t.Mul(t, row[j])
			out[i].Sub(out[i], t)
		}
	}
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
