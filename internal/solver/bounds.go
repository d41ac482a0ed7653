package solver

// freeVarBounds computes an integer upper bound for each free variable,
// used to size the enumeration. A group variable can never exceed its
// capacity (group size times the per-cell cap), the total mine count,
// or the RHS of any original row that covers it: every row of the
// grouped system has non-negative coefficients and all variables are
// non-negative, so coef*x <= rhs holds row by row. These bounds are a
// linear relaxation and may be loose, but are never below the true
// maximum, which is the only correctness requirement here.
func freeVarBounds(
	grouped *matrixVec, groups [][]Point, free []int, mines, perCell int,
) []int {
	bounds := make([]int, len(free))
	for k, j := range free {
		bound := len(groups[j]) * perCell
		if mines < bound {
			bound = mines
		}
		for i, row := range grouped.cells {
			if row[j] <= 0 {
				continue
			}
			if v := grouped.vec[i] / row[j]; v < bound {
				bound = v
			}
		}
		if bound < 0 {
			bound = 0
		}
		bounds[k] = bound
	}
	return bounds
}
