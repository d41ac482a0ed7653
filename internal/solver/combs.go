package solver

import (
	"errors"
	"math"
	"math/big"
	"sync"
)

// errTooManyMines reports a mine count that cannot physically fit in a
// group; callers treat the offending configuration as invalid.
var errTooManyMines = errors.New("too many mines for group")

// combsKey identifies one exact-count computation: s cells, m mines,
// at most xmax mines per cell.
type combsKey struct {
	s, m, xmax int
}

// combsCache memoizes combs results process-wide. The count is a pure
// function of the key, so insert-if-absent is the only synchronization
// needed; cached values must never be mutated.
var combsCache sync.Map // combsKey -> *big.Int

// combs counts the arrangements of m mines among s interchangeable
// cells with at most xmax mines per cell.
//
// The single-capacity case deliberately uses the permutation count
// s!/(s-m)! rather than the combination count; the extra m! factor is
// constant across groups for a fixed configuration and cancels under
// normalization together with the 1/m! adjustment applied per group
// when weighing configurations.
func combs(s, m, xmax int) *big.Int {
	key := combsKey{s, m, xmax}
	if v, ok := combsCache.Load(key); ok {
		return v.(*big.Int)
	}

	var v *big.Int
	switch {
	case m > s*xmax:
		v = big.NewInt(0)
	case s == 1:
		v = big.NewInt(1)
	case xmax == 1:
		// s! / (s-m)!
		v = new(big.Int).MulRange(int64(s-m+1), int64(s))
	case xmax >= m:
		v = new(big.Int).Exp(big.NewInt(int64(s)), big.NewInt(int64(m)), nil)
	default:
		v = boundedCombs(s, m, xmax)
	}

	actual, _ := combsCache.LoadOrStore(key, v)
	return actual.(*big.Int)
}

// logCombs is combs in the log domain, so that ratios of counts can be
// formed without materializing huge integers more than once per cache
// entry.
func logCombs(s, m, xmax int) (float64, error) {
	if m > s*xmax {
		return 0, errTooManyMines
	}
	if s == 1 || m == 0 {
		return 0, nil
	}
	if xmax >= m && xmax > 1 {
		return float64(m) * math.Log(float64(s)), nil
	}
	return bigLog(combs(s, m, xmax)), nil
}

// unsafeProb converts a group's exact mine count into the probability
// that one specific cell of the group holds at least one mine. Closed
// forms cover the unconstrained and single-capacity cases; the general
// bounded case uses the identity
//
//	P(cell empty) = combs(s-1, m, xmax) / combs(s, m, xmax)
//
// evaluated as an exponential of a log difference to dodge overflow.
func unsafeProb(s, m, xmax int) float64 {
	switch {
	case m > s*xmax:
		return 0
	case xmax == 1:
		return float64(m) / float64(s)
	case xmax >= m:
		return 1 - math.Pow(1-1/float64(s), float64(m))
	case m > xmax*(s-1):
		return 1
	default:
		smaller, err := logCombs(s-1, m, xmax)
		if err != nil {
			return 1
		}
		full, err := logCombs(s, m, xmax)
		if err != nil {
			return 1
		}
		return 1 - math.Exp(smaller-full)
	}
}

// boundedCombs handles the general bounded-capacity case by summing
// over every non-increasing composition of m into s parts of size at
// most xmax. A composition c contributes
//
//	s! * m! / (prod_v count_c(v)! * (v!)^count_c(v))
//
// where v ranges over the distinct part values of c (zero included).
func boundedCombs(s, m, xmax int) *big.Int {
	total := new(big.Int)
	part := make([]int, s)

	var rec func(i, remaining, prev int)
	rec = func(i, remaining, prev int) {
		if i == s {
			if remaining == 0 {
				total.Add(total, compositionCount(s, m, part))
			}
			return
		}
		hi := prev
		if xmax < hi {
			hi = xmax
		}
		if remaining < hi {
			hi = remaining
		}
		for v := hi; v >= 0; v-- {
			if v*(s-i) < remaining {
				break
			}
			part[i] = v
			rec(i+1, remaining-v, v)
		}
	}
	rec(0, m, m) // prev starts unconstrained; xmax clamps below
	return total
}

func compositionCount(s, m int, part []int) *big.Int {
	counts := make(map[int]int)
	for _, v := range part {
		counts[v]++
	}
	num := new(big.Int).MulRange(1, int64(s))
	num.Mul(num, new(big.Int).MulRange(1, int64(m)))
	den := big.NewInt(1)
	for v, c := range counts {
		den.Mul(den, new(big.Int).MulRange(1, int64(c)))
		vFac := new(big.Int).MulRange(1, int64(v))
		den.Mul(den, vFac.Exp(vFac, big.NewInt(int64(c)), nil))
	}
	// The quotient is a product of multinomial coefficients, so the
	// division is exact.
	return num.Div(num, den)
}

// bigLog returns the natural logarithm of a positive big integer
// without converting it to a float64 directly, which would overflow
// past ~1e308.
func bigLog(x *big.Int) float64 {
	f := new(big.Float).SetInt(x)
	mant := new(big.Float)
	exp := f.MantExp(mant)
	m, _ := mant.Float64()
	return math.Log(m) + float64(exp)*math.Ln2
}

// logFac is log(m!).
func logFac(m int) float64 {
	lg, _ := math.Lgamma(float64(m) + 1)
	return lg
}
