package solver

import (
	"context"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// config is one complete assignment of mine counts to groups that
// satisfies every constraint row exactly.
type config []int

// parallelThreshold is the free-variable search-space size above which
// the enumeration is fanned out across goroutines. Each combination is
// independent, so parallelism changes throughput only, never results.
const parallelThreshold = 1 << 12

// enumerateConfigs iterates the full rectangular space of free-variable
// assignments, derives the fixed variables for each by exact rational
// back-substitution and keeps only assignments whose derived values are
// non-negative integers within their group capacity. Distinct free
// assignments always produce distinct configurations (the free values
// are part of the configuration), so the result needs no further
// deduplication; output order is lexicographic in the free values.
func enumerateConfigs(
	ctx context.Context,
	red *reducedSystem,
	groups [][]Point,
	bounds []int,
	perCell int,
) ([]config, error) {
	e := &enumerator{red: red, groups: groups, bounds: bounds, perCell: perCell}

	if len(red.free) == 0 {
		// Fully determined system; the single candidate either checks
		// out or there is no solution at all.
		cfg, ok := e.derive(nil, nil)
		if !ok {
			return nil, nil
		}
		return []config{cfg}, nil
	}

	size := 1
	for _, b := range bounds {
		size *= b + 1
		if size > parallelThreshold {
			break
		}
	}

	if size <= parallelThreshold {
		return e.enumerate(ctx, -1)
	}

	// Split on the first free variable; workers share nothing but the
	// read-only reduced system.
	results := make([][]config, bounds[0]+1)
	g, ctx := errgroup.WithContext(ctx)
	for first := 0; first <= bounds[0]; first++ {
		g.Go(func() error {
			cfgs, err := e.enumerate(ctx, first)
			if err != nil {
				return err
			}
			results[first] = cfgs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var configs []config
	for _, cfgs := range results {
		configs = append(configs, cfgs...)
	}
	return configs, nil
}

type enumerator struct {
	red     *reducedSystem
	groups  [][]Point
	bounds  []int
	perCell int
}

// enumerate walks the free-variable space in lexicographic (odometer)
// order. If first >= 0 the leading free variable is pinned to it and
// only the remaining variables are iterated.
func (e *enumerator) enumerate(ctx context.Context, first int) ([]config, error) {
	freeVals := make([]int, len(e.red.free))
	lo := 0
	if first >= 0 {
		freeVals[0] = first
		lo = 1
	}

	var (
		configs []config
		scratch []*big.Rat
		ticks   int
	)
	for {
		if ticks++; ticks&0x3ff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		scratch = e.red.fixedValues(freeVals, scratch)
		if cfg, ok := e.derive(freeVals, scratch); ok {
			configs = append(configs, cfg)
		}

		// Advance the odometer.
		i := len(freeVals) - 1
		for ; i >= lo; i-- {
			if freeVals[i] < e.bounds[i] {
				freeVals[i]++
				break
			}
			freeVals[i] = 0
		}
		if i < lo {
			return configs, nil
		}
	}
}

// derive assembles a full configuration from a free assignment and its
// back-substituted fixed values, rejecting it unless every fixed value
// is a non-negative integer no larger than its group's capacity.
func (e *enumerator) derive(freeVals []int, fixedVals []*big.Rat) (config, bool) {
	if fixedVals == nil {
		fixedVals = e.red.fixedValues(freeVals, nil)
	}

	cols := len(e.red.fixed) + len(e.red.free)
	cfg := make(config, cols)

	for i, col := range e.red.fixed {
		v := fixedVals[i]
		if !v.IsInt() || v.Sign() < 0 {
			return nil, false
		}
		n := int(v.Num().Int64())
		if n > len(e.groups[col])*e.perCell {
			return nil, false
		}
		cfg[col] = n
	}
	for k, col := range e.red.free {
		cfg[col] = freeVals[k]
	}
	return cfg, true
}
