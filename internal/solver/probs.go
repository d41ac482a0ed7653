package solver

import (
	"math"
)

// aggregateProbs turns the configuration set into a per-cell unsafe
// probability grid. Configuration weights are formed and normalized in
// the log domain (weights can span hundreds of orders of magnitude on
// large boards), then marginalized per group into a mine-count
// distribution, which the counting identities of combs.go convert into
// a single-cell probability shared by every cell of the group.
func aggregateProbs(
	configs []config, groups [][]Point, perCell, width, height int,
) (*Grid, error) {
	logWeights := make([]float64, 0, len(configs))
	kept := make([]config, 0, len(configs))
	for _, cfg := range configs {
		lw := 0.0
		valid := true
		for i, m := range cfg {
			lc, err := logCombs(len(groups[i]), m, perCell)
			if err != nil {
				// Capacity violations are filtered during enumeration;
				// treat a straggler as an invalid configuration.
				Log.WithField("config", cfg).Warn("invalid configuration")
				valid = false
				break
			}
			lw += lc - logFac(m)
		}
		if valid {
			logWeights = append(logWeights, lw)
			kept = append(kept, cfg)
		}
	}
	if len(kept) == 0 {
		return nil, ErrInfeasible
	}

	// log-sum-exp normalizer.
	maxLW := math.Inf(-1)
	for _, lw := range logWeights {
		if lw > maxLW {
			maxLW = lw
		}
	}
	var denom float64
	for _, lw := range logWeights {
		denom += math.Exp(lw - maxLW)
	}
	cfgProbs := make([]float64, len(logWeights))
	for i, lw := range logWeights {
		cfgProbs[i] = math.Exp(lw-maxLW) / denom
	}

	grid := NewGrid(width, height)
	for i, grp := range groups {
		// Marginal distribution over the number of mines in this group.
		dist := make([]float64, len(grp)*perCell+1)
		for j, cfg := range kept {
			dist[cfg[i]] += cfgProbs[j]
		}

		var unsafe float64
		for m, p := range dist {
			if p == 0 {
				continue
			}
			unsafe += p * unsafeProb(len(grp), m, perCell)
		}
		// Trim float noise so forced cells come out at exactly 0 or 1.
		unsafe = math.Round(unsafe*1e5) / 1e5
		if unsafe < 0 || unsafe > 1 {
			return nil, errProbRange(unsafe)
		}

		for _, coord := range grp {
			grid.set(coord, unsafe)
		}
	}

	return grid, nil
}
