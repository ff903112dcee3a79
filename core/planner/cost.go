package planner

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/raidplan/core/model"
)

func powers(run []model.Character) []float64 {
	out := make([]float64, len(run))
	for i, m := range run {
		out[i] = m.CombatPower
	}
	return out
}

// runAverage returns the mean combat power of run, zero when empty.
func runAverage(run []model.Character) float64 {
	if len(run) == 0 {
		return 0
	}
	return floats.Sum(powers(run)) / float64(len(run))
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// popStdDev is the population standard deviation of the finite values, zero
// for fewer than two values.
func popStdDev(values []float64) float64 {
	vs := finite(values)
	if len(vs) <= 1 {
		return 0
	}
	_, variance := stat.PopMeanVariance(vs, nil)
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}

// median averages the two middle values for even counts.
func median(values []float64) float64 {
	vs := finite(values)
	if len(vs) == 0 {
		return 0
	}
	sort.Float64s(vs)
	mid := len(vs) / 2
	if len(vs)%2 == 1 {
		return vs[mid]
	}
	return (vs[mid-1] + vs[mid]) / 2
}

// spread returns max minus min of values, zero when empty.
func spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values) - floats.Min(values)
}

func nonEmptyAverages(rs runSet) []float64 {
	var avgs []float64
	for _, r := range rs {
		if len(r) > 0 {
			avgs = append(avgs, runAverage(r))
		}
	}
	return avgs
}

// varianceCost scores how uneven the runs are. The role dimension sums the
// spread of damage averages and support averages.
func varianceCost(rs runSet, byRole bool) float64 {
	var nonEmpty runSet
	for _, r := range rs {
		if len(r) > 0 {
			nonEmpty = append(nonEmpty, r)
		}
	}
	if len(nonEmpty) <= 1 {
		return 0
	}
	if !byRole {
		return popStdDev(nonEmptyAverages(nonEmpty))
	}

	dps := make([]float64, 0, len(nonEmpty))
	sup := make([]float64, 0, len(nonEmpty))
	for _, r := range nonEmpty {
		var dSum, sSum float64
		var dCnt, sCnt int
		for _, m := range r {
			if m.IsSupport() {
				sSum += m.CombatPower
				sCnt++
			} else {
				dSum += m.CombatPower
				dCnt++
			}
		}
		dps = append(dps, safeDiv(dSum, dCnt))
		sup = append(sup, safeDiv(sSum, sCnt))
	}
	return popStdDev(dps) + popStdDev(sup)
}

func safeDiv(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
