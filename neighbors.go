package reach

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// AverageNeighborsCount implements spec §4.6's getAverageNeighborsCount:
// across all records, the population mean and standard deviation of
// |SearchTree.radius_search(r.goal.translation(), radius)|. Per
// DESIGN.md's Open Question (a), the count is inclusive of the query
// record's own id.
//
// The standard deviation is hand-rolled rather than taken from
// stat.MeanStdDev/stat.MeanVariance, for the same reason
// reachdb/results.go's computeResults hand-rolls JointScoreVariation:
// those gonum functions apply Bessel's correction (an n-1 denominator),
// the sample statistic, not the population statistic this method must
// return.
func (e *Engine) AverageNeighborsCount() (mean, stddev float64) {
	tree := e.ensureTree()
	records := e.db.Snapshot()
	if len(records) == 0 {
		return 0, 0
	}

	counts := make([]float64, len(records))
	for i, r := range records {
		counts[i] = float64(len(tree.RadiusSearch(r.Goal.Translation(), e.cfg.Radius)))
	}

	mean = stat.Mean(counts, nil)
	var sumSq float64
	for _, c := range counts {
		d := c - mean
		sumSq += d * d
	}
	stddev = math.Sqrt(sumSq / float64(len(counts)))
	return mean, stddev
}
