package reachdb

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// StudyResults is the memoized aggregate view over a Database (spec §3).
type StudyResults struct {
	ReachFraction             float64
	TotalPoseScore            float64
	NormalizedTotalPoseScore  float64
	JointScoreVariation       float64
	Count                     int
	ReachedCount              int
}

// computeResults recomputes StudyResults from a snapshot of records. The
// population standard deviation of score (JointScoreVariation) is computed
// by hand rather than via gonum/stat.StdDev: that function applies Bessel's
// correction (divides by n-1), which is the sample statistic, not the
// population statistic spec §3 requires. The mean term, which both
// formulas share, is still delegated to stat.Mean.
func computeResults(records []Record) StudyResults {
	n := len(records)
	if n == 0 {
		return StudyResults{}
	}

	var reached int
	var totalScore float64
	scores := make([]float64, 0, n)
	for _, r := range records {
		if r.Reached {
			reached++
			totalScore += r.Score
			scores = append(scores, r.Score)
		}
	}

	var variation float64
	if len(scores) > 0 {
		mean := stat.Mean(scores, nil)
		var sumSq float64
		for _, s := range scores {
			d := s - mean
			sumSq += d * d
		}
		variation = math.Sqrt(sumSq / float64(len(scores)))
	}

	return StudyResults{
		ReachFraction:            float64(reached) / float64(n),
		TotalPoseScore:           totalScore,
		NormalizedTotalPoseScore: totalScore / float64(n),
		JointScoreVariation:      variation,
		Count:                    n,
		ReachedCount:             reached,
	}
}
