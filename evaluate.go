package reach

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/atomic"

	"github.com/collinthornton/reach/internal/workerpool"
	"github.com/collinthornton/reach/reachdb"
	"github.com/collinthornton/reach/referenceframe"
	"github.com/collinthornton/reach/spatialmath"
)

// recordID formats index as a fixed-width decimal string, wide enough for
// every index in [0, count) (spec §4.4 step 1: "the record's index
// formatted as a fixed-width decimal").
func recordID(index, count int) string {
	width := len(strconv.Itoa(count - 1))
	if width < 1 {
		width = 1
	}
	return fmt.Sprintf("%0*d", width, index)
}

// zeroSeed returns S0, the zero-valued joint map over names (spec §4.4
// "Inputs").
func zeroSeed(names []string) referenceframe.JointPositions {
	jp := make(referenceframe.JointPositions, len(names))
	for _, n := range names {
		jp[n] = referenceframe.Input{}
	}
	return jp
}

// bestSolution scores every candidate solution and returns the
// highest-scoring one (spec §4.4 step 4, §4.5 step 2b: "among returned
// solutions find the highest-scoring candidate"). A solution that fails
// to score (InvalidPose or otherwise) is skipped rather than aborting the
// whole search; if every candidate fails, ok is false and err carries the
// most recent evaluator error.
func bestSolution(ctx context.Context, evaluator Evaluator, solutions []referenceframe.JointPositions) (best referenceframe.JointPositions, score float64, ok bool, err error) {
	for _, sol := range solutions {
		s, serr := evaluator.Score(ctx, sol)
		if serr != nil {
			err = serr
			continue
		}
		if !ok || s > score {
			best, score, ok = sol, s, true
		}
	}
	if ok {
		err = nil
	}
	return best, score, ok, err
}

// runInitialEvaluationPass implements spec §4.4: a parallel fan-out over
// every target pose, each producing its first-generation Record, inserted
// into e.db. Per spec §4.4 "Propagation policy" (spec §7): a plugin
// failure on one target is recovered into an unreached record rather than
// aborting the pass.
func (e *Engine) runInitialEvaluationPass(ctx context.Context, targets []spatialmath.Pose) {
	n := len(targets)
	e.logger.SetMaxProgress(n)
	seed0 := zeroSeed(e.ik.JointNames())

	var completed atomic.Int64
	workerpool.Run(ctx, n, e.cfg.resolvedMaxThreads(), func(i int) {
		id := recordID(i, n)
		target := targets[i]

		rec := reachdb.Record{
			ID:        id,
			Goal:      target,
			SeedState: seed0.Clone(),
		}

		sols, err := e.ik.Solve(ctx, target, seed0)
		if err != nil {
			e.logger.Print(newPluginFailure(id, "IKSolver.Solve", err).Error())
		} else if len(sols) > 0 {
			best, score, ok, scoreErr := bestSolution(ctx, e.evaluator, sols)
			if scoreErr != nil && !ok {
				e.logger.Print(newPluginFailure(id, "Evaluator.Score", scoreErr).Error())
			}
			if ok {
				rec.Reached = true
				rec.Score = score
				rec.GoalState = best
			}
		}

		if err := e.db.Insert(rec); err != nil {
			// Unreachable in practice: recordID is unique per index for a
			// fixed n, and Generate() is called exactly once per Run().
			e.logger.Print(err.Error())
		}

		k := completed.Inc()
		e.logger.PrintProgress(int(k))
	})
}
