package reach

import (
	"context"
	"math"

	"go.uber.org/atomic"

	"github.com/collinthornton/reach/internal/workerpool"
	"github.com/collinthornton/reach/reachdb"
)

// runOptimizationLoop implements spec §4.5. e.tree must already be built
// (Optimize ensures this before calling in).
func (e *Engine) runOptimizationLoop(ctx context.Context) error {
	previousScore := e.db.Results().TotalPoseScore

	for step := 1; ; step++ {
		snapshot := e.db.Snapshot()
		n := len(snapshot)
		byID := make(map[string]reachdb.Record, n)
		for _, r := range snapshot {
			byID[r.ID] = r
		}

		e.logger.SetMaxProgress(n)
		var completed atomic.Int64
		var sampled []reachdb.Record

		workerpool.Run(ctx, n, e.cfg.resolvedMaxThreads(), func(i int) {
			r := snapshot[i]
			updated, neighborRecords := e.stepRecord(ctx, r, byID)
			if updated != nil {
				if err := e.db.Update(r.ID, *updated); err != nil {
					e.logger.Print(err.Error())
				}
			}
			if i == 0 {
				sampled = neighborRecords
			}

			k := completed.Inc()
			e.logger.PrintProgress(int(k))
		})

		results := e.db.Results()
		currentScore := results.TotalPoseScore

		var improvement float64
		if previousScore == 0 {
			// spec §4.5 "previous_score == 0 at the first step: treat
			// improvement as +inf so the first step always runs."
			improvement = math.Inf(1)
		} else {
			improvement = (currentScore - previousScore) / math.Max(previousScore, epsilon)
		}

		e.logger.PrintResults(results)
		if sampled != nil {
			e.display.ShowNeighborhood(ctx, sampled)
		}

		done := improvement < e.cfg.StepImprovementThreshold || step >= e.cfg.MaxSteps
		if done {
			return nil
		}
		previousScore = currentScore
	}
}

// epsilon guards the improvement ratio's denominator against division by
// (near) zero, per spec §4.5 step 4: "improvement = (current - previous)
// / max(previous, epsilon)".
const epsilon = 1e-9

// stepRecord implements spec §4.5 steps 2a-2d for a single record r
// against the step's snapshot byID. It returns the updated Record (nil if
// unchanged) and, when non-nil, the neighbor records consulted (used only
// to feed Display.ShowNeighborhood for the step's sampled record).
func (e *Engine) stepRecord(ctx context.Context, r reachdb.Record, byID map[string]reachdb.Record) (*reachdb.Record, []reachdb.Record) {
	neighborIDs := e.ensureTree().RadiusSearch(r.Goal.Translation(), e.cfg.Radius)

	bestScore := r.Score
	var bestSeed, bestGoal = r.SeedState, r.GoalState
	improved := false

	var neighborRecords []reachdb.Record

	for _, nid := range neighborIDs {
		if nid == r.ID {
			continue
		}
		rn, ok := byID[nid]
		if !ok || !rn.Reached {
			continue
		}
		neighborRecords = append(neighborRecords, rn)

		sols, err := e.ik.Solve(ctx, r.Goal, rn.GoalState)
		if err != nil {
			e.logger.Print(newPluginFailure(r.ID, "IKSolver.Solve", err).Error())
			continue
		}
		if len(sols) == 0 {
			continue
		}
		candidate, score, ok2, scoreErr := bestSolution(ctx, e.evaluator, sols)
		if scoreErr != nil && !ok2 {
			e.logger.Print(newPluginFailure(r.ID, "Evaluator.Score", scoreErr).Error())
			continue
		}
		if !ok2 {
			continue
		}
		// spec §4.5 step 2d: "if best improves on r's current score
		// (strictly greater; ties keep current)".
		if score > bestScore {
			bestScore = score
			bestSeed = rn.GoalState
			bestGoal = candidate
			improved = true
		}
	}

	if !improved {
		return nil, neighborRecords
	}

	updated := r
	updated.SeedState = bestSeed
	updated.GoalState = bestGoal
	updated.Score = bestScore
	updated.Reached = true
	return &updated, neighborRecords
}
