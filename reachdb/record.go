// Package reachdb implements the Record & Database component of the reach
// study engine (spec §3, §4.2): the in-memory collection of per-target
// results, its memoized aggregate statistics, and its on-disk persistence.
package reachdb

import (
	"github.com/collinthornton/reach/referenceframe"
	"github.com/collinthornton/reach/spatialmath"
)

// Record is the unit of work and of output: one target pose and its most
// recent IK/evaluation outcome (spec §3 "ReachRecord").
type Record struct {
	// ID is a stable string identifier, assigned once at creation and never
	// reused or reassigned.
	ID string
	// Goal is the target transform. Immutable after creation.
	Goal spatialmath.Pose
	// Reached is true iff a non-empty joint solution exists for Goal.
	Reached bool
	// SeedState is the joint configuration used as the IK seed for this
	// record's most recent successful evaluation.
	SeedState referenceframe.JointPositions
	// GoalState is the joint configuration IK produced for Goal starting
	// from SeedState; empty when Reached is false.
	GoalState referenceframe.JointPositions
	// Score is meaningful only when Reached is true; zero otherwise.
	Score float64
}

// Clone returns a deep copy of r, so a caller holding a Record returned by
// Database.Get cannot mutate the database's internal state through it.
func (r Record) Clone() Record {
	out := r
	if r.SeedState != nil {
		out.SeedState = r.SeedState.Clone()
	}
	if r.GoalState != nil {
		out.GoalState = r.GoalState.Clone()
	}
	return out
}

// Valid reports whether r satisfies the invariants of spec §3:
// reached implies a non-empty goal state covering every joint in
// activeJoints, and an unreached record always scores zero.
func (r Record) Valid(activeJoints []string) bool {
	if r.Reached {
		if len(r.GoalState) == 0 {
			return false
		}
		if !r.GoalState.HasAll(activeJoints) {
			return false
		}
	} else if r.Score != 0 {
		return false
	}
	return true
}
