package reach

import (
	"context"

	"github.com/collinthornton/reach/reachdb"
	"github.com/collinthornton/reach/referenceframe"
	"github.com/collinthornton/reach/spatialmath"
)

// IKSolver is the inverse-kinematics plugin contract (spec §4.1). An
// implementation must be safe to call concurrently from multiple
// goroutines: the engine makes no serialization guarantee around it
// (spec §5).
type IKSolver interface {
	// JointNames returns the active joint order, fixed for the solver's
	// lifetime. Every solution returned by Solve is aligned with this
	// order.
	JointNames() []string

	// Solve returns every joint-vector solution for target found starting
	// the search from seed. An empty (nil or zero-length) slice, with a
	// nil error, means no solution was found; it is not itself an error
	// condition.
	Solve(ctx context.Context, target spatialmath.Pose, seed referenceframe.JointPositions) ([]referenceframe.JointPositions, error)
}

// Evaluator scores a candidate joint configuration; higher is better
// (spec §4.1). Must be safe to call concurrently.
type Evaluator interface {
	// Score returns a finite score for pose. Score must fail with an
	// error satisfying errors.As(err, *InvalidPoseError) when pose is
	// missing a joint the evaluator requires.
	Score(ctx context.Context, pose referenceframe.JointPositions) (float64, error)
}

// TargetPoseGenerator produces the list of target poses a study evaluates
// (spec §4.1). Generate is called exactly once, before the Initial
// Evaluation Pass begins, and must be pure (no side effects observable by
// the engine).
type TargetPoseGenerator interface {
	Generate(ctx context.Context) ([]spatialmath.Pose, error)
}

// Display is a side-effecting visualization sink (spec §4.1). Every method
// may be a no-op; NoopDisplay provides exactly that.
type Display interface {
	ShowEnvironment(ctx context.Context)
	UpdateRobotPose(ctx context.Context, pose referenceframe.JointPositions)
	ShowResults(ctx context.Context, db *reachdb.Database)
	ShowNeighborhood(ctx context.Context, records []reachdb.Record)
}

// Logger is the study-progress sink (spec §4.1), distinct from this
// module's internal operational logger (package logging). Implementations
// must tolerate concurrent calls: both the Initial Evaluation Pass and
// each Optimization Loop step call PrintProgress from worker goroutines.
type Logger interface {
	SetMaxProgress(n int)
	PrintProgress(k int)
	PrintResults(results reachdb.StudyResults)
	Print(msg string)
}
