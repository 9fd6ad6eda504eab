package reach

import (
	"context"

	"github.com/golang/geo/r3"

	"github.com/collinthornton/reach/reachdb"
	"github.com/collinthornton/reach/referenceframe"
	"github.com/collinthornton/reach/spatialmath"
)

// fakeIK is a function-configurable IKSolver fixture, in the teacher's
// style of defining test fixtures directly alongside the tests that use
// them (see motionPlanner_test.go's planConfig/seededPlannerConstructor).
type fakeIK struct {
	names []string
	solve func(ctx context.Context, target spatialmath.Pose, seed referenceframe.JointPositions) ([]referenceframe.JointPositions, error)
}

func (f *fakeIK) JointNames() []string { return f.names }

func (f *fakeIK) Solve(ctx context.Context, target spatialmath.Pose, seed referenceframe.JointPositions) ([]referenceframe.JointPositions, error) {
	return f.solve(ctx, target, seed)
}

// fakeEvaluator is a function-configurable Evaluator fixture.
type fakeEvaluator struct {
	score func(ctx context.Context, pose referenceframe.JointPositions) (float64, error)
}

func (f *fakeEvaluator) Score(ctx context.Context, pose referenceframe.JointPositions) (float64, error) {
	return f.score(ctx, pose)
}

// constantEvaluator always returns the same score for any reached pose,
// used by spec §8 scenario 4.
func constantEvaluator(v float64) *fakeEvaluator {
	return &fakeEvaluator{score: func(ctx context.Context, pose referenceframe.JointPositions) (float64, error) {
		return v, nil
	}}
}

// fakePoseGenerator is a function-configurable TargetPoseGenerator fixture.
type fakePoseGenerator struct {
	poses []spatialmath.Pose
	err   error
}

func (f *fakePoseGenerator) Generate(ctx context.Context) ([]spatialmath.Pose, error) {
	return f.poses, f.err
}

// recordingLogger is a Logger fixture that records every call, so tests
// can assert on the lifecycle events spec §6 names.
type recordingLogger struct {
	maxProgress int
	progress    []int
	results     []reachdb.StudyResults
	messages    []string
}

func (l *recordingLogger) SetMaxProgress(n int) { l.maxProgress = n }
func (l *recordingLogger) PrintProgress(k int)  { l.progress = append(l.progress, k) }
func (l *recordingLogger) PrintResults(results reachdb.StudyResults) {
	l.results = append(l.results, results)
}
func (l *recordingLogger) Print(msg string) { l.messages = append(l.messages, msg) }

// positionIK is a realistic-ish fixture: it "reaches" target t from seed s
// whenever the Euclidean distance between the seed's encoded position
// (joint "x","y","z" values interpreted as a point) and the target's
// translation is within reach. On success it returns a single solution
// whose x/y/z joints equal the target's translation exactly, so repeated
// solves from a correct seed are idempotent - useful for the
// neighbor-seeding optimization scenarios.
func positionIK(reach float64) *fakeIK {
	return &fakeIK{
		names: []string{"x", "y", "z"},
		solve: func(ctx context.Context, target spatialmath.Pose, seed referenceframe.JointPositions) ([]referenceframe.JointPositions, error) {
			t := target.Translation()
			seedPoint := pointFromJoints(seed)
			d := t.Sub(seedPoint).Norm()
			if d > reach {
				return nil, nil
			}
			return []referenceframe.JointPositions{
				{
					"x": {Value: t.X},
					"y": {Value: t.Y},
					"z": {Value: t.Z},
				},
			}, nil
		},
	}
}

func pointFromJoints(jp referenceframe.JointPositions) r3.Vector {
	return r3.Vector{X: jp["x"].Value, Y: jp["y"].Value, Z: jp["z"].Value}
}
