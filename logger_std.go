package reach

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/collinthornton/reach/logging"
	"github.com/collinthornton/reach/reachdb"
	"github.com/collinthornton/reach/referenceframe"
)

// NoopDisplay is the default Display: every method is a no-op, matching
// spec §4.1 ("may be a no-op").
type NoopDisplay struct{}

// ShowEnvironment implements Display.
func (NoopDisplay) ShowEnvironment(ctx context.Context) {}

// UpdateRobotPose implements Display.
func (NoopDisplay) UpdateRobotPose(ctx context.Context, pose referenceframe.JointPositions) {}

// ShowResults implements Display.
func (NoopDisplay) ShowResults(ctx context.Context, db *reachdb.Database) {}

// ShowNeighborhood implements Display.
func (NoopDisplay) ShowNeighborhood(ctx context.Context, records []reachdb.Record) {}

// StdLogger is the default Logger (spec §4.1): it reports progress through
// the module's internal logging.Logger at INFO, and tolerates concurrent
// calls via an atomic progress counter and a print mutex.
type StdLogger struct {
	backend *logging.Logger

	max atomic.Int64
	cur atomic.Int64

	printMu sync.Mutex
}

// NewStdLogger builds a StdLogger backed by the given operational logger.
// Pass nil to use a default logger at INFO level.
func NewStdLogger(backend *logging.Logger) *StdLogger {
	if backend == nil {
		l, err := logging.NewLogger(logging.INFO)
		if err != nil {
			l = logging.NewTestLogger()
		}
		backend = l
	}
	return &StdLogger{backend: backend}
}

// SetMaxProgress implements Logger.
func (l *StdLogger) SetMaxProgress(n int) {
	l.max.Store(int64(n))
	l.cur.Store(0)
}

// PrintProgress implements Logger. Safe for concurrent calls from worker
// goroutines (spec §4.4 "Progress").
func (l *StdLogger) PrintProgress(k int) {
	l.cur.Store(int64(k))
	max := l.max.Load()
	if max == 0 {
		return
	}
	l.printMu.Lock()
	defer l.printMu.Unlock()
	l.backend.Infof("progress: %d/%d", k, max)
}

// PrintResults implements Logger.
func (l *StdLogger) PrintResults(results reachdb.StudyResults) {
	l.printMu.Lock()
	defer l.printMu.Unlock()
	l.backend.Infof(
		"results: reach_fraction=%.4f total_score=%.4f normalized_score=%.4f joint_score_variation=%.4f",
		results.ReachFraction, results.TotalPoseScore, results.NormalizedTotalPoseScore, results.JointScoreVariation,
	)
}

// Print implements Logger.
func (l *StdLogger) Print(msg string) {
	l.printMu.Lock()
	defer l.printMu.Unlock()
	l.backend.Infof("%s", msg)
}

// Progress returns the most recently reported (current, max) progress
// pair, for hosts that poll rather than drive their own progress UI.
func (l *StdLogger) Progress() (current, max int) {
	return int(l.cur.Load()), int(l.max.Load())
}

