// Package reach's Engine ties together the Record & Database, Search Tree,
// Initial Evaluation Pass, and Optimization Loop components behind the
// five operations spec.md §4.6 names: load, run, optimize, save,
// getResults (plus getAverageNeighborsCount).
package reach

import (
	"context"
	"os"
	"sync"

	"github.com/collinthornton/reach/reachdb"
	"github.com/collinthornton/reach/search"
)

// Engine is the reach study orchestrator (spec §4.6, mirroring the
// original C++ ReachStudy class: see DESIGN.md).
type Engine struct {
	cfg       Config
	ik        IKSolver
	evaluator Evaluator
	poseGen   TargetPoseGenerator
	display   Display
	logger    Logger

	db *reachdb.Database

	treeMu sync.Mutex
	tree   *search.Tree
}

// NewEngine validates cfg and builds an Engine around the given plugins.
// display and logger may be nil; they default to NoopDisplay and
// NewStdLogger(nil) respectively (spec §4.1: Display "may be a no-op").
func NewEngine(cfg Config, ik IKSolver, evaluator Evaluator, poseGen TargetPoseGenerator, display Display, logger Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ik == nil || evaluator == nil || poseGen == nil {
		return nil, newInvariantViolation("IKSolver, Evaluator, and TargetPoseGenerator must all be non-nil")
	}
	if display == nil {
		display = NoopDisplay{}
	}
	if logger == nil {
		logger = NewStdLogger(nil)
	}
	return &Engine{
		cfg:       cfg,
		ik:        ik,
		evaluator: evaluator,
		poseGen:   poseGen,
		display:   display,
		logger:    logger,
		db:        reachdb.New(),
	}, nil
}

// Load replaces the Engine's database with the one stored at path (spec
// §4.6 "load(path): delegate to the Database"). The search tree is
// invalidated; the next Optimize or AverageNeighborsCount call rebuilds it
// from the loaded records.
func (e *Engine) Load(path string) error {
	db, err := reachdb.LoadAndValidate(path, e.ik.JointNames())
	if err != nil {
		return &CorruptDatabaseError{Path: path, Err: err}
	}
	e.db = db
	e.treeMu.Lock()
	e.tree = nil
	e.treeMu.Unlock()
	return nil
}

// Save delegates to the Database (spec §4.6).
func (e *Engine) Save(path string) error {
	return e.db.Save(path)
}

// Run executes the Initial Evaluation Pass if the database is empty;
// otherwise it is a no-op (spec §4.6 "run(): if the Database is empty,
// execute Initial Evaluation Pass, else no-op").
func (e *Engine) Run(ctx context.Context) error {
	if e.db.Size() > 0 {
		return nil
	}
	targets, err := e.poseGen.Generate(ctx)
	if err != nil {
		return err
	}

	e.display.ShowEnvironment(ctx)
	e.runInitialEvaluationPass(ctx, targets)
	e.ensureTree()
	e.display.ShowResults(ctx, e.db)
	return nil
}

// Optimize runs the Optimization Loop (spec §4.5). Fails with
// EmptyDatabaseError if the database has no records (spec §4.6, §7).
func (e *Engine) Optimize(ctx context.Context) error {
	if e.db.Size() == 0 {
		return &EmptyDatabaseError{}
	}
	e.ensureTree()
	return e.runOptimizationLoop(ctx)
}

// Results delegates to the Database (spec §4.6 "results(): delegate").
func (e *Engine) Results() reachdb.StudyResults {
	return e.db.Results()
}

// Database returns the underlying database. Added per SPEC_FULL.md's
// SUPPLEMENTED FEATURES: the C++ original exposes getDatabase()
// alongside getResults() for hosts that drive a Display directly off
// live records.
func (e *Engine) Database() *reachdb.Database {
	return e.db
}

// ensureTree builds the search tree from the current database snapshot if
// it has not been built yet (spec §4.3: "built from the database once,
// immutable thereafter"). Safe to call repeatedly and concurrently.
func (e *Engine) ensureTree() *search.Tree {
	e.treeMu.Lock()
	defer e.treeMu.Unlock()
	if e.tree != nil {
		return e.tree
	}
	records := e.db.Snapshot()
	points := make([]search.Point, len(records))
	for i, r := range records {
		points[i] = search.Point{ID: r.ID, Position: r.Goal.Translation()}
	}
	e.tree = search.New(points)
	return e.tree
}

// Execute is a convenience wrapper around load/run/save/optimize/save,
// capturing the orchestration shape of the C++ original's
// runReachStudy(...) free function (SPEC_FULL.md SUPPLEMENTED FEATURES):
// load dbPath if it already exists, otherwise run the Initial Evaluation
// Pass and save; then optimize and save again. Plugin construction
// remains out of scope; Execute only sequences the primitives this file
// already defines.
func (e *Engine) Execute(ctx context.Context, dbPath string) error {
	if _, statErr := os.Stat(dbPath); statErr == nil {
		if err := e.Load(dbPath); err != nil {
			return err
		}
	} else if !os.IsNotExist(statErr) {
		return statErr
	}

	if err := e.Run(ctx); err != nil {
		return err
	}
	if err := e.Save(dbPath); err != nil {
		return err
	}
	if err := e.Optimize(ctx); err != nil {
		return err
	}
	return e.Save(dbPath)
}
