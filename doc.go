// Package reach implements the reach study engine: given a manipulator's
// IK solver, a pose score function, and a pose source that defines the
// targets, it evaluates how well the manipulator reaches each target and then
// iteratively improves those results by propagating good neighbor seeds
// through a spatial index.
//
// The five capability contracts an embedding host supplies are IKSolver,
// Evaluator, TargetPoseGenerator, Display, and Logger. Construction of
// concrete implementations (robot description loading, plugin discovery,
// visualization transport, configuration parsing) is outside this
// package's scope; Engine consumes already-constructed instances.
package reach
