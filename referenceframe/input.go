// Package referenceframe provides the joint-space types shared by the
// IKSolver and Evaluator plugin contracts: a named joint value (Input) and
// a name-keyed collection of them (JointPositions), matching the seed/goal
// state vocabulary of spec §3.
package referenceframe

import "math"

// Input is a single joint value, stored in radians. Mirrors the teacher's
// referenceframe.Input: a thin named wrapper rather than a bare float64, so
// joint-space code reads as joint-space code rather than arithmetic on
// anonymous numbers.
type Input struct {
	Value float64
}

// JointPositions maps a joint name to its Input. It is the concrete type
// behind ReachRecord.seed_state and ReachRecord.goal_state (spec §3), and
// the pose argument passed to Evaluator.Score and IKSolver.Solve.
type JointPositions map[string]Input

// Clone returns a deep copy, so callers may hand out a JointPositions
// without granting the receiver the ability to mutate the original.
func (jp JointPositions) Clone() JointPositions {
	out := make(JointPositions, len(jp))
	for k, v := range jp {
		out[k] = v
	}
	return out
}

// HasAll reports whether jp has an entry for every name in names. Used to
// check the "goal_state covers every active joint" invariant (spec §3) and
// to validate an Evaluator's required joints (spec §4.1).
func (jp JointPositions) HasAll(names []string) bool {
	for _, n := range names {
		if _, ok := jp[n]; !ok {
			return false
		}
	}
	return true
}

// ToSlice projects jp onto the given joint order, as required by
// IKSolver.JointNames()-aligned solution vectors (spec §4.1). Missing
// joints are reported via ok=false.
func ToSlice(jp JointPositions, order []string) (values []float64, ok bool) {
	values = make([]float64, len(order))
	for i, name := range order {
		in, present := jp[name]
		if !present {
			return nil, false
		}
		values[i] = in.Value
	}
	return values, true
}

// FromSlice builds a JointPositions from a full joint vector aligned with
// order, the shape IKSolver.Solve returns each solution in (spec §4.1).
func FromSlice(order []string, values []float64) JointPositions {
	jp := make(JointPositions, len(order))
	for i, name := range order {
		if i < len(values) {
			jp[name] = Input{Value: values[i]}
		}
	}
	return jp
}

// JointPositionsFromRadians builds a degrees-valued slice from a
// radians-valued slice, the conversion the teacher's component layer
// applies at the wire boundary (protobuf JointPositions are in degrees).
func JointPositionsFromRadians(radians []float64) DegreeValues {
	out := make([]float64, len(radians))
	for i, r := range radians {
		out[i] = r * 180 / math.Pi
	}
	return DegreeValues{Values: out}
}

// JointPositionsToRadians is the inverse of JointPositionsFromRadians.
func JointPositionsToRadians(d DegreeValues) []float64 {
	out := make([]float64, len(d.Values))
	for i, v := range d.Values {
		out[i] = v * math.Pi / 180
	}
	return out
}

// DegreeValues is a wire-shaped joint vector in degrees, separate from the
// radians-valued Input/JointPositions used internally by the engine.
type DegreeValues struct {
	Values []float64
}

// interpolateInputs linearly interpolates between two equal-length joint
// vectors at fraction by (0 = jp1, 1 = jp2). Used by display/debug tooling
// that wants to animate between a seed and a goal state; the engine itself
// does not interpolate.
func interpolateInputs(jp1, jp2 []Input, by float64) []Input {
	out := make([]Input, len(jp1))
	for i := range jp1 {
		delta := jp2[i].Value - jp1[i].Value
		out[i] = Input{Value: jp1[i].Value + delta*by}
	}
	return out
}
