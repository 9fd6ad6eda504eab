// Package spatialmath provides the rigid-transform type used to describe
// target poses and manipulator frames throughout the reach study engine.
package spatialmath

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is an immutable rigid 3-D transform: a translation in meters and an
// orientation expressed as a unit quaternion. Once constructed, a Pose is
// never mutated; operations that would change it return a new value.
type Pose struct {
	translation r3.Vector
	orientation quat.Number
}

// NewPose builds a Pose from a translation and an orientation quaternion.
// The orientation is normalized so that callers may pass an un-normalized
// quaternion (e.g. one built directly from axis-angle components).
func NewPose(translation r3.Vector, orientation quat.Number) Pose {
	return Pose{translation: translation, orientation: normalize(orientation)}
}

// NewPoseFromPoint builds a Pose with identity orientation at the given
// point. Useful for pose generators that only care about position, such as
// a grid of sample points on a workpiece surface.
func NewPoseFromPoint(p r3.Vector) Pose {
	return Pose{translation: p, orientation: quat.Number{Real: 1}}
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// Translation returns the translation component of the pose.
func (p Pose) Translation() r3.Vector {
	return p.translation
}

// Orientation returns the orientation component of the pose.
func (p Pose) Orientation() quat.Number {
	return p.orientation
}

// ApproxEqual reports whether p and other are equal to within epsilon on
// both translation and orientation.
func (p Pose) ApproxEqual(other Pose, epsilon float64) bool {
	d := p.translation.Sub(other.translation)
	if d.Norm() > epsilon {
		return false
	}
	dq := quat.Sub(p.orientation, other.orientation)
	dqNorm := quat.Abs(dq)
	// Quaternions q and -q represent the same orientation.
	sq := quat.Sub(p.orientation, quat.Scale(-1, other.orientation))
	if quat.Abs(sq) < dqNorm {
		dqNorm = quat.Abs(sq)
	}
	return dqNorm <= epsilon
}

// String implements fmt.Stringer for debug/log output.
func (p Pose) String() string {
	return fmt.Sprintf("Pose{t: (%.4f, %.4f, %.4f), q: (%.4f, %.4f, %.4f, %.4f)}",
		p.translation.X, p.translation.Y, p.translation.Z,
		p.orientation.Real, p.orientation.Imag, p.orientation.Jmag, p.orientation.Kmag)
}

// jsonPose is the wire representation used by reachdb's persistence layer.
// Kept here (rather than in reachdb) so Pose owns its own marshaling.
type jsonPose struct {
	Translation [3]float64 `json:"translation"`
	Orientation [4]float64 `json:"orientation"`
}

// MarshalJSON implements json.Marshaler.
func (p Pose) MarshalJSON() ([]byte, error) {
	jp := jsonPose{
		Translation: [3]float64{p.translation.X, p.translation.Y, p.translation.Z},
		Orientation: [4]float64{p.orientation.Real, p.orientation.Imag, p.orientation.Jmag, p.orientation.Kmag},
	}
	return json.Marshal(jp)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pose) UnmarshalJSON(data []byte) error {
	var jp jsonPose
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	p.translation = r3.Vector{X: jp.Translation[0], Y: jp.Translation[1], Z: jp.Translation[2]}
	p.orientation = quat.Number{
		Real: jp.Orientation[0],
		Imag: jp.Orientation[1],
		Jmag: jp.Orientation[2],
		Kmag: jp.Orientation[3],
	}
	return nil
}

// Distance returns the Euclidean distance between the translations of two
// poses. This is the metric the Search Tree indexes on.
func Distance(a, b Pose) float64 {
	return a.translation.Sub(b.translation).Norm()
}
