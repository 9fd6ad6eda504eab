package spatialmath

import (
	"encoding/json"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestNewPoseFromPoint(t *testing.T) {
	p := NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, p.Translation(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, p.Orientation(), test.ShouldResemble, quat.Number{Real: 1})
}

func TestNewPoseNormalizes(t *testing.T) {
	p := NewPose(r3.Vector{}, quat.Number{Real: 2})
	test.That(t, quat.Abs(p.Orientation()), test.ShouldAlmostEqual, 1.0)
}

func TestDistance(t *testing.T) {
	a := NewPoseFromPoint(r3.Vector{X: 0, Y: 0, Z: 0})
	b := NewPoseFromPoint(r3.Vector{X: 3, Y: 4, Z: 0})
	test.That(t, Distance(a, b), test.ShouldAlmostEqual, 5.0)
}

func TestApproxEqual(t *testing.T) {
	a := NewPoseFromPoint(r3.Vector{X: 1, Y: 1, Z: 1})
	b := NewPoseFromPoint(r3.Vector{X: 1.0000001, Y: 1, Z: 1})
	test.That(t, a.ApproxEqual(b, 1e-4), test.ShouldBeTrue)

	c := NewPoseFromPoint(r3.Vector{X: 5, Y: 1, Z: 1})
	test.That(t, a.ApproxEqual(c, 1e-4), test.ShouldBeFalse)
}

func TestPoseJSONRoundTrip(t *testing.T) {
	p := NewPose(r3.Vector{X: 1, Y: -2, Z: 0.5}, quat.Number{Real: 0, Imag: 1})
	data, err := json.Marshal(p)
	test.That(t, err, test.ShouldBeNil)

	var out Pose
	test.That(t, json.Unmarshal(data, &out), test.ShouldBeNil)
	test.That(t, out.ApproxEqual(p, 1e-12), test.ShouldBeTrue)
}
