// Package geom provides the planar math shared by the model builder,
// the fixed-joint reducer and the forward kinematics engine.
//
// Two 3x3 matrix forms appear throughout:
//
//   - homogeneous in-plane transforms (rotation + translation), used for
//     body poses and geometry re-projection
//   - planar spatial-algebra transforms in Featherstone's Xpln form, used
//     by the recursive-dynamics representation
//
// Both are mgl64.Mat3 values; mgl64 matrices are column-major.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Points is one opaque set of 2D geometry points. The model carries these
// through transforms for downstream visualization and never inspects them.
type Points []mgl64.Vec2

// Pose returns the homogeneous in-plane transform that rotates by theta
// and translates by (x, y). It maps child-frame coordinates into the
// parent frame.
func Pose(theta, x, y float64) mgl64.Mat3 {
	return mgl64.Translate2D(x, y).Mul3(mgl64.HomogRotate2D(theta))
}

// Xpln returns Featherstone's planar spatial coordinate transform for a
// frame located at (x, y) and rotated by theta relative to its parent.
// It maps planar spatial vectors (omega, vx, vy) from parent coordinates
// into the new frame's coordinates.
func Xpln(theta, x, y float64) mgl64.Mat3 {
	c := math.Cos(theta)
	s := math.Sin(theta)
	// column-major layout
	return mgl64.Mat3{
		1, s*x - c*y, c*x + s*y,
		0, c, -s,
		0, s, c,
	}
}

// MCI returns the planar spatial inertia of a body with mass m, center of
// mass c (in the body frame) and rotational inertia izz about the center
// of mass, in the 3x3 form consumed by planar recursive dynamics.
func MCI(m float64, c mgl64.Vec2, izz float64) mgl64.Mat3 {
	cx, cy := c.X(), c.Y()
	// column-major layout
	return mgl64.Mat3{
		izz + m*(cx*cx+cy*cy), -m * cy, m * cx,
		-m * cy, m, 0,
		m * cx, 0, m,
	}
}

// Apply transforms a 2D point by a homogeneous in-plane transform.
func Apply(t mgl64.Mat3, p mgl64.Vec2) mgl64.Vec2 {
	v := t.Mul3x1(mgl64.Vec3{p.X(), p.Y(), 1})
	return mgl64.Vec2{v.X(), v.Y()}
}

// ApplyAll transforms every point of a set, returning a new set.
func ApplyAll(t mgl64.Mat3, pts Points) Points {
	out := make(Points, len(pts))
	for i, p := range pts {
		out[i] = Apply(t, p)
	}
	return out
}

// Origin returns the translation part of a homogeneous transform.
func Origin(t mgl64.Mat3) mgl64.Vec2 {
	return mgl64.Vec2{t.At(0, 2), t.At(1, 2)}
}

// Angle returns the rotation angle of a homogeneous transform in (-pi, pi].
func Angle(t mgl64.Mat3) float64 {
	return math.Atan2(t.At(1, 0), t.At(0, 0))
}

// RPYQuat returns the unit quaternion for a roll-pitch-yaw triple
// (extrinsic x-y-z, the URDF origin convention).
func RPYQuat(rpy r3.Vector) quat.Number {
	qx := quat.Number{Real: math.Cos(rpy.X / 2), Imag: math.Sin(rpy.X / 2)}
	qy := quat.Number{Real: math.Cos(rpy.Y / 2), Jmag: math.Sin(rpy.Y / 2)}
	qz := quat.Number{Real: math.Cos(rpy.Z / 2), Kmag: math.Sin(rpy.Z / 2)}
	return quat.Mul(qz, quat.Mul(qy, qx))
}

// Rotate applies a unit quaternion rotation to a 3D vector.
func Rotate(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// RPYToAxisAngle converts a roll-pitch-yaw triple to an axis-angle pair.
// A zero rotation yields a zero axis and angle 0; otherwise the axis is
// unit length and the angle lies in (0, pi].
func RPYToAxisAngle(rpy r3.Vector) (r3.Vector, float64) {
	q := RPYQuat(rpy)

	// q and -q encode the same rotation; pick the branch with angle in [0, pi]
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	sinHalf := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	angle := 2 * math.Atan2(sinHalf, q.Real)
	if sinHalf < 1e-12 {
		return r3.Vector{}, 0
	}
	axis := r3.Vector{X: q.Imag / sinHalf, Y: q.Jmag / sinHalf, Z: q.Kmag / sinHalf}
	return axis, angle
}
