// Package rigid holds the structural model of a planar rigid-body tree:
// the body arena, the joint parser that grows it from joint descriptors,
// and the fixed-joint reducer that eliminates zero-freedom joints.
package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gbledt/drake/internal/geom"
)

// NoParent marks a root body.
const NoParent = -1

// JointCode is the closed set of planar joint kinematic types. Roots carry
// JointNone; after fixed-joint reduction no body carries JointFixed.
type JointCode int

const (
	JointNone JointCode = iota
	JointFixed
	JointRevolute
	JointPrismaticX
	JointPrismaticZ
)

func (c JointCode) String() string {
	switch c {
	case JointNone:
		return "none"
	case JointFixed:
		return "fixed"
	case JointRevolute:
		return "revolute"
	case JointPrismaticX:
		return "prismatic-x"
	case JointPrismaticZ:
		return "prismatic-z"
	}
	return "unknown"
}

// Dof reports whether the joint type carries a generalized coordinate.
func (c JointCode) Dof() bool {
	return c == JointRevolute || c == JointPrismaticX || c == JointPrismaticZ
}

// Body is one rigid link, or an intermediate dof-carrier synthesized while
// decomposing a planar joint. Bodies live in a Model's arena and refer to
// their parent by index.
type Body struct {
	Index     int
	LinkName  string
	JointName string

	Parent int // arena index, NoParent for roots

	Code    JointCode
	Pitch   float64 // 0 revolute, +Inf prismatic, NaN fixed (pre-reduction only)
	Axis    mgl64.Vec2
	Sign    float64 // +1/-1 vs the canonical modeling axis
	Damping float64

	// DofNum is 1..NB for coordinate-carrying bodies, 0 otherwise.
	DofNum int

	Geometry []geom.Points
	Inertia  mgl64.Mat3 // planar spatial inertia, passed through unmodified

	Xtree mgl64.Mat3 // parent frame -> body frame, spatial form
	Ttree mgl64.Mat3 // body frame -> parent frame, homogeneous form

	// Kinematic cache, owned by the forward kinematics engine. T and V are
	// only meaningful after an engine update; CachedQ/CachedQd hold the
	// coordinate slice the cache was computed from.
	T        mgl64.Mat3
	V        mgl64.Vec3 // (omega, vx, vy) in world coordinates
	CachedQ  float64
	CachedQd float64
	Computed bool
}

// IsRoot reports whether the body has no parent.
func (b *Body) IsRoot() bool { return b.Parent == NoParent }

// FixedPitch reports whether the body's pitch is the fixed-joint sentinel.
func (b *Body) FixedPitch() bool { return math.IsNaN(b.Pitch) }
