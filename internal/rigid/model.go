package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/gbledt/drake/internal/geom"
	"github.com/gbledt/drake/internal/plane"
)

// Eps is the axis-alignment tolerance used by the joint parser.
const Eps = 1e-6

// Model is the in-memory structural model: an arena of bodies in
// construction order, the plane configuration they are constrained to,
// and the running dof count.
//
// Construction and kinematics updates mutate shared body state; callers
// that need concurrency must serialize access themselves.
type Model struct {
	Name   string
	Plane  *plane.Plane
	Bodies []*Body
	NB     int
}

// NewModel returns an empty model on the given plane.
func NewModel(name string, p *plane.Plane) *Model {
	return &Model{Name: name, Plane: p}
}

// AddBody appends a new root body for the named link. Roots receive the
// plane's handedness correction as their reference transform; a joint
// targeting the body later overwrites it.
func (m *Model) AddBody(linkName string) *Body {
	b := &Body{
		Index:    len(m.Bodies),
		LinkName: linkName,
		Parent:   NoParent,
		Code:     JointNone,
		Sign:     1,
		Ttree:    m.Plane.Reflection(),
		Xtree:    mgl64.Ident3(),
	}
	m.Bodies = append(m.Bodies, b)
	return b
}

// FindBody returns the body for a link name, or nil.
func (m *Model) FindBody(linkName string) *Body {
	for _, b := range m.Bodies {
		if b.LinkName == linkName {
			return b
		}
	}
	return nil
}

// Descriptor is one joint element as delivered by the document front-end:
// already resolved to names, 3D vectors and defaults.
type Descriptor struct {
	Name    string
	Type    string
	Origin  r3.Vector
	RPY     r3.Vector
	Axis    r3.Vector
	Damping float64
}

// AddJoint attaches child to parent according to the descriptor: it
// classifies the joint type, validates axis alignment against the plane,
// computes the reference transforms, and assigns a dof number to each
// coordinate-carrying body it touches. A planar joint synthesizes two
// intermediate bodies, appended to the arena, so that the chain becomes
// parent -> prismatic-x -> prismatic-z -> child (revolute).
//
// Validation is fail-fast: on error the child is left unmodified only if
// the error is detected before classification; callers must discard the
// model on any error.
func (m *Model) AddJoint(d Descriptor, parent, child *Body) error {
	if !child.IsRoot() {
		return &StructuralError{Joint: d.Name, Link: child.LinkName}
	}

	axis := d.Axis
	if axis.Norm() == 0 {
		axis = r3.Vector{X: 1}
	}
	axis = axis.Normalize()

	theta, err := m.planeAngle(d)
	if err != nil {
		return err
	}

	along := axis.Dot(m.Plane.ViewAxis)
	target := child // body that receives the joint's origin transform

	switch d.Type {
	case "revolute", "continuous":
		if math.Abs(along) <= 1-Eps {
			return &AxisAlignmentError{Joint: d.Name, Axis: axis}
		}
		child.Code = JointRevolute
		child.Pitch = 0
		child.Sign = signOf(along)

	case "prismatic":
		if math.Abs(along) > Eps {
			return &AxisAlignmentError{Joint: d.Name, Axis: axis}
		}
		ax := axis.Dot(m.Plane.XAxis)
		ay := axis.Dot(m.Plane.YAxis)
		switch {
		case math.Abs(ax) > 1-Eps:
			child.Code = JointPrismaticX
			child.Sign = signOf(ax)
		case math.Abs(ay) > 1-Eps:
			child.Code = JointPrismaticZ
			child.Sign = signOf(ay)
		default:
			return &UnsupportedAxisError{Joint: d.Name, Axis: axis}
		}
		child.Pitch = math.Inf(1)

	case "planar":
		if math.Abs(along) <= 1-Eps {
			return &AxisAlignmentError{Joint: d.Name, Axis: axis}
		}
		sign := signOf(along)

		b1 := m.AddBody(child.LinkName + "_x")
		b1.JointName = d.Name + "_x"
		b1.Parent = parent.Index
		b1.Code = JointPrismaticX
		b1.Pitch = math.Inf(1)
		b1.Sign = sign
		b1.Damping = d.Damping
		b1.Axis = mgl64.Vec2{sign, 0}
		m.assignDof(b1)

		b2 := m.AddBody(child.LinkName + "_z")
		b2.JointName = d.Name + "_z"
		b2.Parent = b1.Index
		b2.Code = JointPrismaticZ
		b2.Pitch = math.Inf(1)
		b2.Sign = sign
		b2.Damping = d.Damping
		b2.Axis = mgl64.Vec2{0, sign}
		b2.Ttree = mgl64.Ident3()
		m.assignDof(b2)

		child.Code = JointRevolute
		child.Pitch = 0
		child.Sign = sign
		child.Parent = b2.Index
		child.Ttree = mgl64.Ident3()
		child.Xtree = mgl64.Ident3()

		// subsequent origin handling applies to the head of the chain
		target = b1

	case "fixed":
		child.Code = JointFixed
		child.Pitch = math.NaN()

	default:
		return &UnsupportedJointTypeError{Joint: d.Name, Type: d.Type}
	}

	child.JointName = d.Name
	child.Damping = d.Damping
	child.Axis = m.Plane.Project(axis)
	if child.Code.Dof() && child.DofNum == 0 {
		m.assignDof(child)
	}

	if target == child {
		child.Parent = parent.Index
	}
	t := m.Plane.Project(d.Origin)
	target.Ttree = geom.Pose(theta, t.X(), t.Y())
	target.Xtree = geom.Xpln(theta, t.X(), t.Y())
	return nil
}

// planeAngle converts the descriptor's roll-pitch-yaw origin rotation to
// an in-plane angle. The rotation must be zero or about the view axis;
// a rotation about the negated view axis flips the angle.
func (m *Model) planeAngle(d Descriptor) (float64, error) {
	axis, angle := geom.RPYToAxisAngle(d.RPY)
	if angle == 0 {
		return 0, nil
	}
	along := axis.Dot(m.Plane.ViewAxis)
	switch {
	case along > 1-Eps:
		return angle, nil
	case along < -(1 - Eps):
		return -angle, nil
	}
	return 0, &OutOfPlaneRotationError{Joint: d.Name, Axis: axis}
}

func (m *Model) assignDof(b *Body) {
	m.NB++
	b.DofNum = m.NB
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
