package rigid

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// StructuralError reports a joint whose child link is already targeted by
// another joint.
type StructuralError struct {
	Joint string
	Link  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("joint %s: link %s already has a parent joint", e.Joint, e.Link)
}

// AxisAlignmentError reports a joint axis inconsistent with the chosen
// plane: a revolute axis off the view axis, or a prismatic axis with an
// out-of-plane component.
type AxisAlignmentError struct {
	Joint string
	Axis  r3.Vector
}

func (e *AxisAlignmentError) Error() string {
	return fmt.Sprintf("joint %s: axis [%g %g %g] is not compatible with the modeling plane", e.Joint, e.Axis.X, e.Axis.Y, e.Axis.Z)
}

// UnsupportedAxisError reports an in-plane prismatic axis that aligns with
// neither in-plane basis axis.
type UnsupportedAxisError struct {
	Joint string
	Axis  r3.Vector
}

func (e *UnsupportedAxisError) Error() string {
	return fmt.Sprintf("joint %s: prismatic axis [%g %g %g] must align with an in-plane basis axis", e.Joint, e.Axis.X, e.Axis.Y, e.Axis.Z)
}

// UnsupportedJointTypeError reports an unrecognized joint type tag.
type UnsupportedJointTypeError struct {
	Joint string
	Type  string
}

func (e *UnsupportedJointTypeError) Error() string {
	return fmt.Sprintf("joint %s: unsupported joint type %q", e.Joint, e.Type)
}

// OutOfPlaneRotationError reports a joint origin rotation whose axis is
// neither zero nor parallel to the view axis.
type OutOfPlaneRotationError struct {
	Joint string
	Axis  r3.Vector
}

func (e *OutOfPlaneRotationError) Error() string {
	return fmt.Sprintf("joint %s: origin rotation about [%g %g %g] leaves the modeling plane", e.Joint, e.Axis.X, e.Axis.Y, e.Axis.Z)
}

// DimensionMismatchError reports an input vector of the wrong length.
type DimensionMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: want length %d, got %d", e.What, e.Want, e.Got)
}
