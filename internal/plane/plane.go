// Package plane fixes the mapping between 3D robot descriptions and the
// 2D modeling plane: which world axes span the plane, which axis is
// collapsed away, and the resulting in-plane gravity.
package plane

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// G is the gravitational acceleration applied along world -z.
const G = 9.81

// Plane selects the two in-plane axes and the out-of-plane view axis for
// a planar model, together with the projected gravity vector and the
// labels used when reporting in-plane coordinates.
type Plane struct {
	Name     string
	XAxis    r3.Vector // in-plane x
	YAxis    r3.Vector // in-plane y
	ViewAxis r3.Vector // out-of-plane, collapsed by the projection
	Gravity  mgl64.Vec2
	XLabel   string
	YLabel   string
}

// ForView returns the plane configuration for one of the supported view
// names: "front" (y-z plane), "right" (x-z plane) or "top" (x-y plane).
func ForView(view string) (*Plane, error) {
	p := &Plane{Name: view}
	switch view {
	case "front":
		p.XAxis = r3.Vector{Y: 1}
		p.YAxis = r3.Vector{Z: 1}
		p.ViewAxis = r3.Vector{X: 1}
		p.XLabel, p.YLabel = "y", "z"
	case "right":
		p.XAxis = r3.Vector{X: 1}
		p.YAxis = r3.Vector{Z: 1}
		p.ViewAxis = r3.Vector{Y: 1}
		p.XLabel, p.YLabel = "x", "z"
	case "top":
		p.XAxis = r3.Vector{X: 1}
		p.YAxis = r3.Vector{Y: 1}
		p.ViewAxis = r3.Vector{Z: 1}
		p.XLabel, p.YLabel = "x", "y"
	default:
		return nil, fmt.Errorf("unknown view %q (want front, right or top)", view)
	}
	down := r3.Vector{Z: -G}
	p.Gravity = mgl64.Vec2{down.Dot(p.XAxis), down.Dot(p.YAxis)}
	return p, nil
}

// Project maps a 3D vector to its in-plane components.
func (p *Plane) Project(v r3.Vector) mgl64.Vec2 {
	return mgl64.Vec2{v.Dot(p.XAxis), v.Dot(p.YAxis)}
}

// RightHanded reports whether (XAxis, YAxis, ViewAxis) form a right-handed
// basis. The right view is left-handed (its view axis points into the
// page), which callers correct by reflecting the root reference transform.
func (p *Plane) RightHanded() bool {
	return p.XAxis.Cross(p.YAxis).Dot(p.ViewAxis) > 0
}

// Reflection returns the in-plane handedness correction for this plane:
// the identity for right-handed planes, and a reflection of the in-plane
// x axis otherwise.
func (p *Plane) Reflection() mgl64.Mat3 {
	if p.RightHanded() {
		return mgl64.Ident3()
	}
	// column-major layout
	return mgl64.Mat3{
		-1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}
