package urdf

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/gbledt/drake/internal/geom"
	"github.com/gbledt/drake/internal/plane"
	"github.com/gbledt/drake/internal/rigid"
)

// Build instantiates a planar model from a parsed document. Root links
// (links never named as a joint's child) become root bodies first; joints
// are then processed in topological order, so bodies always enter the
// arena after their parents and dof numbers come out parent-before-child
// regardless of how the document orders its joint elements.
func Build(doc *Document, pl *plane.Plane) (*rigid.Model, error) {
	m := rigid.NewModel(doc.Name, pl)

	links := make(map[string]*Link, len(doc.Links))
	for i := range doc.Links {
		links[doc.Links[i].Name] = &doc.Links[i]
	}
	isChild := make(map[string]bool, len(doc.Joints))
	for _, j := range doc.Joints {
		isChild[j.Child.Link] = true
	}

	for i := range doc.Links {
		l := &doc.Links[i]
		if isChild[l.Name] {
			continue
		}
		b := m.AddBody(l.Name)
		if err := attachLink(b, l, pl); err != nil {
			return nil, err
		}
	}

	pending := make([]*Joint, len(doc.Joints))
	for i := range doc.Joints {
		pending[i] = &doc.Joints[i]
	}
	for len(pending) > 0 {
		progress := false
		rest := pending[:0]
		for _, j := range pending {
			parent := m.FindBody(j.Parent.Link)
			if parent == nil {
				rest = append(rest, j)
				continue
			}
			if err := addJoint(m, j, parent, links); err != nil {
				return nil, err
			}
			progress = true
		}
		pending = rest
		if !progress {
			return nil, errors.Errorf("joint %s: parent link %s is unreachable from any root", pending[0].Name, pending[0].Parent.Link)
		}
	}
	return m, nil
}

func addJoint(m *rigid.Model, j *Joint, parent *rigid.Body, links map[string]*Link) error {
	link, ok := links[j.Child.Link]
	if !ok {
		return errors.Errorf("joint %s: unknown child link %s", j.Name, j.Child.Link)
	}

	child := m.FindBody(j.Child.Link)
	if child == nil {
		child = m.AddBody(j.Child.Link)
		if err := attachLink(child, link, m.Plane); err != nil {
			return err
		}
	}

	d := rigid.Descriptor{
		Name:    j.Name,
		Type:    j.Type,
		Axis:    r3.Vector{X: 1},
		Damping: 0,
	}
	if j.Origin != nil {
		var err error
		if d.Origin, err = triple(j.Origin.XYZ); err != nil {
			return errors.Wrapf(err, "joint %s origin", j.Name)
		}
		if d.RPY, err = triple(j.Origin.RPY); err != nil {
			return errors.Wrapf(err, "joint %s origin", j.Name)
		}
	}
	if j.Axis != nil {
		ax, err := triple(j.Axis.XYZ)
		if err != nil {
			return errors.Wrapf(err, "joint %s axis", j.Name)
		}
		if ax.Norm() > 0 {
			d.Axis = ax
		}
	}
	if j.Dynamics != nil {
		d.Damping = j.Dynamics.Damping
	}
	return m.AddJoint(d, parent, child)
}

// attachLink copies a link's mass distribution and visual geometry onto
// its body: the inertia is projected to planar spatial form, and box
// visuals become in-plane point sets.
func attachLink(b *rigid.Body, l *Link, pl *plane.Plane) error {
	if l.Inertial != nil {
		com := r3.Vector{}
		if l.Inertial.Origin != nil {
			var err error
			if com, err = triple(l.Inertial.Origin.XYZ); err != nil {
				return errors.Wrapf(err, "link %s inertial origin", l.Name)
			}
		}
		izz := 0.0
		if t := l.Inertial.Inertia; t != nil {
			izz = viewInertia(t, pl.ViewAxis)
		}
		b.Inertia = geom.MCI(l.Inertial.Mass.Value, pl.Project(com), izz)
	}
	for _, v := range l.Visuals {
		if v.Geometry.Box == nil {
			continue
		}
		pts, err := boxPoints(&v, pl)
		if err != nil {
			return errors.Wrapf(err, "link %s visual", l.Name)
		}
		b.Geometry = append(b.Geometry, pts)
	}
	return nil
}

// viewInertia projects the 3D rotational inertia tensor onto the view
// axis: v' I v for unit v.
func viewInertia(t *Tensor, v r3.Vector) float64 {
	iv := r3.Vector{
		X: t.Ixx*v.X + t.Ixy*v.Y + t.Ixz*v.Z,
		Y: t.Ixy*v.X + t.Iyy*v.Y + t.Iyz*v.Z,
		Z: t.Ixz*v.X + t.Iyz*v.Y + t.Izz*v.Z,
	}
	return v.Dot(iv)
}

// boxPoints projects the eight corners of a box visual into the plane.
func boxPoints(v *Visual, pl *plane.Plane) (geom.Points, error) {
	size, err := triple(v.Geometry.Box.Size)
	if err != nil {
		return nil, err
	}
	offset := r3.Vector{}
	rot := r3.Vector{}
	if v.Origin != nil {
		if offset, err = triple(v.Origin.XYZ); err != nil {
			return nil, err
		}
		if rot, err = triple(v.Origin.RPY); err != nil {
			return nil, err
		}
	}
	q := geom.RPYQuat(rot)
	pts := make(geom.Points, 0, 8)
	for _, sx := range []float64{-0.5, 0.5} {
		for _, sy := range []float64{-0.5, 0.5} {
			for _, sz := range []float64{-0.5, 0.5} {
				corner := r3.Vector{X: sx * size.X, Y: sy * size.Y, Z: sz * size.Z}
				world := offset.Add(geom.Rotate(q, corner))
				pts = append(pts, pl.Project(world))
			}
		}
	}
	return pts, nil
}
