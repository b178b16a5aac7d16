package rigid

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/gbledt/drake/internal/geom"
	"github.com/gbledt/drake/internal/plane"
)

func newTestModel(t *testing.T, view string) *Model {
	t.Helper()
	p, err := plane.ForView(view)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel("test", p)
}

func TestAddJointRevoluteRightView(t *testing.T) {
	// one revolute joint in the x-z plane, axis along the view axis,
	// hanging one unit up the world z axis
	m := newTestModel(t, "right")
	base := m.AddBody("base")
	arm := m.AddBody("arm")

	err := m.AddJoint(Descriptor{
		Name:    "shoulder",
		Type:    "revolute",
		Origin:  r3.Vector{Z: 1},
		Axis:    r3.Vector{Y: 1},
		Damping: 0.1,
	}, base, arm)
	if err != nil {
		t.Fatal(err)
	}

	if arm.Code != JointRevolute {
		t.Errorf("code: want revolute, got %s", arm.Code)
	}
	if arm.DofNum != 1 || m.NB != 1 {
		t.Errorf("dof: want 1, got %d (NB=%d)", arm.DofNum, m.NB)
	}
	if arm.Sign != 1 {
		t.Errorf("sign: want +1, got %g", arm.Sign)
	}
	if arm.Pitch != 0 {
		t.Errorf("pitch: want 0, got %g", arm.Pitch)
	}
	if arm.Damping != 0.1 {
		t.Errorf("damping: want 0.1, got %g", arm.Damping)
	}
	if arm.Parent != base.Index {
		t.Errorf("parent: want %d, got %d", base.Index, arm.Parent)
	}

	// Ttree is a pure translation: x=0, z=1 in plane coordinates
	if got := geom.Angle(arm.Ttree); got != 0 {
		t.Errorf("Ttree angle: want 0, got %f", got)
	}
	o := geom.Origin(arm.Ttree)
	if o.X() != 0 || o.Y() != 1 {
		t.Errorf("Ttree origin: want (0,1), got (%f,%f)", o.X(), o.Y())
	}
	if arm.Xtree != geom.Xpln(0, 0, 1) {
		t.Errorf("Xtree: want Xpln(0,0,1), got %v", arm.Xtree)
	}
}

func TestAddJointSignFlip(t *testing.T) {
	m := newTestModel(t, "top")
	base := m.AddBody("base")
	arm := m.AddBody("arm")

	err := m.AddJoint(Descriptor{
		Name: "j", Type: "continuous", Axis: r3.Vector{Z: -1},
	}, base, arm)
	if err != nil {
		t.Fatal(err)
	}
	if arm.Sign != -1 {
		t.Errorf("sign: want -1, got %g", arm.Sign)
	}
	if arm.Code != JointRevolute {
		t.Errorf("continuous should classify as revolute, got %s", arm.Code)
	}
}

func TestAddJointPrismatic(t *testing.T) {
	tests := []struct {
		name string
		axis r3.Vector
		code JointCode
		sign float64
	}{
		{"x", r3.Vector{X: 1}, JointPrismaticX, 1},
		{"neg x", r3.Vector{X: -1}, JointPrismaticX, -1},
		{"z", r3.Vector{Z: 1}, JointPrismaticZ, 1},
		{"neg z", r3.Vector{Z: -1}, JointPrismaticZ, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// right view: in-plane axes are world x and z
			m := newTestModel(t, "right")
			base := m.AddBody("base")
			slide := m.AddBody("slide")

			err := m.AddJoint(Descriptor{Name: "j", Type: "prismatic", Axis: tt.axis}, base, slide)
			if err != nil {
				t.Fatal(err)
			}
			if slide.Code != tt.code {
				t.Errorf("code: want %s, got %s", tt.code, slide.Code)
			}
			if slide.Sign != tt.sign {
				t.Errorf("sign: want %g, got %g", tt.sign, slide.Sign)
			}
			if !math.IsInf(slide.Pitch, 1) {
				t.Errorf("pitch: want +Inf, got %g", slide.Pitch)
			}
		})
	}
}

func TestAddJointPlanar(t *testing.T) {
	m := newTestModel(t, "top")
	base := m.AddBody("base")
	puck := m.AddBody("puck")

	err := m.AddJoint(Descriptor{
		Name:    "float",
		Type:    "planar",
		Origin:  r3.Vector{X: 2},
		Axis:    r3.Vector{Z: 1},
		Damping: 0.3,
	}, base, puck)
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Bodies) != 4 {
		t.Fatalf("want 4 bodies (2 links + 2 synthesized), got %d", len(m.Bodies))
	}
	if m.NB != 3 {
		t.Fatalf("want 3 dof, got %d", m.NB)
	}

	b1 := m.Bodies[2]
	b2 := m.Bodies[3]
	chain := []*Body{b1, b2, puck}
	codes := []JointCode{JointPrismaticX, JointPrismaticZ, JointRevolute}
	for i, b := range chain {
		if b.Code != codes[i] {
			t.Errorf("chain[%d]: want %s, got %s", i, codes[i], b.Code)
		}
		if b.DofNum != i+1 {
			t.Errorf("chain[%d]: want dof %d, got %d", i, i+1, b.DofNum)
		}
		if b.Sign != 1 {
			t.Errorf("chain[%d]: want shared sign +1, got %g", i, b.Sign)
		}
		if b.Damping != 0.3 {
			t.Errorf("chain[%d]: want shared damping, got %g", i, b.Damping)
		}
	}

	if b1.Parent != base.Index || b2.Parent != b1.Index || puck.Parent != b2.Index {
		t.Error("chain parents wrong")
	}

	// the joint origin lands on the head of the chain; the rest is identity
	if o := geom.Origin(b1.Ttree); o.X() != 2 || o.Y() != 0 {
		t.Errorf("b1 origin: want (2,0), got %v", o)
	}
	if o := geom.Origin(puck.Ttree); o.X() != 0 || o.Y() != 0 {
		t.Errorf("puck Ttree should be identity, origin %v", o)
	}
}

func TestAddJointFixed(t *testing.T) {
	m := newTestModel(t, "front")
	base := m.AddBody("base")
	tool := m.AddBody("tool")

	err := m.AddJoint(Descriptor{Name: "mount", Type: "fixed", Origin: r3.Vector{Y: 1}}, base, tool)
	if err != nil {
		t.Fatal(err)
	}
	if tool.Code != JointFixed {
		t.Errorf("code: want fixed, got %s", tool.Code)
	}
	if !tool.FixedPitch() {
		t.Error("pitch should be the fixed sentinel")
	}
	if tool.DofNum != 0 || m.NB != 0 {
		t.Error("fixed joints must not consume a dof")
	}
}

// Every jointed body carries exactly one of the three pitch encodings
// before reduction.
func TestPitchTrichotomy(t *testing.T) {
	m := newTestModel(t, "top")
	base := m.AddBody("base")
	a := m.AddBody("a")
	b := m.AddBody("b")
	c := m.AddBody("c")

	if err := m.AddJoint(Descriptor{Name: "j1", Type: "revolute", Axis: r3.Vector{Z: 1}}, base, a); err != nil {
		t.Fatal(err)
	}
	if err := m.AddJoint(Descriptor{Name: "j2", Type: "prismatic", Axis: r3.Vector{X: 1}}, a, b); err != nil {
		t.Fatal(err)
	}
	if err := m.AddJoint(Descriptor{Name: "j3", Type: "fixed"}, b, c); err != nil {
		t.Fatal(err)
	}

	for _, body := range []*Body{a, b, c} {
		states := 0
		if body.Pitch == 0 {
			states++
		}
		if math.IsInf(body.Pitch, 1) {
			states++
		}
		if body.FixedPitch() {
			states++
		}
		if states != 1 {
			t.Errorf("body %s: pitch %g satisfies %d encodings", body.LinkName, body.Pitch, states)
		}
	}
}

func TestAddJointRotatedOrigin(t *testing.T) {
	m := newTestModel(t, "top")
	base := m.AddBody("base")
	arm := m.AddBody("arm")

	// yaw rotates about the top view's view axis
	err := m.AddJoint(Descriptor{
		Name: "j", Type: "revolute",
		Origin: r3.Vector{X: 1},
		RPY:    r3.Vector{Z: math.Pi / 4},
		Axis:   r3.Vector{Z: 1},
	}, base, arm)
	if err != nil {
		t.Fatal(err)
	}
	if got := geom.Angle(arm.Ttree); math.Abs(got-math.Pi/4) > 1e-12 {
		t.Errorf("Ttree angle: want pi/4, got %f", got)
	}
}

func TestAddJointAntiparallelRotation(t *testing.T) {
	// front view: view axis +x; a negative roll is a rotation about -x,
	// which stays in plane with a negated angle
	m := newTestModel(t, "front")
	base := m.AddBody("base")
	arm := m.AddBody("arm")

	err := m.AddJoint(Descriptor{
		Name: "j", Type: "revolute",
		RPY:  r3.Vector{X: -0.5},
		Axis: r3.Vector{X: 1},
	}, base, arm)
	if err != nil {
		t.Fatal(err)
	}
	if got := geom.Angle(arm.Ttree); math.Abs(got-(-0.5)) > 1e-12 {
		t.Errorf("Ttree angle: want -0.5, got %f", got)
	}
}

func TestAddJointErrors(t *testing.T) {
	tests := []struct {
		name string
		view string
		d    Descriptor
		want any
	}{
		{
			"revolute axis off the view axis",
			"top",
			Descriptor{Name: "j", Type: "revolute", Axis: r3.Vector{X: 1}},
			&AxisAlignmentError{},
		},
		{
			"prismatic axis out of plane",
			"top",
			Descriptor{Name: "j", Type: "prismatic", Axis: r3.Vector{Z: 1}},
			&AxisAlignmentError{},
		},
		{
			"prismatic diagonal in-plane axis",
			"top",
			Descriptor{Name: "j", Type: "prismatic", Axis: r3.Vector{X: 1, Y: 1}},
			&UnsupportedAxisError{},
		},
		{
			"planar axis off the view axis",
			"top",
			Descriptor{Name: "j", Type: "planar", Axis: r3.Vector{X: 1}},
			&AxisAlignmentError{},
		},
		{
			"unknown joint type",
			"top",
			Descriptor{Name: "j", Type: "screw", Axis: r3.Vector{Z: 1}},
			&UnsupportedJointTypeError{},
		},
		{
			"out of plane origin rotation",
			"top",
			Descriptor{Name: "j", Type: "revolute", RPY: r3.Vector{X: math.Pi / 2}, Axis: r3.Vector{Z: 1}},
			&OutOfPlaneRotationError{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, tt.view)
			base := m.AddBody("base")
			child := m.AddBody("child")
			err := m.AddJoint(tt.d, base, child)
			if err == nil {
				t.Fatal("expected error")
			}
			ok := false
			switch tt.want.(type) {
			case *AxisAlignmentError:
				var e *AxisAlignmentError
				ok = errors.As(err, &e)
			case *UnsupportedAxisError:
				var e *UnsupportedAxisError
				ok = errors.As(err, &e)
			case *UnsupportedJointTypeError:
				var e *UnsupportedJointTypeError
				ok = errors.As(err, &e)
			case *OutOfPlaneRotationError:
				var e *OutOfPlaneRotationError
				ok = errors.As(err, &e)
			}
			if !ok {
				t.Errorf("wrong error type: %T (%v)", err, err)
			}
		})
	}
}

func TestAddJointDuplicateChild(t *testing.T) {
	m := newTestModel(t, "top")
	base := m.AddBody("base")
	other := m.AddBody("other")
	child := m.AddBody("child")

	d := Descriptor{Name: "j1", Type: "revolute", Axis: r3.Vector{Z: 1}}
	if err := m.AddJoint(d, base, child); err != nil {
		t.Fatal(err)
	}

	d.Name = "j2"
	err := m.AddJoint(d, other, child)
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("want StructuralError, got %T (%v)", err, err)
	}
}

func TestDofNumbersContiguous(t *testing.T) {
	m := newTestModel(t, "top")
	prev := m.AddBody("base")
	for i := 0; i < 4; i++ {
		next := m.AddBody("link" + string(rune('a'+i)))
		d := Descriptor{Name: "j" + string(rune('a'+i)), Type: "revolute", Axis: r3.Vector{Z: 1}}
		if err := m.AddJoint(d, prev, next); err != nil {
			t.Fatal(err)
		}
		prev = next
	}

	seen := make(map[int]bool)
	for _, b := range m.Bodies {
		if b.DofNum == 0 {
			continue
		}
		if seen[b.DofNum] {
			t.Errorf("dof %d assigned twice", b.DofNum)
		}
		seen[b.DofNum] = true
		if !b.IsRoot() {
			if p := m.Bodies[b.Parent]; p.DofNum >= b.DofNum {
				t.Errorf("parent dof %d not below %d", p.DofNum, b.DofNum)
			}
		}
	}
	for i := 1; i <= m.NB; i++ {
		if !seen[i] {
			t.Errorf("dof %d missing", i)
		}
	}
}
