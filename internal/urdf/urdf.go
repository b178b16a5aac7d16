// Package urdf reads Universal Robot Description Format files and builds
// planar rigid-body models from them. Only the elements a planar model
// consumes are mapped: links with inertial and box-visual data, and
// joints with origin, axis and damping attributes.
package urdf

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Document mirrors the URDF robot element.
type Document struct {
	XMLName xml.Name `xml:"robot"`
	Name    string   `xml:"name,attr"`
	Links   []Link   `xml:"link"`
	Joints  []Joint  `xml:"joint"`
}

// Link is one URDF link element.
type Link struct {
	Name     string    `xml:"name,attr"`
	Inertial *Inertial `xml:"inertial"`
	Visuals  []Visual  `xml:"visual"`
}

// Inertial carries a link's mass distribution.
type Inertial struct {
	Origin  *Pose   `xml:"origin"`
	Mass    Mass    `xml:"mass"`
	Inertia *Tensor `xml:"inertia"`
}

// Mass is the mass sub-element.
type Mass struct {
	Value float64 `xml:"value,attr"`
}

// Tensor is the symmetric 3D rotational inertia about the link's center
// of mass.
type Tensor struct {
	Ixx float64 `xml:"ixx,attr"`
	Ixy float64 `xml:"ixy,attr"`
	Ixz float64 `xml:"ixz,attr"`
	Iyy float64 `xml:"iyy,attr"`
	Iyz float64 `xml:"iyz,attr"`
	Izz float64 `xml:"izz,attr"`
}

// Visual is a link's visual element; only box geometry is mapped.
type Visual struct {
	Origin   *Pose    `xml:"origin"`
	Geometry Geometry `xml:"geometry"`
}

// Geometry wraps the shape choice inside a visual element.
type Geometry struct {
	Box *Box `xml:"box"`
}

// Box is an axis-aligned box, size given as "sx sy sz".
type Box struct {
	Size string `xml:"size,attr"`
}

// Pose is a URDF origin element with space-separated triples.
type Pose struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"`
}

// Axis is a joint axis element.
type Axis struct {
	XYZ string `xml:"xyz,attr"`
}

// Dynamics carries joint damping.
type Dynamics struct {
	Damping float64 `xml:"damping,attr"`
}

// Frame names a link from a joint's parent/child element.
type Frame struct {
	Link string `xml:"link,attr"`
}

// Joint is one URDF joint element.
type Joint struct {
	Name     string    `xml:"name,attr"`
	Type     string    `xml:"type,attr"`
	Parent   Frame     `xml:"parent"`
	Child    Frame     `xml:"child"`
	Origin   *Pose     `xml:"origin"`
	Axis     *Axis     `xml:"axis"`
	Dynamics *Dynamics `xml:"dynamics"`
}

// Parse unmarshals URDF XML data.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty robot description")
	}
	doc := &Document{}
	if err := xml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse robot description")
	}
	return doc, nil
}

// ParseFile reads and unmarshals a URDF file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read robot description")
	}
	return Parse(data)
}

// triple parses a space-separated 3-vector attribute. An empty string is
// the zero vector.
func triple(s string) (r3.Vector, error) {
	if strings.TrimSpace(s) == "" {
		return r3.Vector{}, nil
	}
	f := strings.Fields(s)
	if len(f) != 3 {
		return r3.Vector{}, errors.Errorf("want 3 values in %q", s)
	}
	var out [3]float64
	for i, field := range f {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "bad value %q in %q", field, s)
		}
		out[i] = v
	}
	return r3.Vector{X: out[0], Y: out[1], Z: out[2]}, nil
}
