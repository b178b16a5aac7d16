package viz

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gbledt/drake/internal/geom"
	"github.com/gbledt/drake/internal/rigid"
)

// DrawChain renders the model's current kinematic state onto the canvas:
// one line per parent-child pair between body origins, and a dot per
// geometry point. The caller is responsible for having run a forward
// kinematics update first.
func DrawChain(c *Canvas, m *rigid.Model) {
	proj := fitProjection(c, m)
	for _, b := range m.Bodies {
		if !b.IsRoot() {
			p := m.Bodies[b.Parent]
			x1, y1 := proj.pixel(geom.Origin(p.T))
			x2, y2 := proj.pixel(geom.Origin(b.T))
			c.Line(x1, y1, x2, y2)
		}
		for _, pts := range b.Geometry {
			for _, pt := range pts {
				x, y := proj.pixel(geom.Apply(b.T, pt))
				c.Set(x, y)
			}
		}
	}
}

// projection maps world coordinates to canvas sub-pixels, y up.
type projection struct {
	minX, minY float64
	scale      float64
	pw, ph     int
}

func (p projection) pixel(w mgl64.Vec2) (int, int) {
	x := int((w.X() - p.minX) * p.scale)
	y := p.ph - 1 - int((w.Y()-p.minY)*p.scale)
	return x, y
}

// fitProjection bounds every body origin and geometry point at the
// current configuration and fits them to the canvas with 10% padding and
// a uniform scale, so the chain keeps its aspect ratio.
func fitProjection(c *Canvas, m *rigid.Model) projection {
	minX, minY := -1.0, -1.0
	maxX, maxY := 1.0, 1.0
	grow := func(w mgl64.Vec2) {
		if w.X() < minX {
			minX = w.X()
		}
		if w.X() > maxX {
			maxX = w.X()
		}
		if w.Y() < minY {
			minY = w.Y()
		}
		if w.Y() > maxY {
			maxY = w.Y()
		}
	}
	for _, b := range m.Bodies {
		grow(geom.Origin(b.T))
		for _, pts := range b.Geometry {
			for _, pt := range pts {
				grow(geom.Apply(b.T, pt))
			}
		}
	}

	padX := (maxX - minX) * 0.1
	padY := (maxY - minY) * 0.1
	minX -= padX
	maxX += padX
	minY -= padY
	maxY += padY

	pw := c.Width * 2
	ph := c.Height * 4
	sx := float64(pw-1) / (maxX - minX)
	sy := float64(ph-1) / (maxY - minY)
	scale := sx
	if sy < sx {
		scale = sy
	}
	return projection{minX: minX, minY: minY, scale: scale, pw: pw, ph: ph}
}
