// Package kinematics computes cached forward kinematics for a planar
// rigid-body model: the world transform and planar velocity of every body
// as a function of the generalized coordinates.
package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gbledt/drake/internal/geom"
	"github.com/gbledt/drake/internal/rigid"
)

// CacheTol is the per-coordinate tolerance for cache validity.
const CacheTol = 1e-6

// Engine recomputes body transforms and velocities on demand. The cache
// key is the (q, qd) slice each body last consumed; any single mismatch
// invalidates the whole tree, so after an Update either every body is
// current or every body has been recomputed.
type Engine struct {
	model      *rigid.Model
	recomputes int
}

// NewEngine returns an engine over the model. The engine mutates the
// bodies' cache fields; concurrent callers must serialize access.
func NewEngine(m *rigid.Model) *Engine {
	return &Engine{model: m}
}

// Recomputes returns how many full-tree recomputations the engine has
// performed. Cache hits leave it unchanged.
func (e *Engine) Recomputes() int { return e.recomputes }

// Invalidate forces the next Update to recompute regardless of the cache.
func (e *Engine) Invalidate() {
	for _, b := range e.model.Bodies {
		b.Computed = false
	}
}

// Update brings every body's world transform T and planar velocity V in
// line with the supplied coordinates. q and qd must have length NB; a
// wrong length is a precondition violation and fails fast.
func (e *Engine) Update(q, qd []float64) error {
	m := e.model
	if len(q) != m.NB {
		return &rigid.DimensionMismatchError{What: "coordinate vector q", Want: m.NB, Got: len(q)}
	}
	if len(qd) != m.NB {
		return &rigid.DimensionMismatchError{What: "velocity vector qd", Want: m.NB, Got: len(qd)}
	}
	if e.current(q, qd) {
		return nil
	}
	e.recomputes++

	for _, b := range e.order() {
		if b.IsRoot() {
			b.T = b.Ttree
			b.V = mgl64.Vec3{}
			b.Computed = true
			continue
		}
		p := m.Bodies[b.Parent]

		var qi, qdi float64
		if b.Code.Dof() {
			qi = b.Sign * q[b.DofNum-1]
			qdi = b.Sign * qd[b.DofNum-1]
		}
		b.T = p.T.Mul3(b.Ttree).Mul3(jointPose(b.Code, qi))

		// Exact velocity propagation: the parent's angular rate couples with
		// the new position offset, and the joint contributes its own column.
		r := geom.Origin(b.T).Sub(geom.Origin(p.T))
		omega := p.V[0]
		v := p.V
		v[1] += -omega * r.Y()
		v[2] += omega * r.X()
		switch b.Code {
		case rigid.JointRevolute:
			v[0] += qdi
		case rigid.JointPrismaticX:
			v[1] += b.T.At(0, 0) * qdi
			v[2] += b.T.At(1, 0) * qdi
		case rigid.JointPrismaticZ:
			v[1] += b.T.At(0, 1) * qdi
			v[2] += b.T.At(1, 1) * qdi
		}
		b.V = v

		if b.Code.Dof() {
			b.CachedQ = q[b.DofNum-1]
			b.CachedQd = qd[b.DofNum-1]
		}
		b.Computed = true
	}
	return nil
}

// current reports whether every body's cache matches the supplied
// coordinates elementwise within CacheTol.
func (e *Engine) current(q, qd []float64) bool {
	for _, b := range e.model.Bodies {
		if !b.Computed {
			return false
		}
		if !b.Code.Dof() {
			continue
		}
		i := b.DofNum - 1
		if math.Abs(b.CachedQ-q[i]) > CacheTol || math.Abs(b.CachedQd-qd[i]) > CacheTol {
			return false
		}
	}
	return true
}

// order returns the bodies parent-before-child. Arena order is close to
// topological already, but planar-joint decomposition can place a
// synthesized parent after its child, so the order is derived from the
// parent links instead of trusted.
func (e *Engine) order() []*rigid.Body {
	m := e.model
	out := make([]*rigid.Body, 0, len(m.Bodies))
	seen := make([]bool, len(m.Bodies))
	var visit func(i int)
	visit = func(i int) {
		if seen[i] {
			return
		}
		seen[i] = true
		if p := m.Bodies[i].Parent; p != rigid.NoParent {
			visit(p)
		}
		out = append(out, m.Bodies[i])
	}
	for i := range m.Bodies {
		visit(i)
	}
	return out
}

func jointPose(code rigid.JointCode, qi float64) mgl64.Mat3 {
	switch code {
	case rigid.JointRevolute:
		return geom.Pose(qi, 0, 0)
	case rigid.JointPrismaticX:
		return geom.Pose(0, qi, 0)
	case rigid.JointPrismaticZ:
		return geom.Pose(0, 0, qi)
	}
	return mgl64.Ident3()
}
