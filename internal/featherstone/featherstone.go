// Package featherstone flattens a reduced planar body tree into the
// parallel-array form consumed by O(n) recursive rigid-body dynamics
// algorithms.
package featherstone

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gbledt/drake/internal/rigid"
)

// Arrays is the index-ordered recursive-dynamics representation. Slot i
// (0-based) describes the body whose dof number is i+1. Parent holds the
// parent body's dof number, with 0 as the root sentinel, and always
// satisfies Parent[i] < i+1: a single forward sweep over 1..NB visits
// parents before children, and a single backward sweep suffices for the
// adjoint pass.
type Arrays struct {
	NB      int
	Parent  []int
	Code    []rigid.JointCode
	Xtree   []mgl64.Mat3
	Inertia []mgl64.Mat3
	Damping []float64
}

// Extract flattens the model. The model must already be reduced: a
// remaining fixed-jointed body is an error, as is a dof numbering that is
// not a contiguous 1..NB in parent-before-child order. After extraction
// the model is structurally frozen for this dof ordering; any structural
// edit requires re-extraction.
func Extract(m *rigid.Model) (*Arrays, error) {
	a := &Arrays{
		NB:      m.NB,
		Parent:  make([]int, m.NB),
		Code:    make([]rigid.JointCode, m.NB),
		Xtree:   make([]mgl64.Mat3, m.NB),
		Inertia: make([]mgl64.Mat3, m.NB),
		Damping: make([]float64, m.NB),
	}
	seen := make([]bool, m.NB)
	for _, b := range m.Bodies {
		if b.Code == rigid.JointFixed {
			return nil, fmt.Errorf("body %s: fixed joint %s not reduced", b.LinkName, b.JointName)
		}
		if b.DofNum == 0 {
			continue
		}
		i := b.DofNum - 1
		if i >= m.NB || seen[i] {
			return nil, fmt.Errorf("body %s: dof number %d out of range or duplicated", b.LinkName, b.DofNum)
		}
		seen[i] = true

		parentDof := 0
		if !b.IsRoot() {
			parentDof = m.Bodies[b.Parent].DofNum
		}
		if parentDof >= b.DofNum {
			return nil, fmt.Errorf("body %s: parent dof %d not below own dof %d", b.LinkName, parentDof, b.DofNum)
		}
		a.Parent[i] = parentDof
		a.Code[i] = b.Code
		a.Xtree[i] = b.Xtree
		a.Inertia[i] = b.Inertia
		a.Damping[i] = b.Damping
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("dof number %d unassigned", i+1)
		}
	}
	return a, nil
}
