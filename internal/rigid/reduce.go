package rigid

import "github.com/gbledt/drake/internal/geom"

// ReduceFixedJoints eliminates every fixed-jointed body from the arena.
// Bodies are processed in reverse construction order, so a fixed body's
// own fixed children have already been absorbed into it by the time it is
// removed. Each body's geometry is re-projected through its reference
// transform into the parent's frame, so the world-frame placement of every
// surviving geometry point is unchanged.
func (m *Model) ReduceFixedJoints() {
	for i := len(m.Bodies) - 1; i >= 0; i-- {
		b := m.Bodies[i]
		if b.Code != JointFixed {
			continue
		}
		parent := m.Bodies[b.Parent]
		for _, pts := range b.Geometry {
			parent.Geometry = append(parent.Geometry, geom.ApplyAll(b.Ttree, pts))
		}
		m.removeBody(i)
	}
}

// removeBody excises the body at idx and reattaches its children to its
// parent, composing reference transforms so each child keeps its placement
// relative to the new parent. Remaining bodies are reindexed in place.
func (m *Model) removeBody(idx int) {
	b := m.Bodies[idx]
	for _, c := range m.Bodies {
		if c.Parent == idx {
			c.Parent = b.Parent
			c.Ttree = b.Ttree.Mul3(c.Ttree)
			c.Xtree = c.Xtree.Mul3(b.Xtree)
		}
	}
	m.Bodies = append(m.Bodies[:idx], m.Bodies[idx+1:]...)
	for j := idx; j < len(m.Bodies); j++ {
		m.Bodies[j].Index = j
	}
	for _, c := range m.Bodies {
		if c.Parent > idx {
			c.Parent--
		}
	}
}
