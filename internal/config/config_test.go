package config

import (
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestDefaultConfig(t *testing.T) {
	g := NewWithT(t)

	cfg := DefaultConfig()
	g.Expect(cfg.View).To(Equal("front"))
	g.Expect(cfg.Sweep.Dof).To(Equal(1))
	g.Expect(cfg.Sweep.Samples).To(Equal(DefaultSamples))
	g.Expect(cfg.Sweep.Coord).To(Equal("x"))
}

func TestSaveLoadRoundtrip(t *testing.T) {
	g := NewWithT(t)

	cfg := DefaultConfig()
	cfg.Robot = "pendulum.urdf"
	cfg.View = "right"
	cfg.Q = []float64{0.1, 0.2}
	cfg.Qd = []float64{-1, 0}
	cfg.Sweep.Body = "arm"
	cfg.Sweep.Coord = "y"

	path := filepath.Join(t.TempDir(), "scene.yaml")
	g.Expect(Save(path, cfg)).To(Succeed())

	loaded, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loaded).To(Equal(cfg))
}

func TestLoadMissingFile(t *testing.T) {
	g := NewWithT(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	g.Expect(err).To(HaveOccurred())
}

func TestLoadKeepsDefaults(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "partial.yaml")
	g.Expect(Save(path, &Config{Robot: "cart.urdf"})).To(Succeed())

	// Save wrote explicit zero values, so Load must not resurrect the
	// defaults it would apply to absent keys
	loaded, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loaded.Robot).To(Equal("cart.urdf"))
	g.Expect(loaded.View).To(Equal(""))
}

func TestStateVectors(t *testing.T) {
	g := NewWithT(t)

	cfg := DefaultConfig()
	q, qd, err := cfg.StateVectors(3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(q).To(Equal([]float64{0, 0, 0}))
	g.Expect(qd).To(Equal([]float64{0, 0, 0}))

	cfg.Q = []float64{1, 2, 3}
	q, _, err = cfg.StateVectors(3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(q).To(Equal([]float64{1, 2, 3}))

	cfg.Q = []float64{1}
	_, _, err = cfg.StateVectors(3)
	g.Expect(err).To(MatchError(ContainSubstring("q has 1 entries")))
}
