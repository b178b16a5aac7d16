package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultView    = "front"
	DefaultSamples = 120
)

// Config is a scene description for the CLI: which robot file to load,
// which view plane to model in, the coordinates to evaluate at, and the
// sweep settings used by the sweep command.
type Config struct {
	Robot string      `yaml:"robot"`
	View  string      `yaml:"view"`
	Q     []float64   `yaml:"q"`
	Qd    []float64   `yaml:"qd"`
	Sweep SweepConfig `yaml:"sweep"`
}

// SweepConfig selects one generalized coordinate to sweep and the body
// origin coordinate to trace while sweeping it.
type SweepConfig struct {
	Dof     int     `yaml:"dof"` // 1-based dof number
	From    float64 `yaml:"from"`
	To      float64 `yaml:"to"`
	Samples int     `yaml:"samples"`
	Body    string  `yaml:"body"`  // link name, empty = last body
	Coord   string  `yaml:"coord"` // "x" or "y"
}

func DefaultConfig() *Config {
	return &Config{
		View: DefaultView,
		Sweep: SweepConfig{
			Dof:     1,
			From:    -3.14,
			To:      3.14,
			Samples: DefaultSamples,
			Coord:   "x",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StateVectors returns the (q, qd) pair for a model with nb coordinates.
// Unset vectors default to zero; a set vector of the wrong length is an
// error rather than silently padded.
func (c *Config) StateVectors(nb int) ([]float64, []float64, error) {
	q, err := fitVector("q", c.Q, nb)
	if err != nil {
		return nil, nil, err
	}
	qd, err := fitVector("qd", c.Qd, nb)
	if err != nil {
		return nil, nil, err
	}
	return q, qd, nil
}

func fitVector(name string, v []float64, nb int) ([]float64, error) {
	if len(v) == 0 {
		return make([]float64, nb), nil
	}
	if len(v) != nb {
		return nil, fmt.Errorf("%s has %d entries, model has %d dof", name, len(v), nb)
	}
	out := make([]float64, nb)
	copy(out, v)
	return out, nil
}
