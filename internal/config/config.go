package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sixdof/internal/burn"
	"github.com/san-kum/sixdof/internal/loads"
	"github.com/san-kum/sixdof/internal/rigid"
	"github.com/san-kum/sixdof/internal/sim"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultMass     = 20.0
	DefaultGravity  = 9.81
)

type Config struct {
	Dt       float64     `yaml:"dt"`
	Duration float64     `yaml:"duration"`
	Seed     int64       `yaml:"seed"`
	Body     BodyConfig  `yaml:"body"`
	Burn     *BurnConfig `yaml:"burn,omitempty"`
	Loads    LoadsConfig `yaml:"loads"`
}

type BodyConfig struct {
	Position        [3]float64 `yaml:"position"`
	Velocity        [3]float64 `yaml:"velocity"`
	Orientation     [4]float64 `yaml:"orientation"` // w, x, y, z
	AngularVelocity [3]float64 `yaml:"angular_velocity"`
	Mass            float64    `yaml:"mass"`
	CenterOfMass    [3]float64 `yaml:"center_of_mass"`
	// Inertia holds the six independent entries of the symmetric tensor.
	Inertia InertiaConfig `yaml:"inertia"`
}

type InertiaConfig struct {
	Ixx float64 `yaml:"ixx"`
	Iyy float64 `yaml:"iyy"`
	Izz float64 `yaml:"izz"`
	Ixy float64 `yaml:"ixy"`
	Ixz float64 `yaml:"ixz"`
	Iyz float64 `yaml:"iyz"`
}

type BurnConfig struct {
	DryMass  float64 `yaml:"dry_mass"`
	MassRate float64 `yaml:"mass_rate"`
	Radius   float64 `yaml:"radius"`
	Height   float64 `yaml:"height"`
}

type LoadsConfig struct {
	Gravity float64       `yaml:"gravity"`
	Thrust  *ThrustConfig `yaml:"thrust,omitempty"`
	Torque  [3]float64    `yaml:"torque"`
}

type ThrustConfig struct {
	Magnitude float64 `yaml:"magnitude"`
	BurnTime  float64 `yaml:"burn_time"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Body: BodyConfig{
			Orientation: [4]float64{1, 0, 0, 0},
			Mass:        DefaultMass,
			Inertia:     InertiaConfig{Ixx: 1, Iyy: 1, Izz: 1},
		},
		Loads: LoadsConfig{Gravity: DefaultGravity},
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

// NewBody builds the configured rigid body, wiring in a burn model when one
// is configured.
func (c *Config) NewBody() (*rigid.Body, error) {
	state := rigid.BodyState{
		Position: vec(c.Body.Position),
		Velocity: vec(c.Body.Velocity),
		Orientation: quat.Number{
			Real: c.Body.Orientation[0],
			Imag: c.Body.Orientation[1],
			Jmag: c.Body.Orientation[2],
			Kmag: c.Body.Orientation[3],
		},
		AngularVelocity: vec(c.Body.AngularVelocity),
	}

	var opts []rigid.Option
	props := rigid.Properties{
		Mass:         c.Body.Mass,
		CenterOfMass: vec(c.Body.CenterOfMass),
		Inertia:      c.Body.Inertia.Tensor(),
	}

	if c.Burn != nil {
		model, err := burn.NewCylinder(c.Body.Mass, c.Burn.DryMass, c.Burn.MassRate, c.Burn.Radius, c.Burn.Height)
		if err != nil {
			return nil, fmt.Errorf("burn model: %w", err)
		}
		initial, err := model.Properties(0)
		if err != nil {
			return nil, fmt.Errorf("burn model: %w", err)
		}
		props = initial
		opts = append(opts, rigid.WithMassModel(model))
	}

	return rigid.New(state, props, opts...)
}

// LoadModel builds the composite load model described by the config.
func (c *Config) LoadModel() sim.LoadModel {
	var models []sim.LoadModel
	if c.Loads.Gravity != 0 {
		models = append(models, loads.NewGravity(c.Loads.Gravity))
	}
	if c.Loads.Thrust != nil {
		models = append(models, loads.NewThrust(c.Loads.Thrust.Magnitude, c.Loads.Thrust.BurnTime))
	}
	if tq := vec(c.Loads.Torque); r3.Norm(tq) != 0 {
		models = append(models, loads.NewConstantTorque(tq))
	}
	if len(models) == 0 {
		return loads.NewNone()
	}
	return loads.Combine(models...)
}

// SimConfig extracts the stepping parameters for the simulator.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{Dt: c.Dt, Duration: c.Duration, Seed: c.Seed}
}

func (i InertiaConfig) Tensor() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		i.Ixx, i.Ixy, i.Ixz,
		i.Ixy, i.Iyy, i.Iyz,
		i.Ixz, i.Iyz, i.Izz,
	})
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
