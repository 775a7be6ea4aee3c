package sim

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/rigid"
)

// LoadModel supplies the external force and torque acting on a body at the
// start of an interval, both expressed in the body frame.
type LoadModel interface {
	Loads(b *rigid.Body, t float64) (force, torque r3.Vec)
}

// Metric accumulates a scalar over a trajectory.
type Metric interface {
	Name() string
	Observe(b *rigid.Body, t float64)
	Value() float64
	Reset()
}

// Observer is notified of the body state before every step.
type Observer interface {
	OnStep(b *rigid.Body, t float64)
}

// Config controls a trajectory run.
type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

// Sample is one recorded point of a trajectory.
type Sample struct {
	Time            float64     `json:"time"`
	Position        r3.Vec      `json:"position"`
	Velocity        r3.Vec      `json:"velocity"`
	Orientation     quat.Number `json:"orientation"`
	AngularVelocity r3.Vec      `json:"angular_velocity"`
	Mass            float64     `json:"mass"`
}

// Result holds a completed (or aborted) trajectory.
type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}
