// Package loads provides force/torque models fed to the step driver. All
// models return loads in the body frame, the frame the core integrates in.
package loads

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/rigid"
	"github.com/san-kum/sixdof/internal/sim"
)

// None applies no loads; the body coasts.
type None struct{}

func NewNone() *None { return &None{} }

func (n *None) Loads(b *rigid.Body, t float64) (r3.Vec, r3.Vec) {
	return r3.Vec{}, r3.Vec{}
}

// Gravity pulls along inertial -z with the configured acceleration. The
// weight is computed in the inertial frame and rotated into the body frame,
// so it stays vertical no matter how the body tumbles.
type Gravity struct {
	Accel float64
}

func NewGravity(accel float64) *Gravity { return &Gravity{Accel: accel} }

func (g *Gravity) Loads(b *rigid.Body, t float64) (r3.Vec, r3.Vec) {
	weight := r3.Vec{Z: -g.Accel * b.Mass()}
	return b.ToBodyFrame(weight), r3.Vec{}
}

// Thrust pushes along a fixed body-frame axis until the burn time runs out.
type Thrust struct {
	Magnitude float64
	BurnTime  float64
	Axis      r3.Vec
}

// NewThrust builds a thrust model along the body z axis (the usual rocket
// longitudinal axis).
func NewThrust(magnitude, burnTime float64) *Thrust {
	return &Thrust{Magnitude: magnitude, BurnTime: burnTime, Axis: r3.Vec{Z: 1}}
}

func (th *Thrust) Loads(b *rigid.Body, t float64) (r3.Vec, r3.Vec) {
	if t >= th.BurnTime {
		return r3.Vec{}, r3.Vec{}
	}
	axis := th.Axis
	if n := r3.Norm(axis); n > 0 {
		axis = r3.Scale(1/n, axis)
	}
	return r3.Scale(th.Magnitude, axis), r3.Vec{}
}

// ConstantTorque applies a fixed body-frame torque.
type ConstantTorque struct {
	Torque r3.Vec
}

func NewConstantTorque(torque r3.Vec) *ConstantTorque { return &ConstantTorque{Torque: torque} }

func (c *ConstantTorque) Loads(b *rigid.Body, t float64) (r3.Vec, r3.Vec) {
	return r3.Vec{}, c.Torque
}

// Composite sums the loads of several models.
type Composite struct {
	models []sim.LoadModel
}

func Combine(models ...sim.LoadModel) *Composite {
	return &Composite{models: models}
}

func (c *Composite) Loads(b *rigid.Body, t float64) (r3.Vec, r3.Vec) {
	var force, torque r3.Vec
	for _, m := range c.models {
		f, tq := m.Loads(b, t)
		force = r3.Add(force, f)
		torque = r3.Add(torque, tq)
	}
	return force, torque
}
