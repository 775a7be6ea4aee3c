// Package burn provides time-varying mass models for bodies that shed
// propellant. Models implement rigid.MassModel, so mass and inertia are
// re-evaluated at the start of every step.
package burn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/rigid"
)

// Cylinder models a solid cylinder losing mass at a constant rate, the usual
// first cut at a burning rocket. Mass decreases linearly until only the dry
// mass remains; the inertia tensor follows the instantaneous mass with the
// solid-cylinder formulas about the geometric center:
//
//	Ixx = Iyy = m/12 * (3r² + h²)
//	Izz = m r² / 2
//
// The longitudinal axis is body z.
type Cylinder struct {
	initialMass float64
	dryMass     float64
	massRate    float64
	radius      float64
	height      float64
}

// NewCylinder builds a cylinder burn model. massRate is the propellant mass
// flow in kg/s; zero gives a constant-mass cylinder.
func NewCylinder(initialMass, dryMass, massRate, radius, height float64) (*Cylinder, error) {
	switch {
	case !isFinite(initialMass) || initialMass <= 0:
		return nil, fmt.Errorf("initial mass must be positive, got %f", initialMass)
	case !isFinite(dryMass) || dryMass <= 0:
		return nil, fmt.Errorf("dry mass must be positive, got %f", dryMass)
	case dryMass > initialMass:
		return nil, fmt.Errorf("dry mass %f exceeds initial mass %f", dryMass, initialMass)
	case !isFinite(massRate) || massRate < 0:
		return nil, fmt.Errorf("mass rate must be non-negative, got %f", massRate)
	case !isFinite(radius) || radius <= 0:
		return nil, fmt.Errorf("radius must be positive, got %f", radius)
	case !isFinite(height) || height <= 0:
		return nil, fmt.Errorf("height must be positive, got %f", height)
	}
	return &Cylinder{
		initialMass: initialMass,
		dryMass:     dryMass,
		massRate:    massRate,
		radius:      radius,
		height:      height,
	}, nil
}

// Mass returns the instantaneous mass at the given elapsed time, clamped at
// the dry mass once the propellant is spent.
func (c *Cylinder) Mass(elapsed float64) float64 {
	m := c.initialMass - c.massRate*elapsed
	if m < c.dryMass {
		return c.dryMass
	}
	return m
}

// BurnoutTime returns the time at which the propellant runs out, or +Inf for
// a zero mass rate.
func (c *Cylinder) BurnoutTime() float64 {
	if c.massRate == 0 {
		return math.Inf(1)
	}
	return (c.initialMass - c.dryMass) / c.massRate
}

func (c *Cylinder) Properties(elapsed float64) (rigid.Properties, error) {
	m := c.Mass(elapsed)
	return rigid.Properties{
		Mass:         m,
		CenterOfMass: r3.Vec{},
		Inertia:      c.inertia(m),
	}, nil
}

func (c *Cylinder) inertia(m float64) *mat.SymDense {
	transverse := m / 12 * (3*c.radius*c.radius + c.height*c.height)
	axial := m * c.radius * c.radius / 2
	return mat.NewSymDense(3, []float64{
		transverse, 0, 0,
		0, transverse, 0,
		0, 0, axial,
	})
}

// Constant wraps fixed properties as a mass model, handy when the rest of the
// pipeline expects a model but the body does not burn.
type Constant struct {
	props rigid.Properties
}

func NewConstant(props rigid.Properties) *Constant { return &Constant{props: props} }

func (c *Constant) Properties(elapsed float64) (rigid.Properties, error) {
	return c.props, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
