package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/rigid"
)

// Apogee records the highest inertial z position reached.
type Apogee struct {
	max    float64
	primed bool
}

func NewApogee() *Apogee { return &Apogee{} }

func (m *Apogee) Name() string { return "apogee" }

func (m *Apogee) Observe(b *rigid.Body, t float64) {
	z := b.Position().Z
	if !m.primed || z > m.max {
		m.max = z
		m.primed = true
	}
}

func (m *Apogee) Value() float64 { return m.max }

func (m *Apogee) Reset() {
	m.max = 0
	m.primed = false
}

// MaxSpeed records the largest inertial speed reached.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(b *rigid.Body, t float64) {
	if s := r3.Norm(b.Velocity()); s > m.max {
		m.max = s
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
