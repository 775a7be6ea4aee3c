package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/rigid"
)

// AngularMomentumDrift tracks the maximum relative change of the inertial
// angular momentum magnitude. For torque-free motion with constant mass the
// magnitude is conserved, so any drift is integrator error.
type AngularMomentumDrift struct {
	initial  float64
	maxDrift float64
	primed   bool
}

func NewAngularMomentumDrift() *AngularMomentumDrift { return &AngularMomentumDrift{} }

func (m *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (m *AngularMomentumDrift) Observe(b *rigid.Body, t float64) {
	l := r3.Norm(b.AngularMomentum())
	if !m.primed {
		m.initial = l
		m.primed = true
		return
	}
	if m.initial == 0 {
		return
	}
	drift := math.Abs(l-m.initial) / m.initial
	if drift > m.maxDrift {
		m.maxDrift = drift
	}
}

func (m *AngularMomentumDrift) Value() float64 { return m.maxDrift }

func (m *AngularMomentumDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.primed = false
}
