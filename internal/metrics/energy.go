// Package metrics provides observers that reduce a trajectory to scalar
// diagnostics. All metrics implement sim.Metric and are safe to reuse across
// runs via Reset.
package metrics

import (
	"math"

	"github.com/san-kum/sixdof/internal/rigid"
)

// KineticEnergyDrift tracks the maximum relative deviation of the body's
// kinetic energy from its initial value. For a coasting body this measures
// integrator error; under applied loads it simply reports the largest swing.
type KineticEnergyDrift struct {
	initial  float64
	maxDrift float64
	primed   bool
}

func NewKineticEnergyDrift() *KineticEnergyDrift { return &KineticEnergyDrift{} }

func (m *KineticEnergyDrift) Name() string { return "kinetic_energy_drift" }

func (m *KineticEnergyDrift) Observe(b *rigid.Body, t float64) {
	e := b.KineticEnergy()
	if !m.primed {
		m.initial = e
		m.primed = true
		return
	}
	if m.initial == 0 {
		return
	}
	drift := math.Abs(e-m.initial) / math.Abs(m.initial)
	if drift > m.maxDrift {
		m.maxDrift = drift
	}
}

func (m *KineticEnergyDrift) Value() float64 { return m.maxDrift }

func (m *KineticEnergyDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.primed = false
}

// MeanKineticEnergy averages kinetic energy over the observed steps.
type MeanKineticEnergy struct {
	sum   float64
	count int
}

func NewMeanKineticEnergy() *MeanKineticEnergy { return &MeanKineticEnergy{} }

func (m *MeanKineticEnergy) Name() string { return "mean_kinetic_energy" }

func (m *MeanKineticEnergy) Observe(b *rigid.Body, t float64) {
	m.sum += b.KineticEnergy()
	m.count++
}

func (m *MeanKineticEnergy) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func (m *MeanKineticEnergy) Reset() {
	m.sum = 0
	m.count = 0
}
