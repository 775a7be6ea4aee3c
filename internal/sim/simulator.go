package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/sixdof/internal/rigid"
)

// Simulator drives one rigid body against a load model for a configured
// duration, recording samples and feeding metrics and observers.
type Simulator struct {
	loads     LoadModel
	metrics   []Metric
	observers []Observer
}

func New(loads LoadModel) *Simulator {
	return &Simulator{
		loads:     loads,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates the body forward for cfg.Duration in steps of cfg.Dt. The
// body is mutated in place; the returned result additionally records every
// sample. If a step fails, the result collected so far is returned alongside
// the error and the body is left at its last valid state.
func (s *Simulator) Run(ctx context.Context, body *rigid.Body, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Samples = append(result.Samples, snapshot(body))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := body.Elapsed()
		force, torque := s.loads.Loads(body, t)

		for _, m := range s.metrics {
			m.Observe(body, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(body, t)
		}

		if err := body.Step(force, torque, cfg.Dt); err != nil {
			s.collect(result)
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}

		result.StepsTaken++
		result.Samples = append(result.Samples, snapshot(body))
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback integrates the body, invoking callback before every step
// with the current state; a false return stops the run early without error.
func (s *Simulator) RunWithCallback(ctx context.Context, body *rigid.Body, cfg Config, callback func(b *rigid.Body, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := int(cfg.Duration / cfg.Dt)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := body.Elapsed()
		if !callback(body, t) {
			return nil
		}

		force, torque := s.loads.Loads(body, t)
		if err := body.Step(force, torque, cfg.Dt); err != nil {
			return fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}
	}

	return nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func snapshot(b *rigid.Body) Sample {
	return Sample{
		Time:            b.Elapsed(),
		Position:        b.Position(),
		Velocity:        b.Velocity(),
		Orientation:     b.Orientation(),
		AngularVelocity: b.AngularVelocity(),
		Mass:            b.Mass(),
	}
}
