package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/rigid"
)

type constantLoads struct {
	force  r3.Vec
	torque r3.Vec
}

func (c *constantLoads) Loads(b *rigid.Body, t float64) (r3.Vec, r3.Vec) {
	return c.force, c.torque
}

func testBody(t *testing.T, opts ...rigid.Option) *rigid.Body {
	t.Helper()
	inertia := mat.NewSymDense(3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	b, err := rigid.New(
		rigid.BodyState{Orientation: rigid.Identity},
		rigid.Properties{Mass: 2, Inertia: inertia},
		opts...,
	)
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	return b
}

func TestSimulatorRun(t *testing.T) {
	body := testBody(t)
	s := New(&constantLoads{force: r3.Vec{X: 4}})

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := s.Run(context.Background(), body, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	// a = 2 m/s² for 1 s
	if math.Abs(body.Velocity().X-2.0) > 1e-9 {
		t.Errorf("expected final vx 2.0, got %f", body.Velocity().X)
	}
	last := result.Samples[len(result.Samples)-1]
	if math.Abs(last.Time-1.0) > 1e-9 {
		t.Errorf("expected final sample at t=1.0, got %f", last.Time)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&constantLoads{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := testBody(t)
			if _, err := s.Run(context.Background(), body, tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type countingMetric struct {
	count int
}

func (m *countingMetric) Name() string                     { return "count" }
func (m *countingMetric) Observe(b *rigid.Body, t float64) { m.count++ }
func (m *countingMetric) Value() float64                   { return float64(m.count) }
func (m *countingMetric) Reset()                           { m.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	body := testBody(t)
	s := New(&constantLoads{})

	metric := &countingMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), body, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if result.Metrics["count"] != 10 {
		t.Errorf("metric not collected in result: %v", result.Metrics)
	}
}

func TestSimulatorStepFailureKeepsBodyValid(t *testing.T) {
	calls := 0
	inertia := mat.NewSymDense(3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	model := rigid.MassModelFunc(func(elapsed float64) (rigid.Properties, error) {
		calls++
		if calls == 3 {
			return rigid.Properties{Mass: 0, Inertia: inertia}, nil
		}
		return rigid.Properties{Mass: 2, Inertia: inertia}, nil
	})
	body := testBody(t, rigid.WithMassModel(model))

	s := New(&constantLoads{force: r3.Vec{Z: 1}})
	result, err := s.Run(context.Background(), body, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, rigid.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	if result.StepsTaken != 2 {
		t.Errorf("expected 2 completed steps, got %d", result.StepsTaken)
	}
	if math.Abs(body.Elapsed()-0.2) > 1e-12 {
		t.Errorf("body should sit at t=0.2, got %f", body.Elapsed())
	}
}

func TestRunWithCallbackStopsEarly(t *testing.T) {
	body := testBody(t)
	s := New(&constantLoads{force: r3.Vec{X: 2}})

	steps := 0
	err := s.RunWithCallback(context.Background(), body, Config{Dt: 0.1, Duration: 10.0}, func(b *rigid.Body, tm float64) bool {
		steps++
		return steps <= 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if steps != 6 {
		t.Errorf("expected callback 6 times, got %d", steps)
	}
	if math.Abs(body.Elapsed()-0.5) > 1e-12 {
		t.Errorf("expected t=0.5 at stop, got %f", body.Elapsed())
	}
}

func TestRunCanceledContext(t *testing.T) {
	body := testBody(t)
	s := New(&constantLoads{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, body, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnsembleRunsIndependentBodies(t *testing.T) {
	inertia := mat.NewSymDense(3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	factory := func(run int) (*rigid.Body, error) {
		return rigid.New(
			rigid.BodyState{
				Orientation: rigid.Identity,
				Velocity:    r3.Vec{X: float64(run)},
			},
			rigid.Properties{Mass: 1, Inertia: inertia},
		)
	}

	e := NewEnsemble(factory, &constantLoads{}, 4)
	results, err := e.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		last := r.Samples[len(r.Samples)-1]
		wantX := float64(i) * 1.0
		if math.Abs(last.Position.X-wantX) > 1e-9 {
			t.Errorf("run %d: expected final x %f, got %f", i, wantX, last.Position.X)
		}
	}
}
