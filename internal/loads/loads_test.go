package loads

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/sixdof/internal/rigid"
)

func bodyWithOrientation(t *testing.T, q quat.Number) *rigid.Body {
	t.Helper()
	inertia := mat.NewSymDense(3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	b, err := rigid.New(
		rigid.BodyState{Orientation: q},
		rigid.Properties{Mass: 2, Inertia: inertia},
	)
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	return b
}

func TestGravityUpright(t *testing.T) {
	b := bodyWithOrientation(t, rigid.Identity)
	g := NewGravity(9.81)

	force, torque := g.Loads(b, 0)

	want := r3.Vec{Z: -9.81 * 2}
	if r3.Norm(r3.Sub(force, want)) > 1e-12 {
		t.Errorf("expected %v, got %v", want, force)
	}
	if r3.Norm(torque) != 0 {
		t.Errorf("gravity should apply no torque, got %v", torque)
	}
}

func TestGravityStaysVerticalWhenPitched(t *testing.T) {
	// body pitched 90° about y: the body x axis points straight down,
	// so the weight appears along body +x
	b := bodyWithOrientation(t, quat.Number(r3.NewRotation(math.Pi/2, r3.Vec{Y: 1})))
	g := NewGravity(10)

	force, _ := g.Loads(b, 0)

	want := r3.Vec{X: 20}
	if r3.Norm(r3.Sub(force, want)) > 1e-9 {
		t.Errorf("expected %v, got %v", want, force)
	}
	// in the inertial frame the weight still points straight down
	back := b.ToInertialFrame(force)
	if r3.Norm(r3.Sub(back, r3.Vec{Z: -20})) > 1e-9 {
		t.Errorf("weight not vertical in inertial frame: %v", back)
	}
}

func TestThrustCutoff(t *testing.T) {
	b := bodyWithOrientation(t, rigid.Identity)
	th := NewThrust(2000, 50)

	force, _ := th.Loads(b, 0)
	if math.Abs(force.Z-2000) > 1e-12 {
		t.Errorf("expected 2000 N along body z, got %v", force)
	}

	force, _ = th.Loads(b, 49.99)
	if force.Z == 0 {
		t.Error("thrust should still burn just before cutoff")
	}

	force, _ = th.Loads(b, 50)
	if r3.Norm(force) != 0 {
		t.Errorf("expected zero thrust after burnout, got %v", force)
	}
}

func TestThrustNormalizesAxis(t *testing.T) {
	b := bodyWithOrientation(t, rigid.Identity)
	th := &Thrust{Magnitude: 10, BurnTime: 1, Axis: r3.Vec{Z: 2}}

	force, _ := th.Loads(b, 0)
	if math.Abs(r3.Norm(force)-10) > 1e-12 {
		t.Errorf("expected magnitude 10, got %f", r3.Norm(force))
	}
}

func TestCombineSums(t *testing.T) {
	b := bodyWithOrientation(t, rigid.Identity)
	combined := Combine(
		NewGravity(10),
		NewThrust(100, 1),
		NewConstantTorque(r3.Vec{X: 3}),
	)

	force, torque := combined.Loads(b, 0)

	wantForce := r3.Vec{Z: -20 + 100}
	if r3.Norm(r3.Sub(force, wantForce)) > 1e-9 {
		t.Errorf("expected %v, got %v", wantForce, force)
	}
	if r3.Norm(r3.Sub(torque, r3.Vec{X: 3})) > 1e-12 {
		t.Errorf("expected torque (3,0,0), got %v", torque)
	}
}

func TestNone(t *testing.T) {
	b := bodyWithOrientation(t, rigid.Identity)
	force, torque := NewNone().Loads(b, 12)
	if r3.Norm(force) != 0 || r3.Norm(torque) != 0 {
		t.Errorf("expected zero loads, got %v %v", force, torque)
	}
}
