package rigid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// orientation quaternions with norm below this cannot be normalized.
const minQuatNorm = 1e-12

// BodyState is the kinematic state a body starts from. A zero Orientation
// is rejected; use Identity for an unrotated body.
type BodyState struct {
	Position        r3.Vec
	Velocity        r3.Vec
	Orientation     quat.Number
	AngularVelocity r3.Vec
}

// Identity is the unrotated orientation (body frame aligned with inertial).
var Identity = quat.Number{Real: 1}

// Body holds the time-varying state of one rigid body. All mutation goes
// through Step; accessors return copies so the invariants cannot be broken
// from outside.
type Body struct {
	pos    r3.Vec
	vel    r3.Vec
	orient quat.Number
	omega  r3.Vec

	mass    float64
	cog     r3.Vec
	inertia *mat.SymDense
	chol    *mat.Cholesky

	elapsed   float64
	massModel MassModel
}

// Option configures a Body at construction.
type Option func(*Body)

// WithMassModel injects a time-varying mass-property model. Without it the
// body keeps its initial properties for the whole trajectory.
func WithMassModel(m MassModel) Option {
	return func(b *Body) { b.massModel = m }
}

// New constructs a body from an initial state and initial inertial
// properties. It fails with ErrInvalidState if the mass is not positive, the
// inertia tensor is not symmetric positive-definite, the orientation cannot
// be normalized, or any state component is not finite.
func New(initial BodyState, props Properties, opts ...Option) (*Body, error) {
	valid, chol, err := validateProperties(props)
	if err != nil {
		return nil, err
	}
	if !finiteVec(initial.Position) || !finiteVec(initial.Velocity) || !finiteVec(initial.AngularVelocity) {
		return nil, fmt.Errorf("%w: initial state is not finite", ErrInvalidState)
	}
	n := quat.Abs(initial.Orientation)
	if n < minQuatNorm {
		return nil, fmt.Errorf("%w: orientation norm %g too small to normalize", ErrInvalidState, n)
	}

	b := &Body{
		pos:     initial.Position,
		vel:     initial.Velocity,
		orient:  quat.Scale(1/n, initial.Orientation),
		omega:   initial.AngularVelocity,
		mass:    valid.Mass,
		cog:     valid.CenterOfMass,
		inertia: valid.Inertia,
		chol:    chol,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Position returns the inertial-frame position in meters.
func (b *Body) Position() r3.Vec { return b.pos }

// Velocity returns the inertial-frame velocity in m/s.
func (b *Body) Velocity() r3.Vec { return b.vel }

// Orientation returns the unit quaternion mapping body frame to inertial frame.
func (b *Body) Orientation() quat.Number { return b.orient }

// AngularVelocity returns the body-frame angular velocity in rad/s.
func (b *Body) AngularVelocity() r3.Vec { return b.omega }

// Mass returns the current mass in kilograms.
func (b *Body) Mass() float64 { return b.mass }

// CenterOfMass returns the body-frame center-of-mass offset.
func (b *Body) CenterOfMass() r3.Vec { return b.cog }

// Elapsed returns the accumulated simulation time in seconds.
func (b *Body) Elapsed() float64 { return b.elapsed }

// Inertia returns a copy of the current inertia tensor.
func (b *Body) Inertia() *mat.SymDense {
	c := mat.NewSymDense(3, nil)
	c.CopySym(b.inertia)
	return c
}

// ToInertialFrame rotates a body-frame vector into the inertial frame using
// the current orientation.
func (b *Body) ToInertialFrame(v r3.Vec) r3.Vec {
	return r3.Rotation(b.orient).Rotate(v)
}

// ToBodyFrame rotates an inertial-frame vector into the body frame.
func (b *Body) ToBodyFrame(v r3.Vec) r3.Vec {
	return r3.Rotation(quat.Conj(b.orient)).Rotate(v)
}

// VelocityBody returns the translational velocity expressed in the body frame.
func (b *Body) VelocityBody() r3.Vec { return b.ToBodyFrame(b.vel) }

// AngularVelocityInertial returns the angular velocity expressed in the
// inertial frame.
func (b *Body) AngularVelocityInertial() r3.Vec { return b.ToInertialFrame(b.omega) }

// AngularMomentum returns the angular momentum I·ω rotated into the inertial
// frame. For torque-free motion with constant mass properties it is conserved.
func (b *Body) AngularMomentum() r3.Vec {
	return b.ToInertialFrame(b.mulInertia(b.omega))
}

// KineticEnergy returns the total kinetic energy: translational ½m|v|² plus
// rotational ½ωᵀIω.
func (b *Body) KineticEnergy() float64 {
	trans := 0.5 * b.mass * r3.Dot(b.vel, b.vel)
	rot := 0.5 * r3.Dot(b.omega, b.mulInertia(b.omega))
	return trans + rot
}

func (b *Body) mulInertia(v r3.Vec) r3.Vec {
	var out mat.VecDense
	out.MulVec(b.inertia, vecDense(v))
	return fromVecDense(&out)
}

func vecDense(v r3.Vec) *mat.VecDense {
	return mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
}

func fromVecDense(v *mat.VecDense) r3.Vec {
	return r3.Vec{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)}
}
