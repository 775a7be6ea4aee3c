package rigid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Step advances the body by dt seconds under the given external force and
// torque, both expressed in the body frame at the start of the interval.
//
// The substep order is fixed for reproducibility:
//
//  1. query and validate the mass-property model at the current elapsed time
//  2. rotate the force into the inertial frame using the pre-step orientation
//  3. semi-implicit Euler translation: velocity first, then position with
//     the updated velocity
//  4. solve Euler's rigid-body equation I·α = τ − ω×(I·ω) and update the
//     body-frame angular velocity
//  5. integrate the quaternion kinematic equation q̇ = ½·q⊗ω with the updated
//     angular velocity, then renormalize
//  6. advance elapsed time by dt
//
// A failure at any substep leaves the body in its exact pre-call state.
func (b *Body) Step(force, torque r3.Vec, dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidArgument, dt)
	}

	mass, cog, inertia, chol := b.mass, b.cog, b.inertia, b.chol
	if b.massModel != nil {
		p, err := b.massModel.Properties(b.elapsed)
		if err != nil {
			return fmt.Errorf("%w: mass model: %v", ErrInvalidState, err)
		}
		valid, factored, err := validateProperties(p)
		if err != nil {
			return err
		}
		mass, cog, inertia, chol = valid.Mass, valid.CenterOfMass, valid.Inertia, factored
	}

	// Translation. The force is rotated with the pre-step orientation; the
	// position update uses the already-updated velocity (symplectic Euler).
	accel := r3.Scale(1/mass, b.ToInertialFrame(force))
	vel := r3.Add(b.vel, r3.Scale(dt, accel))
	pos := r3.Add(b.pos, r3.Scale(dt, vel))

	// Rotation: I·α = τ − ω×(I·ω), solved through the Cholesky factors.
	var iw mat.VecDense
	iw.MulVec(inertia, vecDense(b.omega))
	rhs := r3.Sub(torque, r3.Cross(b.omega, fromVecDense(&iw)))
	var alpha mat.VecDense
	if err := chol.SolveVecTo(&alpha, vecDense(rhs)); err != nil {
		return fmt.Errorf("%w: angular solve failed: %v", ErrInvalidState, err)
	}
	omega := r3.Add(b.omega, r3.Scale(dt, fromVecDense(&alpha)))

	// Attitude. Renormalization every step keeps the unit-norm invariant
	// from drifting under first-order integration.
	qdot := quat.Scale(0.5, quat.Mul(b.orient, quat.Number{Imag: omega.X, Jmag: omega.Y, Kmag: omega.Z}))
	q := quat.Add(b.orient, quat.Scale(dt, qdot))
	n := quat.Abs(q)
	if math.IsNaN(n) || n < minQuatNorm {
		return fmt.Errorf("%w: orientation degenerated during step", ErrInvalidState)
	}
	q = quat.Scale(1/n, q)

	b.mass, b.cog, b.inertia, b.chol = mass, cog, inertia, chol
	b.vel, b.pos, b.omega, b.orient = vel, pos, omega, q
	b.elapsed += dt
	return nil
}
