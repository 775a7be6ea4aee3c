// Package rigid provides the 6-degree-of-freedom rigid-body core.
//
// A [Body] owns the full kinematic and dynamic state of one rigid body:
//
//   - position and velocity in the inertial frame
//   - orientation as a unit quaternion mapping body frame to inertial frame
//   - angular velocity in the body frame
//   - mass, center of mass, and inertia tensor (symmetric positive-definite,
//     body frame, about the center of mass)
//
// [Body.Step] advances the state by one interval given the external force
// and torque expressed in the body frame, using semi-implicit Euler for
// translation, a Cholesky solve of Euler's rigid-body equation for rotation,
// and the quaternion kinematic differential equation for attitude, with the
// quaternion renormalized after every step.
//
// Time-varying mass properties (a body burning propellant) are supplied by a
// [MassModel] injected at construction; it is queried once per step and its
// result is validated before any state is touched, so a rejected update
// leaves the body exactly as it was.
//
// # Thread Safety
//
// Body instances are NOT thread-safe. Each body is exclusively owned by its
// caller; parallel trajectories should integrate independent bodies (see the
// sim package's Ensemble).
package rigid
