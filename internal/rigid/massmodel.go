package rigid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Properties are the inertial properties of a body at an instant: mass in
// kilograms, center-of-mass offset in the body frame, and the inertia tensor
// in the body frame about the center of mass.
type Properties struct {
	Mass         float64
	CenterOfMass r3.Vec
	Inertia      *mat.SymDense
}

// MassModel supplies possibly time-varying inertial properties. It is
// queried once per step with the body's elapsed time and must return a valid
// triple: positive mass and a symmetric positive-definite inertia tensor.
// The step driver rejects an invalid return and leaves the body untouched.
type MassModel interface {
	Properties(elapsed float64) (Properties, error)
}

// MassModelFunc adapts a function to the MassModel interface.
type MassModelFunc func(elapsed float64) (Properties, error)

func (f MassModelFunc) Properties(elapsed float64) (Properties, error) { return f(elapsed) }

// validateProperties checks the invariants on a property triple and returns
// the Cholesky factorization of the inertia tensor, which doubles as the
// positive-definiteness test and is later reused for the angular solve.
// The returned properties hold a private copy of the tensor.
func validateProperties(p Properties) (Properties, *mat.Cholesky, error) {
	if math.IsNaN(p.Mass) || math.IsInf(p.Mass, 0) || p.Mass <= 0 {
		return Properties{}, nil, fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidState, p.Mass)
	}
	if !finiteVec(p.CenterOfMass) {
		return Properties{}, nil, fmt.Errorf("%w: center of mass is not finite", ErrInvalidState)
	}
	if p.Inertia == nil {
		return Properties{}, nil, fmt.Errorf("%w: inertia tensor is nil", ErrInvalidState)
	}
	if n := p.Inertia.SymmetricDim(); n != 3 {
		return Properties{}, nil, fmt.Errorf("%w: inertia tensor must be 3x3, got %dx%d", ErrInvalidState, n, n)
	}
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			v := p.Inertia.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Properties{}, nil, fmt.Errorf("%w: inertia tensor is not finite", ErrInvalidState)
			}
		}
	}

	inertia := mat.NewSymDense(3, nil)
	inertia.CopySym(p.Inertia)

	var chol mat.Cholesky
	if ok := chol.Factorize(inertia); !ok {
		return Properties{}, nil, fmt.Errorf("%w: inertia tensor is not positive-definite", ErrInvalidState)
	}

	valid := Properties{Mass: p.Mass, CenterOfMass: p.CenterOfMass, Inertia: inertia}
	return valid, &chol, nil
}

func finiteVec(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
