package rigid

import "errors"

// Domain errors for body construction and stepping.
var (
	// ErrInvalidState indicates mass properties or orientation that violate
	// the body invariants (non-positive mass, non-SPD inertia tensor,
	// non-normalizable orientation, ill-conditioned solve).
	ErrInvalidState = errors.New("rigid: invalid body state")

	// ErrInvalidArgument indicates a bad step argument (dt <= 0 or non-finite).
	ErrInvalidArgument = errors.New("rigid: invalid argument")
)
