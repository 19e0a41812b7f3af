package domain

import "errors"

var (
	// Instance preconditions.
	ErrInvalidDepot    = errors.New("first customer must be the depot with id 0 and zero demand")
	ErrCustomerID      = errors.New("customer ids must match their position in the customer list")
	ErrNegativeDemand  = errors.New("customer demand must be non-negative")
	ErrNoVehicles      = errors.New("fleet must contain at least one vehicle")
	ErrInvalidCapacity = errors.New("vehicle capacity must be positive")
	ErrMixedCapacity   = errors.New("fleet must be homogeneous")

	// Distance matrix preconditions.
	ErrInvalidMatrix    = errors.New("distance matrix must be square and match the customer count")
	ErrNegativeDistance = errors.New("distance matrix contains a negative or non-finite entry")
	ErrNonZeroDiagonal  = errors.New("distance matrix diagonal must be zero")
	ErrAsymmetricMatrix = errors.New("distance matrix must be symmetric")

	// Construction failures.
	ErrInsufficientFleet     = errors.New("fleet exhausted before all customers were served")
	ErrDemandExceedsCapacity = errors.New("customer demand exceeds vehicle capacity")

	ErrInvalidSolution = errors.New("invalid solution")
)

// IsInstanceError reports whether err is caused by a rejected instance
// rather than by a failure while solving it.
func IsInstanceError(err error) bool {
	for _, target := range []error{
		ErrInvalidDepot, ErrCustomerID, ErrNegativeDemand, ErrNoVehicles,
		ErrInvalidCapacity, ErrMixedCapacity, ErrInvalidMatrix, ErrNegativeDistance,
		ErrNonZeroDiagonal, ErrAsymmetricMatrix,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsInfeasible reports whether err means the fleet cannot serve the demand.
func IsInfeasible(err error) bool {
	return errors.Is(err, ErrInsufficientFleet) || errors.Is(err, ErrDemandExceedsCapacity)
}
