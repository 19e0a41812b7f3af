package domain

import "fmt"

// Represents a CVRP problem: customers with the depot at index 0, a homogeneous
// fleet and the matching distance matrix. Instances are shared read-only by
// every solver phase.
type Instance struct {
	Customers []Customer
	Vehicles  []Vehicle
	Distances DistanceMatrix
}

// NewInstance checks the preconditions every solver relies on.
// distances is expected to come from NewDistanceMatrix.
func NewInstance(customers []Customer, vehicles []Vehicle, distances DistanceMatrix) (*Instance, error) {
	if len(customers) == 0 {
		return nil, fmt.Errorf("new instance: %w: no customers", ErrInvalidDepot)
	}

	depot := customers[0]
	if depot.ID != DepotID || depot.Demand != 0 {
		return nil, fmt.Errorf("new instance: %w: got id=%d demand=%d", ErrInvalidDepot, depot.ID, depot.Demand)
	}

	for i, c := range customers {
		if c.ID != i {
			return nil, fmt.Errorf("new instance: %w: index %d holds id %d", ErrCustomerID, i, c.ID)
		}
		if c.Demand < 0 {
			return nil, fmt.Errorf("new instance: %w: customer %d demand=%d", ErrNegativeDemand, c.ID, c.Demand)
		}
	}

	if len(vehicles) == 0 {
		return nil, fmt.Errorf("new instance: %w", ErrNoVehicles)
	}

	capacity := vehicles[0].Capacity
	for _, v := range vehicles {
		if v.Capacity <= 0 {
			return nil, fmt.Errorf("new instance: %w: vehicle %d capacity=%d", ErrInvalidCapacity, v.VehicleID, v.Capacity)
		}
		if v.Capacity != capacity {
			return nil, fmt.Errorf(
				"new instance: %w: vehicle %d capacity=%d, fleet capacity=%d",
				ErrMixedCapacity, v.VehicleID, v.Capacity, capacity,
			)
		}
	}

	if distances.Size() != len(customers) {
		return nil, fmt.Errorf(
			"new instance: %w: matrix size=%d customers=%d",
			ErrInvalidMatrix, distances.Size(), len(customers),
		)
	}

	return &Instance{
		Customers: customers,
		Vehicles:  vehicles,
		Distances: distances,
	}, nil
}

func (in *Instance) Depot() Customer { return in.Customers[0] }

// Capacity of every vehicle of the fleet.
func (in *Instance) Capacity() int { return in.Vehicles[0].Capacity }

// FleetCapacity is the load the whole fleet can carry in one dispatch.
func (in *Instance) FleetCapacity() int { return len(in.Vehicles) * in.Capacity() }

// TotalDemand sums the demand of every customer, depot included (always 0).
func (in *Instance) TotalDemand() int {
	total := 0
	for _, c := range in.Customers {
		total += c.Demand
	}
	return total
}
