package domain

import "fmt"

// A vehicle of the homogeneous fleet. Every vehicle runs at most one route.
type Vehicle struct {
	VehicleID int
	Capacity  int
}

func NewVehicle(id int, capacity int) Vehicle {
	return Vehicle{
		VehicleID: id,
		Capacity:  capacity,
	}
}

// Build n identical vehicles numbered from 1.
func NewFleet(n int, capacity int) []Vehicle {
	fleet := make([]Vehicle, 0, n)
	for i := 0; i < n; i++ {
		fleet = append(fleet, NewVehicle(i+1, capacity))
	}
	return fleet
}

// Open an empty route for the vehicle, starting at the depot.
func (v Vehicle) Dispatch(depot Customer) (*Route, error) {
	if !depot.IsDepot() {
		return nil, fmt.Errorf("dispatch vehicle %d: customer %d is not the depot", v.VehicleID, depot.ID)
	}

	return &Route{
		VehicleID: v.VehicleID,
		Capacity:  v.Capacity,
		Stops:     []Customer{depot},
	}, nil
}
