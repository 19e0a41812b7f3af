package domain

import "fmt"

// Represents the visiting sequence of a single vehicle.
// Stops begins with the depot and, once closed, also ends with it.
// Load and Cost are caches kept up to date by the operations that mutate
// the route; ComputeLoad and ComputeCost rebuild them from scratch.
type Route struct {
	VehicleID int
	Capacity  int
	Load      int
	Stops     []Customer
	Cost      float64
}

// Number of positions in the sequence, depot endpoints included.
func (r *Route) Len() int { return len(r.Stops) }

func (r *Route) Last() Customer { return r.Stops[len(r.Stops)-1] }

// Fits reports whether a demand can be added without exceeding capacity.
func (r *Route) Fits(demand int) bool { return r.Load+demand <= r.Capacity }

// Append a customer to the end of the route.
// leg is the distance from the current last stop to c.
func (r *Route) Serve(c Customer, leg float64) error {
	if !r.Fits(c.Demand) {
		return fmt.Errorf(
			"serve customer %d: vehicle %d is at capacity (load=%d demand=%d capacity=%d)",
			c.ID, r.VehicleID, r.Load, c.Demand, r.Capacity,
		)
	}

	r.Stops = append(r.Stops, c)
	r.Load += c.Demand
	r.Cost += leg
	return nil
}

// Close the route by returning to the depot.
func (r *Route) Close(depot Customer, leg float64) {
	r.Stops = append(r.Stops, depot)
	r.Cost += leg
}

// IsEmpty reports whether the route serves no customer.
func (r *Route) IsEmpty() bool {
	for _, c := range r.Stops {
		if !c.IsDepot() {
			return false
		}
	}
	return true
}

// Remove and return the customer at position i.
func (r *Route) RemoveAt(i int) Customer {
	c := r.Stops[i]
	r.Stops = append(r.Stops[:i], r.Stops[i+1:]...)
	return c
}

// Insert c so that it ends up at position i.
func (r *Route) InsertAt(c Customer, i int) {
	r.Stops = append(r.Stops, Customer{})
	copy(r.Stops[i+1:], r.Stops[i:])
	r.Stops[i] = c
}

// Clone returns a route that shares no sequence storage with r.
func (r *Route) Clone() *Route {
	stops := make([]Customer, len(r.Stops))
	copy(stops, r.Stops)

	return &Route{
		VehicleID: r.VehicleID,
		Capacity:  r.Capacity,
		Load:      r.Load,
		Stops:     stops,
		Cost:      r.Cost,
	}
}

// Sum of consecutive-pair distances along the sequence.
func (r *Route) ComputeCost(m DistanceMatrix) float64 {
	total := 0.0
	for i := 0; i+1 < len(r.Stops); i++ {
		total += m[r.Stops[i].ID][r.Stops[i+1].ID]
	}
	return total
}

// Sum of demands of the non-depot stops.
func (r *Route) ComputeLoad() int {
	load := 0
	for _, c := range r.Stops {
		if !c.IsDepot() {
			load += c.Demand
		}
	}
	return load
}

// Customer ids in visiting order, depot endpoints included.
func (r *Route) StopIDs() []int {
	ids := make([]int, 0, len(r.Stops))
	for _, c := range r.Stops {
		ids = append(ids, c.ID)
	}
	return ids
}
