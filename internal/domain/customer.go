package domain

// DepotID is the customer id reserved for the depot.
const DepotID = 0

// Represents a single customer served by the fleet.
// The depot is the customer with ID 0 and zero demand. Customers are
// value types and never change after the instance is built.
type Customer struct {
	ID       int
	Position Coordinates
	Demand   int
}

func (c Customer) IsDepot() bool { return c.ID == DepotID }
