package instance

import (
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"encoding/json"
	"fmt"
	"os"
)

type pointFile struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type customerFile struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Demand int     `json:"demand"`
}

type instanceFile struct {
	Depot     pointFile      `json:"depot"`
	Customers []customerFile `json:"customers"`
	Vehicles  int            `json:"vehicles"`
	Capacity  int            `json:"capacity"`
	Distances [][]float64    `json:"distances,omitempty"`
}

// Read an instance description from a JSON file.
func LoadSpecFile(path string) (*ports.InstanceSpec, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load instance: read %q: %w", path, err)
	}
	return ParseSpec(bytes)
}

// Decode an instance description and run the cheap structural checks.
// Full validation happens when the instance is built.
func ParseSpec(data []byte) (*ports.InstanceSpec, error) {
	var f instanceFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load instance: parse json: %w", err)
	}

	if f.Vehicles <= 0 {
		return nil, fmt.Errorf("load instance: %w", domain.ErrNoVehicles)
	}
	if f.Capacity <= 0 {
		return nil, fmt.Errorf("load instance: %w", domain.ErrInvalidCapacity)
	}

	spec := &ports.InstanceSpec{
		Depot:     domain.Coordinates{X: f.Depot.X, Y: f.Depot.Y},
		Customers: make([]ports.CustomerSpec, 0, len(f.Customers)),
		Vehicles:  f.Vehicles,
		Capacity:  f.Capacity,
		Distances: f.Distances,
	}
	for i, c := range f.Customers {
		if c.Demand < 0 {
			return nil, fmt.Errorf("load instance: customer at index %d: %w", i, domain.ErrNegativeDemand)
		}
		spec.Customers = append(spec.Customers, ports.CustomerSpec{
			Position: domain.Coordinates{X: c.X, Y: c.Y},
			Demand:   c.Demand,
		})
	}

	return spec, nil
}
