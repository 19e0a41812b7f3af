package domain

import "math"

// Immutable planar coordinates of a customer or the depot.
// Geographic adapters read X as longitude and Y as latitude.
type Coordinates struct {
	X float64
	Y float64
}

// Return coordinates as [x, y] ([lon, lat]) for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.X, c.Y} }

// Straight-line distance to another point.
func (c Coordinates) DistanceTo(o Coordinates) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}
