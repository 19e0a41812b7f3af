package domain

import "math"

// NoPosition marks the indices of a null move.
const NoPosition = -1

// Relocation of one customer to another position of the same route.
// The customer at From is reinserted after the stop currently at To.
type IntraMove struct {
	Route int
	From  int
	To    int
	Delta float64
}

// NullIntraMove signals that no admissible move was found.
func NullIntraMove() IntraMove {
	return IntraMove{Route: NoPosition, From: NoPosition, To: NoPosition, Delta: math.Inf(1)}
}

func (m IntraMove) IsNull() bool { return m.Route == NoPosition }

// Relocation of one customer from FromRoute into ToRoute, after the stop
// currently at To. OriginDelta and DestinationDelta are the cost changes of the
// two routes; Delta is their sum.
type InterMove struct {
	FromRoute        int
	ToRoute          int
	From             int
	To               int
	Delta            float64
	OriginDelta      float64
	DestinationDelta float64
}

func NullInterMove() InterMove {
	return InterMove{
		FromRoute: NoPosition,
		ToRoute:   NoPosition,
		From:      NoPosition,
		To:        NoPosition,
		Delta:     math.Inf(1),
	}
}

func (m InterMove) IsNull() bool { return m.FromRoute == NoPosition }
