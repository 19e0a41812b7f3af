package distance

import (
	"bytes"
	"context"
	"cvrp-route-service/internal/domain"
	"encoding/json"
	"fmt"
	"net/http"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
}

// fetchMatrix retrieves the full n×n distance matrix (meters) for the given
// locations using the OpenRouteService matrix endpoint.
func (o *ORSMatrixProvider) fetchMatrix(
	ctx context.Context,
	coords []domain.Coordinates,
) ([][]float64, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, len(coords))
	for _, c := range coords {
		locations = append(locations, c.CoordsToList())
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	n := len(coords)
	if len(mr.Distances) != n {
		return nil, fmt.Errorf("expected %d source rows; got %d", n, len(mr.Distances))
	}

	out := make([][]float64, n)
	for i, row := range mr.Distances {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d entries; want %d", i, len(row), n)
		}

		out[i] = make([]float64, n)
		for j, v := range row {
			// ORS reports unroutable pairs as null.
			if v == nil {
				return nil, fmt.Errorf("matrix returned no route from location %d to %d", i, j)
			}
			out[i][j] = *v
		}
	}

	return out, nil
}
