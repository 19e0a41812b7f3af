package distance

import (
	"context"
	"crypto/sha256"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

// ORSMatrixProvider implements DistanceMatrixProvider using OpenRouteService.
//
// Customer positions are sent as [lon, lat] pairs in a single matrix request.
// Road distances are not symmetric, so each pair is averaged over both
// directions before the matrix is validated. Whole matrices are cached
// by coordinate fingerprint when a MatrixCache is configured.
//
// The provider is safe for concurrent use.
type ORSMatrixProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	cache   ports.MatrixCache
	backoff time.Duration
}

// NewORSMatrixProvider builds a provider; an empty baseURL selects the public ORS API.
func NewORSMatrixProvider(apiKey string, baseURL string, cache ports.MatrixCache) (*ORSMatrixProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = defaultORSBaseURL
	}

	return &ORSMatrixProvider{
		session: &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving-car",
		cache:   cache,
		backoff: initialBackoff,
	}, nil
}

// Compute the symmetric road-distance matrix for all customers, depot included.
func (o *ORSMatrixProvider) Matrix(
	ctx context.Context,
	customers []domain.Customer,
) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "ors.Matrix")(&err)

	if len(customers) < 2 {
		return nil, fmt.Errorf("ORS matrix: need at least 2 locations, got %d", len(customers))
	}

	key := o.cacheKey(customers)

	// Check persistent matrix cache before issuing external API calls.
	if o.cache != nil {
		m, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("ORS get matrix cache: %w", err)
		}
		if ok && m.Size() == len(customers) {
			return m, nil
		}
	}

	coords := make([]domain.Coordinates, 0, len(customers))
	for _, c := range customers {
		coords = append(coords, c.Position)
	}

	raw, err := o.fetchMatrix(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix: %w", err)
	}

	m, err := domain.NewDistanceMatrix(symmetrize(raw))
	if err != nil {
		return nil, fmt.Errorf("ORS matrix: %w", err)
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, key, m); err != nil {
			obs.Logger().Warn().Err(err).Str("key", key).Msg("matrix cache write failed")
		}
	}

	return m, nil
}

// cacheKey fingerprints the profile and the ordered customer positions.
func (o *ORSMatrixProvider) cacheKey(customers []domain.Customer) string {
	h := sha256.New()
	h.Write([]byte(o.profile))
	for _, c := range customers {
		h.Write([]byte{'|'})
		h.Write([]byte(strconv.FormatFloat(c.Position.X, 'f', -1, 64)))
		h.Write([]byte{','})
		h.Write([]byte(strconv.FormatFloat(c.Position.Y, 'f', -1, 64)))
	}
	return "ors:" + o.profile + ":" + hex.EncodeToString(h.Sum(nil))
}

// symmetrize averages both directions of every pair and zeroes the diagonal.
func symmetrize(raw [][]float64) [][]float64 {
	n := len(raw)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := (raw[i][j] + raw[j][i]) / 2
			out[i][j] = d
			out[j][i] = d
		}
	}
	return out
}
