package api

import (
	"cvrp-route-service/internal/adapters/distance"
	"cvrp-route-service/internal/adapters/instance"
	"cvrp-route-service/internal/adapters/repositories"
	"cvrp-route-service/internal/api/dto"
	"cvrp-route-service/internal/api/handlers"
	"cvrp-route-service/internal/services"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestRouter(t *testing.T, lim *rate.Limiter) http.Handler {
	t.Helper()

	euclid := distance.NewEuclideanMatrixProvider(true)
	gen, err := instance.NewRandomGenerator(euclid, instance.DefaultGeneratorConfig())
	require.NoError(t, err)

	repo := repositories.NewMemoryRunRepository(100)
	svc := services.NewSolveService(gen, euclid, repo, nil, time.Hour)

	return NewRouter(Deps{
		Solve: &handlers.SolveHandler{
			Service:  svc,
			Options:  services.DefaultSolveOptions(),
			Generate: handlers.GenerateDefaults{Seed: 61092, Customers: 30, Vehicles: 10, Capacity: 50},
			Limits:   handlers.SolveLimits{MaxCustomers: 200, MaxIterations: 1000},
		},
		Runs:         repo,
		SolveLimiter: lim,
	})
}

func TestRouterSolveThenFetch(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	body := `{"generate": {"customers": 15, "vehicles": 5}, "options": {"iterations": 40, "include_trace": true}}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var run dto.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, 15, run.Customers)
	assert.Len(t, run.Trace, 40)
	assert.LessOrEqual(t, run.BestCost, run.InitialCost)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/"+run.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.ListRunsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, run.ID, list.Runs[0].ID)
}

func TestRouterInfeasibleInstance(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"instance": {"depot": {"x": 0, "y": 0}, "customers": [{"x": 1, "y": 1, "demand": 9}], "vehicles": 1, "capacity": 5}}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouterRateLimitsSolve(t *testing.T) {
	router := newTestRouter(t, rate.NewLimiter(rate.Every(time.Hour), 1))
	body := `{"generate": {"customers": 5, "vehicles": 3}, "options": {"iterations": 5}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Other endpoints are not throttled.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
