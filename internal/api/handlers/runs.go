package handlers

import (
	"cvrp-route-service/internal/api/dto"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

type RunsHandler struct {
	Repo ports.RunRepository
}

// List returns the most recent runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := defaultRunsLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	runs, err := h.Repo.ListRuns(r.Context(), limit)
	if err != nil {
		obs.Logger().Error().Err(err).Msg("list runs failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunSummaryResponse, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.RunSummaryResponse{
			ID:            run.ID,
			CreatedAt:     run.CreatedAt,
			Customers:     run.Customers,
			Vehicles:      run.Vehicles,
			InitialCost:   run.InitialCost,
			BestCost:      run.BestCost,
			BestIteration: run.BestIteration,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get returns one stored run including its trace.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "run id is required")
		return
	}

	run, err := h.Repo.GetRun(r.Context(), id)
	if errors.Is(err, ports.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		obs.Logger().Error().Err(err).Str("run_id", id).Msg("get run failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toRunResponse(run))
}
