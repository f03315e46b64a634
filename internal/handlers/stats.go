package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
	"github.com/consorciovial/ssoma-server/internal/services"
)

// StatsHandler serves the monthly accident counters and derived indices.
type StatsHandler struct {
	statsSvc *services.StatsService
	logger   *zap.SugaredLogger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsSvc *services.StatsService, logger *zap.SugaredLogger) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc, logger: logger}
}

// Get handles GET /api/v1/stats/{year}: the raw counters.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	year, ok := h.year(w, r)
	if !ok {
		return
	}
	counters, err := h.statsSvc.Load(r.Context(), year)
	if err != nil {
		h.logger.Errorw("Load counters failed", "year", year, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load counters")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"year":     year,
		"counters": counters,
	})
}

// Put handles PUT /api/v1/stats/{year}: replace the raw counters.
func (h *StatsHandler) Put(w http.ResponseWriter, r *http.Request) {
	year, ok := h.year(w, r)
	if !ok {
		return
	}
	var counters models.MonthlyCounters
	if err := json.NewDecoder(r.Body).Decode(&counters); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid counters payload")
		return
	}
	if err := h.statsSvc.Save(r.Context(), year, &counters); err != nil {
		h.logger.Errorw("Save counters failed", "year", year, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save counters")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "year": year})
}

// Indices handles GET /api/v1/stats/{year}/indices: the derived
// frequency/severity/accidentability set, recomputed on every call.
func (h *StatsHandler) Indices(w http.ResponseWriter, r *http.Request) {
	year, ok := h.year(w, r)
	if !ok {
		return
	}
	indices, err := h.statsSvc.Indices(r.Context(), year)
	if err != nil {
		h.logger.Errorw("Compute indices failed", "year", year, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to compute indices")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"year":    year,
		"indices": indices,
	})
}

func (h *StatsHandler) year(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2000 || year > 2100 {
		respondError(w, http.StatusBadRequest, "Invalid year")
		return 0, false
	}
	return year, true
}
