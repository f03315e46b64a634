package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
	"github.com/consorciovial/ssoma-server/internal/services"
)

// ProgramHandler serves the monthly-program operations that fall outside
// the generic record contract, currently the atomic month replacement.
type ProgramHandler struct {
	monthlySvc *services.MonthlyProgramService
	logger     *zap.SugaredLogger
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(monthlySvc *services.MonthlyProgramService, logger *zap.SugaredLogger) *ProgramHandler {
	return &ProgramHandler{monthlySvc: monthlySvc, logger: logger}
}

type replaceMonthRequest struct {
	Year    int                          `json:"year"`
	Month   int                          `json:"month"`
	Records []models.MonthlyProgramEntry `json:"records"`
}

// ReplaceMonth handles POST /api/v1/records/monthly_program/replace.
// The whole (year, month) slice is swapped in one transaction so readers
// never observe a half-replaced month.
func (h *ProgramHandler) ReplaceMonth(w http.ResponseWriter, r *http.Request) {
	if _, err := h.monthlySvc.EnsureTable(r.Context()); err != nil {
		h.logger.Errorw("Ensure monthly program table failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Storage unavailable")
		return
	}

	var req replaceMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Year < 2000 || req.Year > 2100 || req.Month < 1 || req.Month > 12 {
		respondError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}

	count, err := h.monthlySvc.ReplaceMonth(r.Context(), req.Year, req.Month, req.Records)
	if err != nil {
		h.logger.Errorw("Replace month failed", "year", req.Year, "month", req.Month, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to replace month")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   count,
	})
}
