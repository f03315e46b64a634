// Package handlers contains HTTP request handlers for the SSOMA API.
// Handlers parse requests, call services, and return JSON responses.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
	"github.com/consorciovial/ssoma-server/internal/services"
)

// RecordStore is the uniform shape every record service exposes. The
// handler is generic so the action envelope is decoded exactly once at
// the boundary instead of per-endpoint field sniffing.
type RecordStore[T any] interface {
	EnsureTable(ctx context.Context) ([]services.MigrationOutcome, error)
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec *T) (string, error)
	Update(ctx context.Context, id string, rec *T) error
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, recs []T) (int, error)
	LegacySync(ctx context.Context, recs []T) (int, error)
}

// RecordHandler serves one record type's list and action endpoints.
type RecordHandler[T any] struct {
	name   string
	store  RecordStore[T]
	logger *zap.SugaredLogger
}

// NewRecordHandler creates a handler for one record type.
func NewRecordHandler[T any](name string, store RecordStore[T], logger *zap.SugaredLogger) *RecordHandler[T] {
	return &RecordHandler[T]{name: name, store: store, logger: logger}
}

// List handles GET: full table, date-ordered by the service.
func (h *RecordHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	if !h.ensure(w, r) {
		return
	}
	recs, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Errorw("List failed", "type", h.name, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}
	if recs == nil {
		recs = []T{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"records": recs,
	})
}

// Handle handles POST: the action envelope, or the legacy raw-records
// sync contract when no action is present.
func (h *RecordHandler[T]) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.ensure(w, r) {
		return
	}

	switch req.Action {
	case "create":
		rec, ok := h.decodeOne(w, req.Data)
		if !ok {
			return
		}
		id, err := h.store.Create(r.Context(), rec)
		if err != nil {
			h.fail(w, "create", err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": id})

	case "update":
		if req.ID == "" {
			respondError(w, http.StatusBadRequest, "ID required")
			return
		}
		rec, ok := h.decodeOne(w, req.Data)
		if !ok {
			return
		}
		if err := h.store.Update(r.Context(), req.ID, rec); err != nil {
			h.fail(w, "update", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": req.ID})

	case "delete":
		if req.ID == "" {
			respondError(w, http.StatusBadRequest, "ID required")
			return
		}
		if err := h.store.Delete(r.Context(), req.ID); err != nil {
			h.fail(w, "delete", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})

	case "bulk-create":
		recs, ok := h.decodeMany(w, req)
		if !ok {
			return
		}
		count, err := h.store.BulkCreate(r.Context(), recs)
		if err != nil {
			h.fail(w, "bulk-create", err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "count": count})

	case "":
		// Legacy sync: a raw array without an action. Append-only — the
		// old contract wiped and replaced the table, so stale clients
		// must not be able to destroy data.
		if req.Records == nil {
			respondError(w, http.StatusBadRequest, "Missing action")
			return
		}
		recs, ok := h.decodeMany(w, req)
		if !ok {
			return
		}
		count, err := h.store.LegacySync(r.Context(), recs)
		if err != nil {
			h.fail(w, "legacy-sync", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "count": count})

	default:
		respondError(w, http.StatusBadRequest, "Unknown action: "+req.Action)
	}
}

// ensure runs the on-demand schema check; migrations inside never fail
// the request, only a broken CREATE does.
func (h *RecordHandler[T]) ensure(w http.ResponseWriter, r *http.Request) bool {
	if _, err := h.store.EnsureTable(r.Context()); err != nil {
		h.logger.Errorw("Ensure table failed", "type", h.name, "error", err)
		respondError(w, http.StatusInternalServerError, "Storage unavailable")
		return false
	}
	return true
}

func (h *RecordHandler[T]) decodeOne(w http.ResponseWriter, data json.RawMessage) (*T, bool) {
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, "Missing data")
		return nil, false
	}
	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid record payload")
		return nil, false
	}
	return &rec, true
}

// decodeMany accepts the record list either as the envelope's data
// array (bulk-create) or the legacy top-level records array.
func (h *RecordHandler[T]) decodeMany(w http.ResponseWriter, req models.ActionRequest) ([]T, bool) {
	raws := req.Records
	if raws == nil && len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &raws); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid records payload")
			return nil, false
		}
	}

	recs := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid record payload")
			return nil, false
		}
		recs = append(recs, rec)
	}
	return recs, true
}

func (h *RecordHandler[T]) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, services.ErrIDRequired) {
		respondError(w, http.StatusBadRequest, "ID required")
		return
	}
	h.logger.Errorw("Record operation failed", "type", h.name, "op", op, "error", err)
	respondError(w, http.StatusInternalServerError, "Operation failed")
}

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"success": false, "error": message})
}
