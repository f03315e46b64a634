package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/models"
	"github.com/consorciovial/ssoma-server/internal/services"
)

// stubStore records what the handler hands it, mimicking the real
// services' append-only legacy sync (records carrying an id are skipped).
type stubStore struct {
	created    []models.Activity
	synced     []models.Activity
	updatedID  string
	deletedID  string
	listResult []models.Activity
}

func (s *stubStore) EnsureTable(ctx context.Context) ([]services.MigrationOutcome, error) {
	return nil, nil
}

func (s *stubStore) List(ctx context.Context) ([]models.Activity, error) {
	return s.listResult, nil
}

func (s *stubStore) Create(ctx context.Context, rec *models.Activity) (string, error) {
	s.created = append(s.created, *rec)
	return "generated-id", nil
}

func (s *stubStore) Update(ctx context.Context, id string, rec *models.Activity) error {
	s.updatedID = id
	return nil
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return services.ErrIDRequired
	}
	s.deletedID = id
	return nil
}

func (s *stubStore) BulkCreate(ctx context.Context, recs []models.Activity) (int, error) {
	s.created = append(s.created, recs...)
	return len(recs), nil
}

func (s *stubStore) LegacySync(ctx context.Context, recs []models.Activity) (int, error) {
	count := 0
	for _, rec := range recs {
		if rec.ID != "" {
			continue
		}
		s.synced = append(s.synced, rec)
		count++
	}
	return count, nil
}

func newTestHandler(store *stubStore) *RecordHandler[models.Activity] {
	return NewRecordHandler[models.Activity]("activities", store, zap.NewNop().Sugar())
}

func post(t *testing.T, h *RecordHandler[models.Activity], body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/activities", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	return out
}

func TestCreateAction(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	w := post(t, h, `{"action":"create","data":{"title":"Charla diaria","date":"2026-03-02"}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("Expected success true, got %v", body["success"])
	}
	if body["id"] != "generated-id" {
		t.Errorf("Expected generated id in response, got %v", body["id"])
	}
	if len(store.created) != 1 || store.created[0].Title != "Charla diaria" {
		t.Errorf("Store did not receive the decoded record: %+v", store.created)
	}
}

func TestBulkCreateReportsCount(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	w := post(t, h, `{"action":"bulk-create","records":[
		{"title":"a","date":"2026-01-05"},
		{"title":"b","date":"2026-01-06"},
		{"title":"c","date":"2026-01-07"}
	]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["count"] != float64(3) {
		t.Errorf("Expected count 3, got %v", body["count"])
	}
	if len(store.created) != 3 {
		t.Errorf("Expected 3 records stored, got %d", len(store.created))
	}
}

func TestLegacySyncIsAppendOnly(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	// No action at all: the old raw-array contract. One record already
	// has an id, so only the new one may be inserted.
	w := post(t, h, `{"records":[
		{"id":"existing-1","title":"old"},
		{"title":"new","date":"2026-02-10"}
	]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["count"] != float64(1) {
		t.Errorf("Expected count 1, got %v", body["count"])
	}
	if len(store.synced) != 1 || store.synced[0].Title != "new" {
		t.Errorf("Expected only the id-less record inserted, got %+v", store.synced)
	}
}

func TestUpdateRequiresID(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	w := post(t, h, `{"action":"update","data":{"title":"x"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["success"] != false {
		t.Errorf("Expected success false, got %v", body["success"])
	}
}

func TestUnknownActionRejected(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	w := post(t, h, `{"action":"truncate"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestMissingActionWithoutRecordsRejected(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(store)

	w := post(t, h, `{"data":{"title":"x"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestListWrapsRecords(t *testing.T) {
	store := &stubStore{listResult: []models.Activity{{ID: "1", Title: "Simulacro"}}}
	h := newTestHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/activities", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	records, ok := body["records"].([]interface{})
	if !ok || len(records) != 1 {
		t.Fatalf("Expected one record in response, got %v", body["records"])
	}
}
