package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/compress"
	"github.com/consorciovial/ssoma-server/internal/config"
	"github.com/consorciovial/ssoma-server/internal/storage"
)

func multipartUpload(t *testing.T, fields map[string]string, fileName string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadToLocalBackend(t *testing.T) {
	cfg := config.Config{UploadDir: t.TempDir()}
	h := NewUploadHandler(storage.NewChain(&cfg, zap.NewNop().Sugar()), zap.NewNop().Sugar())

	req := multipartUpload(t, map[string]string{
		"folderName": "SEGURIDAD/FEBRERO/INSPECCIONES",
		"fileName":   "Seg.INSP_test_2026-02-16_JLC.jpg",
	}, "original.jpg", []byte("payload"))
	w := httptest.NewRecorder()
	h.Upload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Path    string `json:"path"`
		Backend string `json:"backend"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Backend != "local" {
		t.Errorf("resp = %+v, want local backend success", resp)
	}
	if !strings.Contains(resp.Path, "Seg.INSP_test_2026-02-16_JLC.jpg") {
		t.Errorf("path = %q, want the requested file name", resp.Path)
	}
}

// TestUploadCeilingReportsActualSize: a payload over the hard ceiling is
// rejected with the payload's real size in the message, not a figure
// clamped at the limit.
func TestUploadCeilingReportsActualSize(t *testing.T) {
	cfg := config.Config{UploadDir: t.TempDir()}
	h := NewUploadHandler(storage.NewChain(&cfg, zap.NewNop().Sugar()), zap.NewNop().Sugar())

	payload := make([]byte, compress.MaxUploadSize+5*1024*1024) // 55 MB
	req := multipartUpload(t, nil, "huge.bin", payload)
	w := httptest.NewRecorder()
	h.Upload(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("success = true on rejected upload")
	}
	if !strings.Contains(resp.Message, "55.0 MB") {
		t.Errorf("message = %q, want the actual 55.0 MB size", resp.Message)
	}
}

func TestUploadMissingFile(t *testing.T) {
	cfg := config.Config{UploadDir: t.TempDir()}
	h := NewUploadHandler(storage.NewChain(&cfg, zap.NewNop().Sugar()), zap.NewNop().Sugar())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("folderName", "X"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Upload(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
