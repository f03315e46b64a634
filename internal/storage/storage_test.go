package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/config"
)

// TestSelect checks the backend ordering: Drive credentials beat the
// blob token, the blob token beats local disk.
func TestSelect(t *testing.T) {
	credsFile := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(credsFile, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		cfg  config.Config
		want Backend
	}{
		{"nothing configured", config.Config{}, BackendLocal},
		{"blob token only", config.Config{BlobToken: "tok"}, BackendBlob},
		{"inline creds beat blob", config.Config{GoogleCredentials: "{}", BlobToken: "tok"}, BackendDrive},
		{"creds file beats blob", config.Config{GoogleCredentialsFile: credsFile, BlobToken: "tok"}, BackendDrive},
		{"missing creds file ignored", config.Config{GoogleCredentialsFile: filepath.Join(t.TempDir(), "nope.json")}, BackendLocal},
	}

	for _, tc := range cases {
		if got := Select(&tc.cfg); got != tc.want {
			t.Errorf("%s: Select = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestSelectReadsStateAtCallTime: dropping a credentials file next to a
// running server flips the selection without a restart.
func TestSelectReadsStateAtCallTime(t *testing.T) {
	credsFile := filepath.Join(t.TempDir(), "credentials.json")
	cfg := config.Config{GoogleCredentialsFile: credsFile}

	if got := Select(&cfg); got != BackendLocal {
		t.Fatalf("before file exists: Select = %v, want local", got)
	}
	if err := os.WriteFile(credsFile, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := Select(&cfg); got != BackendDrive {
		t.Errorf("after file exists: Select = %v, want drive", got)
	}
}

func TestLocalUpload(t *testing.T) {
	root := t.TempDir()
	p := newLocalProvider(root)

	res, err := p.Upload(context.Background(), "SEGURIDAD/FEBRERO/INSPECCIONES/PEAJE_HAWUAY", "Seg.INSP_test.jpg", []byte("payload"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Backend != "local" {
		t.Errorf("backend = %q, want local", res.Backend)
	}
	if !strings.HasPrefix(res.Path, "/") {
		t.Errorf("path %q is not root-relative", res.Path)
	}
	if !strings.HasSuffix(res.Path, "_Seg.INSP_test.jpg") {
		t.Errorf("path %q does not keep the resolved name", res.Path)
	}

	// The folder tree on disk mirrors the naming policy output.
	onDisk := filepath.Join(root, "SEGURIDAD", "FEBRERO", "INSPECCIONES", "PEAJE_HAWUAY")
	entries, err := os.ReadDir(onDisk)
	if err != nil {
		t.Fatalf("reading mirror dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(onDisk, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("stored bytes = %q", data)
	}
}

// TestLocalCollisionResistance: two uploads of the same logical file do
// not overwrite each other.
func TestLocalCollisionResistance(t *testing.T) {
	p := newLocalProvider(t.TempDir())
	a, err := p.Upload(context.Background(), "A", "same.jpg", []byte("1"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Upload(context.Background(), "A", "same.jpg", []byte("2"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if a.Path == b.Path {
		t.Errorf("same path for two uploads: %q", a.Path)
	}
}

func TestBridgeUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"url":"https://drive.google.com/uc?export=view&id=abc123"}`))
	}))
	defer srv.Close()

	p := newBridgeProvider(&config.Config{DriveBridgeURL: srv.URL}, zap.NewNop().Sugar())
	res, err := p.Upload(context.Background(), "SEGURIDAD/FEBRERO", "f.jpg", []byte("payload"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Backend != "drive-bridge" {
		t.Errorf("backend = %q, want drive-bridge", res.Backend)
	}
	if !strings.Contains(res.Path, "id=abc123") {
		t.Errorf("path = %q, want the bridge URL", res.Path)
	}
}

// TestBridgeNonJSONResponse: an HTML body (login page, quota error page)
// is a hard failure with a diagnostic snippet, never parsed as success.
func TestBridgeNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Sign in to continue</body></html>"))
	}))
	defer srv.Close()

	p := newBridgeProvider(&config.Config{DriveBridgeURL: srv.URL}, zap.NewNop().Sugar())
	_, err := p.Upload(context.Background(), "X", "f.jpg", []byte("payload"), "image/jpeg")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	if !strings.Contains(err.Error(), "non-JSON") {
		t.Errorf("error = %q, want non-JSON diagnostic", err)
	}
	if !strings.Contains(err.Error(), "Sign in") {
		t.Errorf("error = %q, want a body snippet for diagnosis", err)
	}
}

func TestBridgeRejectedUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error":"quota exceeded"}`))
	}))
	defer srv.Close()

	p := newBridgeProvider(&config.Config{DriveBridgeURL: srv.URL}, zap.NewNop().Sugar())
	_, err := p.Upload(context.Background(), "X", "f.jpg", []byte("payload"), "image/jpeg")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error = %v, want the bridge rejection reason", err)
	}
}

// TestInlineFallback: an unwritable root degrades to a data URI instead
// of failing the upload.
func TestInlineFallback(t *testing.T) {
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, []byte("a regular file, not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{UploadDir: blocked}
	chain := NewChain(&cfg, zap.NewNop().Sugar())

	res, err := chain.Upload(context.Background(), "X", "f.txt", []byte("hello"), "text/plain")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !res.Inline || res.Backend != "inline" {
		t.Fatalf("result = %+v, want inline fallback", res)
	}
	if !strings.HasPrefix(res.Path, "data:text/plain;base64,") {
		t.Errorf("path %q is not a data URI", res.Path)
	}
}
