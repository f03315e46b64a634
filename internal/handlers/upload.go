package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/compress"
	"github.com/consorciovial/ssoma-server/internal/naming"
	"github.com/consorciovial/ssoma-server/internal/storage"
)

// multipart forms are parsed with a memory ceiling; larger parts spill
// to temp files.
const multipartMemory = 16 << 20

// UploadHandler drives the evidence pipeline: compress, resolve the
// naming policy, hand off to the provider chain.
type UploadHandler struct {
	chain  *storage.Chain
	logger *zap.SugaredLogger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(chain *storage.Chain, logger *zap.SugaredLogger) *UploadHandler {
	return &UploadHandler{chain: chain, logger: logger}
}

// Upload handles POST /api/v1/upload. The form carries the file plus
// either explicit folderName/fileName or the document context fields
// the naming policy resolves. The context tag decides which folder
// layout applies: pma, inspection (legacy ordering) or the generic
// objective layout.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing required field: file")
		return
	}
	defer file.Close()

	// The multipart header carries the real payload size; reject over
	// the ceiling before reading so the message reports the true size.
	if header.Size > compress.MaxUploadSize {
		sizeErr := &compress.SizeExceededError{Size: header.Size}
		respondJSON(w, http.StatusRequestEntityTooLarge, map[string]interface{}{
			"success": false,
			"message": sizeErr.Error(),
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Could not read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	// Best-effort compression; only the hard size ceiling errors out,
	// before anything touches the network.
	data, err = compress.Compress(data, mimeType)
	if err != nil {
		var sizeErr *compress.SizeExceededError
		if errors.As(err, &sizeErr) {
			respondJSON(w, http.StatusRequestEntityTooLarge, map[string]interface{}{
				"success": false,
				"message": sizeErr.Error(),
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "Compression failed")
		return
	}

	folder, name := h.resolveTarget(r, header.Filename)

	res, err := h.chain.Upload(r.Context(), folder, name, data, mimeType)
	if err != nil {
		h.logger.Errorw("Upload failed", "folder", folder, "name", name, "error", err)
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"path":    res.Path,
		"backend": res.Backend,
		"message": "Archivo subido correctamente",
	})
}

// resolveTarget prefers explicit folderName/fileName from the form and
// otherwise derives both from the document context via the naming
// policy.
func (h *UploadHandler) resolveTarget(r *http.Request, originalName string) (string, string) {
	folder := r.FormValue("folderName")
	name := r.FormValue("fileName")
	if folder != "" && name != "" {
		return folder, name
	}

	var (
		docType     = r.FormValue("documentType")
		date        = r.FormValue("date")
		responsible = r.FormValue("responsible")
		title       = r.FormValue("title")
		location    = r.FormValue("location")
		area        = r.FormValue("area")
		category    = r.FormValue("category")
	)

	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")

	if name == "" {
		name = naming.FileName(docType, date, responsible, ext, title, location, area)
	}
	if folder == "" {
		switch r.FormValue("context") {
		case "pma":
			folder = naming.PmaFolder(category, date, location)
		case "inspection":
			folder = naming.LegacyFolder(area, date, docType, location)
		default:
			folder = naming.ObjectiveFolder(area, date, docType, location)
		}
	}
	return folder, name
}
