package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/config"
)

// bridgeProvider POSTs the payload to an Apps Script endpoint that
// writes into Drive with its own credentials. Only used after a native
// Drive upload has failed.
type bridgeProvider struct {
	url      string
	folderID string
	client   *http.Client
	logger   *zap.SugaredLogger
}

func newBridgeProvider(cfg *config.Config, logger *zap.SugaredLogger) *bridgeProvider {
	return &bridgeProvider{
		url:      cfg.DriveBridgeURL,
		folderID: cfg.DriveRootFolderID,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

type bridgeRequest struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FolderID string `json:"folderId"`
	Folder   string `json:"folder"`
	Data     string `json:"data"` // base64
}

type bridgeResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

// Upload re-encodes the file as base64 and relays it through the
// script. The script answers JSON; an HTML body (login page, quota
// error page) is a hard failure with a diagnostic message.
func (p *bridgeProvider) Upload(ctx context.Context, folder, name string, data []byte, mimeType string) (Result, error) {
	payload, err := json.Marshal(bridgeRequest{
		FileName: name,
		MimeType: mimeType,
		FolderID: p.folderID,
		Folder:   folder,
		Data:     base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode bridge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("bridge request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read bridge response: %w", err)
	}

	var br bridgeResponse
	if err := json.Unmarshal(body, &br); err != nil {
		snippet := string(body)
		if len(snippet) > 120 {
			snippet = snippet[:120]
		}
		return Result{}, fmt.Errorf("bridge returned non-JSON response (status %d): %s", resp.StatusCode, snippet)
	}

	if !br.Success {
		return Result{}, fmt.Errorf("bridge rejected upload: %s", br.Error)
	}

	p.logger.Infow("Bridge upload stored", "name", name, "url", br.URL)
	return Result{Path: br.URL, Backend: "drive-bridge"}, nil
}
