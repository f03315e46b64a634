// Package storage implements the evidence upload pipeline: an ordered
// set of storage backends (Google Drive, S3-compatible object storage,
// local disk) with a pure selection function that maps configuration
// state to exactly one backend per upload. Once a backend is selected a
// failure surfaces as an error; there is no retry against a different
// backend. The single exception is the Drive bridge, which is only
// reachable from inside a failed native Drive upload.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/config"
)

// Backend identifies one storage implementation.
type Backend int

const (
	BackendDrive Backend = iota
	BackendBlob
	BackendLocal
)

func (b Backend) String() string {
	switch b {
	case BackendDrive:
		return "drive"
	case BackendBlob:
		return "blob"
	default:
		return "local"
	}
}

// Result is what an upload returns to the caller, who persists the
// path/URL into the owning record. Inline reports that the payload
// itself was embedded as a data URI because no disk was reachable.
type Result struct {
	Path    string `json:"path"`
	Backend string `json:"backend"`
	Inline  bool   `json:"inline,omitempty"`
}

// Provider stores one payload under a folder/name pair resolved by the
// naming policy and returns a public URL or path.
type Provider interface {
	Upload(ctx context.Context, folder, name string, data []byte, mimeType string) (Result, error)
}

// Select maps configuration state to exactly one backend. It is pure so
// the chain is testable without credentials: Drive wins when a service
// account is configured, then object storage when a token is set, then
// local disk. Called per upload, never cached — provider choice may
// legitimately change mid-process when configuration changes.
func Select(cfg *config.Config) Backend {
	if cfg.HasDriveCredentials() {
		return BackendDrive
	}
	if cfg.BlobToken != "" {
		return BackendBlob
	}
	return BackendLocal
}

// Chain resolves a backend per call and delegates the upload to it.
type Chain struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// NewChain creates the provider chain.
func NewChain(cfg *config.Config, logger *zap.SugaredLogger) *Chain {
	return &Chain{cfg: cfg, logger: logger}
}

// Upload picks a backend from current configuration and stores the
// payload. The local backend degrades to an inline data URI when the
// upload root is unwritable; cloud backends never fall through.
func (c *Chain) Upload(ctx context.Context, folder, name string, data []byte, mimeType string) (Result, error) {
	backend := Select(c.cfg)
	c.logger.Infow("Evidence upload",
		"backend", backend.String(),
		"folder", folder,
		"name", name,
		"bytes", len(data),
	)

	switch backend {
	case BackendDrive:
		drive, err := newDriveProvider(ctx, c.cfg, c.logger)
		if err != nil {
			return Result{}, fmt.Errorf("drive init: %w", err)
		}
		res, err := drive.Upload(ctx, folder, name, data, mimeType)
		if err == nil {
			return res, nil
		}
		// Native upload failed after Drive was selected: try the Apps
		// Script bridge before surfacing the error.
		c.logger.Warnw("Native Drive upload failed, trying bridge", "error", err)
		bridge := newBridgeProvider(c.cfg, c.logger)
		return bridge.Upload(ctx, folder, name, data, mimeType)

	case BackendBlob:
		blob, err := newBlobProvider(c.cfg)
		if err != nil {
			return Result{}, fmt.Errorf("blob init: %w", err)
		}
		return blob.Upload(ctx, folder, name, data, mimeType)

	default:
		local := newLocalProvider(c.cfg.UploadDir)
		res, err := local.Upload(ctx, folder, name, data, mimeType)
		if err == nil {
			return res, nil
		}
		c.logger.Warnw("Local disk unreachable, storing inline", "error", err)
		return inlineResult(data, mimeType), nil
	}
}

// inlineResult encodes the payload as a base64 data URI. Callers end up
// persisting the payload itself instead of a reference; last resort only.
func inlineResult(data []byte, mimeType string) Result {
	uri := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	return Result{Path: uri, Backend: "inline", Inline: true}
}
