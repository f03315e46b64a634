package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// localProvider writes payloads under a disk root, mirroring the naming
// policy's folder tree. Default backend when no cloud credentials exist.
type localProvider struct {
	root string
}

func newLocalProvider(root string) *localProvider {
	return &localProvider{root: root}
}

// Upload ensures the target directory exists and writes the payload
// under a collision-resistant name (short uuid prefix + resolved file
// name). Returns a root-relative path with forward slashes so persisted
// references stay portable.
func (p *localProvider) Upload(_ context.Context, folder, name string, data []byte, _ string) (Result, error) {
	dir := filepath.Join(p.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil && !os.IsExist(err) {
		return Result{}, fmt.Errorf("create upload dir: %w", err)
	}

	fileName := uuid.NewString()[:8] + "_" + name
	if err := os.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
		return Result{}, fmt.Errorf("write file: %w", err)
	}

	rel := filepath.ToSlash(filepath.Join(folder, fileName))
	return Result{Path: "/" + filepath.ToSlash(filepath.Join(p.root, rel)), Backend: "local"}, nil
}
