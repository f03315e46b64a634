package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/consorciovial/ssoma-server/internal/config"
)

const folderMimeType = "application/vnd.google-apps.folder"

// driveProvider uploads through the Drive API with a service account.
type driveProvider struct {
	svc    *drive.Service
	rootID string
	logger *zap.SugaredLogger
}

func newDriveProvider(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*driveProvider, error) {
	credsJSON, err := cfg.DriveCredentialsJSON()
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(credsJSON, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &driveProvider{svc: svc, rootID: cfg.DriveRootFolderID, logger: logger}, nil
}

// Upload resolves the folder hierarchy, uploads the payload into the
// leaf folder and tries to grant public read access. A failed
// permission grant is logged, not fatal — the file is still reachable
// for authenticated viewers.
func (p *driveProvider) Upload(ctx context.Context, folder, name string, data []byte, mimeType string) (Result, error) {
	parentID, err := p.resolveFolder(ctx, folder)
	if err != nil {
		return Result{}, fmt.Errorf("resolve folder %q: %w", folder, err)
	}

	meta := &drive.File{Name: name}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	file, err := p.svc.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return Result{}, fmt.Errorf("drive upload: %w", err)
	}

	_, err = p.svc.Permissions.Create(file.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		p.logger.Warnw("Could not make Drive file public", "fileId", file.Id, "error", err)
	}

	url := fmt.Sprintf("https://drive.google.com/uc?export=view&id=%s", file.Id)
	return Result{Path: url, Backend: "drive"}, nil
}

// resolveFolder walks the slash-delimited path, looking up or creating
// each segment under its parent. Lookup-or-create is not atomic: two
// concurrent uploads into a brand-new folder name can race and create
// duplicates. Accepted limitation inherited from the dashboard.
func (p *driveProvider) resolveFolder(ctx context.Context, folder string) (string, error) {
	parent := p.rootID
	for _, segment := range strings.Split(folder, "/") {
		if segment == "" {
			continue
		}
		id, err := p.lookupOrCreate(ctx, segment, parent)
		if err != nil {
			return "", err
		}
		parent = id
	}
	return parent, nil
}

func (p *driveProvider) lookupOrCreate(ctx context.Context, name, parentID string) (string, error) {
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false",
		escapeQuery(name), folderMimeType)
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", parentID)
	}

	list, err := p.svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("folder lookup: %w", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	meta := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	created, err := p.svc.Files.Create(meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("folder create: %w", err)
	}
	return created.Id, nil
}

// escapeQuery escapes single quotes and backslashes for Drive query strings.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
