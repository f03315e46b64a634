package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/consorciovial/ssoma-server/internal/config"
)

// blobProvider stores payloads in an S3-compatible object store with
// public-read objects, one PUT per upload.
type blobProvider struct {
	client *minio.Client
	bucket string
}

func newBlobProvider(cfg *config.Config) (*blobProvider, error) {
	cli, err := minio.New(cfg.BlobEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.BlobAccessKey, cfg.BlobSecretKey, cfg.BlobToken),
		Secure: cfg.BlobUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &blobProvider{client: cli, bucket: cfg.BlobBucket}, nil
}

func (p *blobProvider) Upload(ctx context.Context, folder, name string, data []byte, mimeType string) (Result, error) {
	key := path.Join(folder, name)

	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  mimeType,
			UserMetadata: map[string]string{"x-amz-acl": "public-read"},
		})
	if err != nil {
		return Result{}, fmt.Errorf("blob put: %w", err)
	}

	scheme := "https"
	if !p.client.EndpointURL().IsAbs() || p.client.EndpointURL().Scheme == "http" {
		scheme = "http"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, p.client.EndpointURL().Host, p.bucket, key)
	return Result{Path: url, Backend: "blob"}, nil
}
