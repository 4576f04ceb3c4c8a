// Package storage keeps best-effort copies of fetched document content in
// object storage, so problem documents can be re-examined without another
// repository round-trip. Optional: when MinIO is not configured the
// pipeline runs without archiving.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

// Archive wraps the MinIO client and target bucket.
type Archive struct {
	client *minio.Client
	bucket string
}

// NewArchive connects to MinIO and verifies the bucket exists. Returns
// (nil, nil) when archiving is disabled in config.
func NewArchive(cfg models.ArchiveConfig) (*Archive, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	return &Archive{client: client, bucket: cfg.Bucket}, nil
}

// StoreDocument uploads one fetched document under
// {cabinet}/YYYY/MM/{documentID}{ext} and returns the object path.
func (a *Archive) StoreDocument(ctx context.Context, cabinetID, documentID string, content []byte, contentType string) (string, error) {
	now := time.Now()
	objectName := fmt.Sprintf("%s/%d/%02d/%s%s",
		cabinetID,
		now.Year(),
		now.Month(),
		documentID,
		extensionFor(contentType),
	)

	_, err := a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to archive document: %w", err)
	}
	return fmt.Sprintf("%s/%s", a.bucket, objectName), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/tiff":
		return ".tif"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
