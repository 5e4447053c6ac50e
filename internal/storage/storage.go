package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"userAccounts/internal/config"
)

// Storage hosts a local file and returns its public URL.
type Storage interface {
	UploadFile(ctx context.Context, localPath string) (string, error)
}

func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.MediaBackend {
	case "", "minio":
		return NewMinIOClient(ctx, cfg.MinIO)
	case "s3":
		return NewS3Client(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

// objectName lays uploads out as users/<year>/<month>/<uuid><ext>.
func objectName(localPath string, now time.Time) string {
	fileExt := strings.ToLower(filepath.Ext(localPath))

	return fmt.Sprintf("users/%d/%02d/%s%s",
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)
}

func detectContentType(localPath string) string {
	mtype, err := mimetype.DetectFile(localPath)
	if err != nil {
		return "application/octet-stream"
	}
	return mtype.String()
}

func publicURL(base, bucket, object string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), bucket, object)
}
