package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"userAccounts/internal/config"
)

type MinIOClient struct {
	client *minio.Client
	config config.MinIO
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	m := &MinIOClient{client: client, config: cfg}
	if err := m.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.config.BucketName, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{Region: m.config.Region})
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", m.config.BucketName, err)
	}

	// stored avatar and cover URLs are plain links, so objects must be readable anonymously
	if err := m.client.SetBucketPolicy(ctx, m.config.BucketName, publicReadPolicy(m.config.BucketName)); err != nil {
		return fmt.Errorf("set policy on bucket %s: %w", m.config.BucketName, err)
	}

	return nil
}

// publicReadPolicy allows anonymous GetObject on everything under users/.
func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/users/*"]}]}`, bucket)
}

func (m *MinIOClient) UploadFile(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", fmt.Errorf("upload to minio: empty file path")
	}

	now := time.Now()
	object := objectName(localPath, now)

	_, err := m.client.FPutObject(ctx, m.config.BucketName, object, localPath,
		minio.PutObjectOptions{
			ContentType: detectContentType(localPath),
			UserMetadata: map[string]string{
				"original-filename": filepath.Base(localPath),
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("upload to minio: %w", err)
	}

	return publicURL(m.config.PublicURL, m.config.BucketName, object), nil
}
