package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"userAccounts/internal/config"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Client struct {
	client s3API
	config config.S3
}

// loadDefaultAWSConfig is a seam for tests.
var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

func NewS3Client(ctx context.Context, cfg config.S3) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{client: client, config: cfg}, nil
}

func (c *S3Client) UploadFile(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", fmt.Errorf("upload to s3: empty file path")
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	defer file.Close()

	key := objectName(localPath, time.Now())

	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(detectContentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	return publicURL(c.publicBase(), c.config.Bucket, key), nil
}

func (c *S3Client) publicBase() string {
	if c.config.PublicURL != "" {
		return c.config.PublicURL
	}
	if c.config.BaseEndpoint != "" {
		return c.config.BaseEndpoint
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com", c.config.Region)
}
