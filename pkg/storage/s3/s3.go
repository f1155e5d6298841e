// Package s3 implements the S3-compatible media backend.
// It supports AWS S3, MinIO and other S3-compatible services.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// URLModePresigned records presigned URLs for direct access
	URLModePresigned = "presigned"
	// URLModeProxy records relative canonical paths served by the bridge
	URLModeProxy = "proxy"

	// DefaultPresignExpiry is the default expiry time for presigned URLs
	DefaultPresignExpiry = 7 * 24 * time.Hour
)

// Config holds S3 backend configuration.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool // Use path-style URLs (required for MinIO)
	URLMode   string
}

// Storage stores catalog media in an S3-compatible bucket, keyed by
// "{category}/{filename}".
type Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	urlMode       string
}

// New creates a new S3 media backend.
func New(cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("access key and secret key are required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.URLMode == "" {
		cfg.URLMode = URLModeProxy
	}

	var optFns []func(*config.LoadOptions) error
	optFns = append(optFns, config.WithRegion(cfg.Region))
	optFns = append(optFns, config.WithCredentialsProvider(
		credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	))

	awsCfg, err := config.LoadDefaultConfig(context.Background(), optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var s3OptFns []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.PathStyle {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3OptFns...)
	presignClient := s3.NewPresignClient(client)

	return &Storage{
		client:        client,
		presignClient: presignClient,
		bucket:        cfg.Bucket,
		urlMode:       cfg.URLMode,
	}, nil
}

// PutObject uploads media bytes to the bucket.
func (s *Storage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	}

	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	return nil
}

// GetObject retrieves media bytes from the bucket.
func (s *Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}

	return output.Body, nil
}

// DeleteObject removes media from the bucket.
func (s *Storage) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}

// ObjectExists checks if media is stored under key.
func (s *Storage) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, fmt.Errorf("head object: %w", err)
	}

	return true, nil
}

// StoredURL returns the reference recorded for the asset: a relative
// canonical path in proxy mode, a presigned URL otherwise.
func (s *Storage) StoredURL(ctx context.Context, key string) (string, error) {
	if s.urlMode == URLModeProxy {
		return "uploads/" + key, nil
	}

	presignResult, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = DefaultPresignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("presign url: %w", err)
	}

	return presignResult.URL, nil
}

// Type returns "s3" as the backend identifier.
func (s *Storage) Type() string {
	return "s3"
}
