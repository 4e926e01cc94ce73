// Package media uploads project attachments to an S3-compatible hosted
// media store and returns the public URL of each object.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/portapro/portapro-api/internal/config"
)

// Store wraps an S3 client for a single bucket.
type Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewStore builds a Store from media configuration. Static credentials and
// a custom endpoint let any S3-compatible host (MinIO, R2, etc.) serve as
// the media backend.
func NewStore(ctx context.Context, cfg config.MediaConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("load media store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &Store{client: client, bucket: cfg.Bucket, publicBaseURL: strings.TrimSuffix(base, "/")}, nil
}

// ObjectKey returns a collision-free storage key for an uploaded file,
// partitioned by project and keeping the original extension.
func ObjectKey(projectUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("projects/%s/%d-%s%s", projectUID, time.Now().UTC().Year(), uuid.New(), ext)
}

// Upload stores one object and returns its public URL.
func (s *Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}
