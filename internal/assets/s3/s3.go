package s3

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dont21900-lgtm/editing-store/internal/assets"
)

// Key prefixes by asset kind. Raw assets sit under a private prefix that the
// public CDN never serves.
const (
	prefixVideo = "previews"
	prefixImage = "thumbnails"
	prefixRaw   = "secure_assets"
)

// Config holds S3-compatible storage configuration. Works with AWS S3,
// MinIO, DigitalOcean Spaces, and Cloudflare R2.
type Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string // leave empty for real AWS
	BaseURL  string // public URL prefix; derived from bucket+region if empty
}

// Storage implements assets.Storage against an S3-compatible object store.
type Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// New creates an S3-backed asset storage.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("assets/s3: bucket is not configured")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}

	// Static credentials (required for MinIO / R2 / Spaces).
	if cfg.Key != "" && cfg.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("assets/s3: load config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Storage{
		client:  s3.NewFromConfig(awsCfg, clientOpts...),
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// Upload stores the asset under a kind-specific prefix with a generated key.
func (s *Storage) Upload(ctx context.Context, input *assets.UploadInput) (*assets.UploadResult, error) {
	key, err := buildKey(input.Kind, input.Filename)
	if err != nil {
		return nil, err
	}

	putInput := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   input.Data,
	}
	if input.ContentType != "" {
		putInput.ContentType = aws.String(input.ContentType)
	}
	if input.Size > 0 {
		putInput.ContentLength = aws.Int64(input.Size)
	}

	if _, err := s.client.PutObject(ctx, putInput); err != nil {
		return nil, fmt.Errorf("assets/s3: put %s: %w", key, err)
	}

	return &assets.UploadResult{
		Key: key,
		URL: s.baseURL + "/" + key,
	}, nil
}

// Delete removes an asset by its key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("assets/s3: delete %s: %w", key, err)
	}
	return nil
}

// buildKey generates a collision-free object key preserving the original
// file extension.
func buildKey(kind assets.AssetKind, filename string) (string, error) {
	var prefix string
	switch kind {
	case assets.KindVideo:
		prefix = prefixVideo
	case assets.KindImage:
		prefix = prefixImage
	case assets.KindRaw:
		prefix = prefixRaw
	default:
		return "", fmt.Errorf("assets/s3: unknown asset kind %q", kind)
	}

	return prefix + "/" + uuid.New().String() + path.Ext(filename), nil
}
