package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/andckadir/AnimalMarketplace/internal/imaging"
	appconfig "github.com/andckadir/AnimalMarketplace/pkg/config"
	"github.com/andckadir/AnimalMarketplace/prometheus"
)

// S3ImageStore stores advert images in an S3-compatible bucket. It
// implements imaging.ImageStore; the object key doubles as the storage id
// used for deletion.
type S3ImageStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      *appconfig.S3Config
	baseURL  string
}

// NewS3ImageStore builds an S3 client against the configured endpoint.
func NewS3ImageStore(ctx context.Context, cfg *appconfig.S3Config) (*S3ImageStore, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 credentials and bucket must be configured")
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true
	})

	return &S3ImageStore{
		client:   client,
		uploader: manager.NewUploader(client),
		cfg:      cfg,
		baseURL:  fmt.Sprintf("%s/%s", endpointURL, cfg.Bucket),
	}, nil
}

// Upload stores a single image under a fresh object key and returns its
// public URL and storage id. The transformation policy (max dimensions,
// quality) travels as object metadata for the storage side to apply.
func (s *S3ImageStore) Upload(ctx context.Context, filename string, content io.Reader, contentType string) (imaging.StoredImage, error) {
	defer prometheus.TrackImageStoreOperation("upload")(time.Now())

	objectKey := fmt.Sprintf("%s/%s%s", s.cfg.Folder, uuid.New().String(), filepath.Ext(filename))

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(objectKey),
		Body:        content,
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"max-width":  strconv.Itoa(s.cfg.MaxWidth),
			"max-height": strconv.Itoa(s.cfg.MaxHeight),
			"quality":    s.cfg.Quality,
		},
	})
	if err != nil {
		return imaging.StoredImage{}, fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	return imaging.StoredImage{
		URL:       fmt.Sprintf("%s/%s", s.baseURL, objectKey),
		StorageID: objectKey,
	}, nil
}

// Delete removes a stored object.
func (s *S3ImageStore) Delete(ctx context.Context, storageID string) error {
	defer prometheus.TrackImageStoreOperation("delete")(time.Now())

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(storageID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", storageID, err)
	}
	return nil
}
