// Package s3 provides an S3-compatible store for omnitable.
//
// This store works with:
//   - AWS S3
//   - Cloudflare R2
//   - MinIO
//   - Any S3-compatible object storage
//
// Basic usage:
//
//	store, err := s3.New(s3.Config{
//	    Region: "us-east-1",
//	})
//
// For S3-compatible services:
//
//	store, err := s3.New(s3.Config{
//	    Endpoint:     "https://play.min.io",
//	    UsePathStyle: true,
//	})
//
// One Store wraps one S3 client and is shared by all loader workers.
package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/grokify/omnitable"
)

func init() {
	omnitable.Register("s3", NewFromConfig)
}

// Store implements omnitable.Store for S3-compatible storage.
type Store struct {
	lister     s3.ListObjectsV2APIClient
	downloader *manager.Downloader
	config     Config
	closed     bool
	mu         sync.RWMutex
}

// New creates a new S3 store with the given configuration.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Build AWS config options
	var optFns []func(*config.LoadOptions) error

	if cfg.Region != "" {
		optFns = append(optFns, config.WithRegion(cfg.Region))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			cfg.SessionToken,
		)
		optFns = append(optFns, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), optFns...)
	if err != nil {
		return nil, fmt.Errorf("s3: loading AWS config: %w", err)
	}

	// Build S3 client options
	var s3OptFns []func(*s3.Options)

	if cfg.Endpoint != "" {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	if cfg.UsePathStyle {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, s3OptFns...), cfg), nil
}

// NewWithClient creates a store around an existing S3 client.
func NewWithClient(client *s3.Client, cfg Config) *Store {
	return newStore(client, client, cfg)
}

// NewFromConfig creates a new S3 store from a config map.
// This is used by the omnitable registry.
func NewFromConfig(configMap map[string]string) (omnitable.Store, error) {
	return New(ConfigFromMap(configMap))
}

func newStore(lister s3.ListObjectsV2APIClient, getter manager.DownloadAPIClient, cfg Config) *Store {
	if cfg.PartSize == 0 {
		cfg.PartSize = 5 * 1024 * 1024 // 5MB
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 5
	}

	downloader := manager.NewDownloader(getter, func(d *manager.Downloader) {
		d.PartSize = cfg.PartSize
		d.Concurrency = cfg.Concurrency
	})

	return &Store{
		lister:     lister,
		downloader: downloader,
		config:     cfg,
	}
}

// List lists every object under prefix in bucket, following continuation
// tokens until the listing is complete.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]omnitable.ObjectInfo, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if bucket == "" {
		return nil, omnitable.ErrInvalidKey
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	if s.config.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(s.config.MaxKeys)
	}

	objects := []omnitable.ObjectInfo{}
	paginator := s3.NewListObjectsV2Paginator(s.lister, input)

	for paginator.HasMorePages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.translateError(err, bucket, prefix)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
				// Directory markers
				continue
			}
			objects = append(objects, omnitable.ObjectInfo{
				Key:     *obj.Key,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
				ETag:    strings.Trim(aws.ToString(obj.ETag), "\""),
			})
		}
	}

	return objects, nil
}

// Fetch downloads the whole object into memory.
// Large objects are fetched as parallel ranged GETs.
func (s *Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if bucket == "" || key == "" {
		return nil, omnitable.ErrInvalidKey
	}

	buf := manager.NewWriteAtBuffer([]byte{})
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.translateError(err, bucket, key)
	}

	return buf.Bytes(), nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// checkClosed returns an error if the store is closed.
func (s *Store) checkClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return omnitable.ErrStoreClosed
	}
	return nil
}

// translateError converts S3 errors to omnitable errors.
func (s *Store) translateError(err error, bucket, key string) error {
	if err == nil {
		return nil
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: s3://%s/%s", omnitable.ErrNotFound, bucket, key)
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: s3://%s/%s", omnitable.ErrNotFound, bucket, key)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: bucket %s", omnitable.ErrNotFound, bucket)
	}

	// Check error code
	var apiErr interface{ ErrorCode() string }
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return fmt.Errorf("%w: s3://%s/%s", omnitable.ErrNotFound, bucket, key)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: s3://%s/%s", omnitable.ErrPermissionDenied, bucket, key)
		}
	}

	return fmt.Errorf("s3: %w", err)
}

// Ensure Store implements omnitable.Store
var _ omnitable.Store = (*Store)(nil)
