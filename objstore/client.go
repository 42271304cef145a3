// Package objstore provides client initialization and configuration.
package objstore

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/meridian-data/lakestage/objstore/errors"
	"github.com/meridian-data/lakestage/objstore/internal/s3api"
	"github.com/meridian-data/lakestage/objstore/internal/validation"
	"github.com/meridian-data/lakestage/objstore/objtypes"
)

// Client provides access to one bucket of an S3-compatible object store.
// It is safe for concurrent use; operations on different keys are fully
// independent.
type Client struct {
	// api is the underlying SDK client behind a mockable interface
	api s3api.S3API

	// presigner generates time-limited URLs
	presigner s3api.PresignAPI

	// bucket all operations are scoped to
	bucket string

	// cfg holds the resolved client configuration
	cfg objtypes.ClientConfig
}

// New creates a new storage client with the provided options.
// Credentials are resolved through the default AWS credential chain, or
// through a shared profile when one is configured. A bucket is required.
//
// Example:
//
//	store, err := objstore.New(ctx,
//	    objstore.WithBucket("curated-data"),
//	    objstore.WithEndpoint("http://localhost:9000"),
//	    objstore.WithForcePathStyle(true),
//	)
func New(ctx context.Context, opts ...objtypes.Option) (*Client, error) {
	cfg := objtypes.ClientConfig{
		MaxRetries:         8,
		RetryMode:          "standard",
		MultipartThreshold: 8 * 1024 * 1024,
		PartSize:           8 * 1024 * 1024,
		Concurrency:        8,
		PresignTTL:         15 * time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validation.ValidateBucketName(cfg.Bucket); err != nil {
		return nil, errors.NewError("client initialization", err)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.MaxRetries > 0 {
		loadOpts = append(loadOpts, awsconfig.WithRetryMaxAttempts(cfg.MaxRetries))
	}
	if cfg.RetryMode != "" {
		loadOpts = append(loadOpts, awsconfig.WithRetryMode(aws.RetryMode(cfg.RetryMode)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewError("client initialization", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	s3Client := s3.NewFromConfig(awsCfg, s3Opts...)

	return &Client{
		api:       s3Client,
		presigner: s3.NewPresignClient(s3Client),
		bucket:    cfg.Bucket,
		cfg:       cfg,
	}, nil
}

// NewWithAPI creates a client backed by custom API implementations.
// This is primarily used for testing with mocked clients.
func NewWithAPI(api s3api.S3API, presigner s3api.PresignAPI, bucket string) *Client {
	return &Client{
		api:       api,
		presigner: presigner,
		bucket:    bucket,
		cfg: objtypes.ClientConfig{
			Bucket:             bucket,
			MultipartThreshold: 8 * 1024 * 1024,
			PartSize:           8 * 1024 * 1024,
			Concurrency:        8,
			PresignTTL:         15 * time.Minute,
		},
	}
}

// Bucket returns the bucket this client is scoped to.
func (c *Client) Bucket() string {
	return c.bucket
}
