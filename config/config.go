// Package config loads environment-driven settings for the pipeline.
//
// Settings are read once at process start and passed explicitly into the
// components that need them; there is no ambient global state.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Backend selects the object-storage flavor the client talks to.
const (
	// BackendS3 is native AWS S3
	BackendS3 = "s3"

	// BackendMinIO is a self-hosted S3-compatible endpoint
	BackendMinIO = "minio"
)

// Settings holds all environment-driven configuration.
type Settings struct {
	// StorageBackend selects "s3" or "minio"
	StorageBackend string `env:"STORAGE_BACKEND" env-default:"s3"`

	// BucketName is the destination bucket
	BucketName string `env:"BUCKET_NAME" env-default:"your-bucket"`

	// AWSRegion is the region for native S3
	AWSRegion string `env:"AWS_REGION" env-default:"eu-west-1"`

	// AWSProfile optionally names a shared credentials profile
	AWSProfile string `env:"AWS_PROFILE"`

	// AWSRoleARN optionally names a role assumed through the default
	// credential chain
	AWSRoleARN string `env:"AWS_ROLE_ARN"`

	// EndpointURL overrides the service endpoint (MinIO, LocalStack)
	EndpointURL string `env:"ENDPOINT_URL"`

	// UsePathStyle forces path-style addressing
	UsePathStyle bool `env:"USE_PATH_STYLE" env-default:"false"`

	// PresignDefaultExpires is the default presign TTL in seconds
	PresignDefaultExpires int `env:"PRESIGN_DEFAULT_EXPIRES" env-default:"900"`

	// DatasetName is the default dataset for ingest
	DatasetName string `env:"DATASET_NAME" env-default:"rides"`

	// DefaultPrefix is the default destination prefix
	DefaultPrefix string `env:"DEFAULT_PREFIX" env-default:"curated/"`
}

// Load reads settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := cleanenv.ReadEnv(&s); err != nil {
		return Settings{}, fmt.Errorf("read environment: %w", err)
	}
	if s.StorageBackend != BackendS3 && s.StorageBackend != BackendMinIO {
		return Settings{}, fmt.Errorf("unsupported storage backend %q", s.StorageBackend)
	}
	return s, nil
}

// PresignTTL returns the default presign expiry as a duration.
func (s Settings) PresignTTL() time.Duration {
	return time.Duration(s.PresignDefaultExpires) * time.Second
}
