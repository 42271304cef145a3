// Package objstore provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package objstore

import (
	"time"

	"github.com/meridian-data/lakestage/objstore/objtypes"
)

// WithBucket sets the bucket all client operations are scoped to. Required.
func WithBucket(bucket string) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		c.Bucket = bucket
	}
}

// WithRegion sets the AWS region.
// If not specified, uses the region from the credential chain.
func WithRegion(region string) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		c.Region = region
	}
}

// WithProfile sets a shared credentials profile.
// Empty means the default credential chain (environment variables,
// instance role, assumed role).
func WithProfile(profile string) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		c.Profile = profile
	}
}

// WithEndpoint sets a custom endpoint URL.
// This is how self-hosted S3-compatible backends (MinIO, LocalStack)
// are reached.
func WithEndpoint(endpoint string) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// Required for most S3-compatible services that don't support virtual hosting.
func WithForcePathStyle(forcePathStyle bool) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithMaxRetries sets the retry budget handed to the SDK retryer.
// Default is 8 attempts.
func WithMaxRetries(maxRetries int) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		if maxRetries > 0 {
			c.MaxRetries = maxRetries
		}
	}
}

// WithRetryMode sets the SDK retry mode.
// Options are "standard" and "adaptive". Default is "standard".
func WithRetryMode(mode string) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		c.RetryMode = mode
	}
}

// WithMultipartThreshold sets the payload size above which uploads are
// split into parts. Default is 8MB.
func WithMultipartThreshold(threshold int64) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		if threshold > 0 {
			c.MultipartThreshold = threshold
		}
	}
}

// WithPartSize sets the part size for multipart uploads.
// Default is 8MB. Must be at least 5MB for S3 multipart uploads.
func WithPartSize(partSize int64) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithConcurrency bounds concurrent part uploads.
// Default is 8.
func WithConcurrency(concurrency int) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithPresignTTL sets the default expiry for presigned URLs when the
// caller does not specify one. Default is 15 minutes.
func WithPresignTTL(ttl time.Duration) objtypes.Option {
	return func(c *objtypes.ClientConfig) {
		if ttl > 0 {
			c.PresignTTL = ttl
		}
	}
}

// WithContentType sets the content type for an upload.
func WithContentType(contentType string) objtypes.UploadOption {
	return func(c *objtypes.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithMetadata sets user metadata for an upload.
func WithMetadata(metadata map[string]string) objtypes.UploadOption {
	return func(c *objtypes.UploadOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithTags sets object tags for an upload. Tags live in a separate
// namespace from metadata.
func WithTags(tags map[string]string) objtypes.UploadOption {
	return func(c *objtypes.UploadOptionConfig) {
		if c.Tags == nil {
			c.Tags = make(map[string]string)
		}
		for k, v := range tags {
			c.Tags[k] = v
		}
	}
}

// WithCopyContentType sets the content type on the copy destination.
func WithCopyContentType(contentType string) objtypes.CopyOption {
	return func(c *objtypes.CopyOptionConfig) {
		c.ContentType = contentType
	}
}

// WithMetadataOverride replaces the destination object's metadata instead
// of carrying over the source values.
func WithMetadataOverride(metadata map[string]string) objtypes.CopyOption {
	return func(c *objtypes.CopyOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithTagsOverride replaces the destination object's tags instead of
// carrying over the source values.
func WithTagsOverride(tags map[string]string) objtypes.CopyOption {
	return func(c *objtypes.CopyOptionConfig) {
		if c.Tags == nil {
			c.Tags = make(map[string]string)
		}
		for k, v := range tags {
			c.Tags[k] = v
		}
	}
}

// WithMaxKeys controls the page size of a single list call (1-1000).
func WithMaxKeys(maxKeys int32) objtypes.ListOption {
	return func(c *objtypes.ListOptionConfig) {
		if maxKeys > 0 {
			c.MaxKeys = maxKeys
		}
	}
}

// WithDelimiter groups list results by common prefixes (e.g. "/").
func WithDelimiter(delimiter string) objtypes.ListOption {
	return func(c *objtypes.ListOptionConfig) {
		c.Delimiter = delimiter
	}
}

// WithStartAfter starts listing after the given key.
func WithStartAfter(startAfter string) objtypes.ListOption {
	return func(c *objtypes.ListOptionConfig) {
		c.StartAfter = startAfter
	}
}
