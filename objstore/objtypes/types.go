// Package objtypes provides shared type definitions for the objstore module.
package objtypes

import (
	"time"
)

// ClientConfig holds configuration for creating a storage client.
type ClientConfig struct {
	// Bucket is the bucket all operations are scoped to
	Bucket string

	// Region is the AWS region
	Region string

	// Profile is the shared credentials profile to use; empty means the
	// default credential chain (environment, instance role, etc.)
	Profile string

	// Endpoint is a custom endpoint URL for S3-compatible services
	// (MinIO, LocalStack). Empty means the native AWS endpoint.
	Endpoint string

	// ForcePathStyle forces path-style addressing instead of
	// virtual-hosted style. Required by most self-hosted backends.
	ForcePathStyle bool

	// MaxRetries is the retry budget handed to the SDK retryer
	MaxRetries int

	// RetryMode is the SDK retry mode ("standard" or "adaptive")
	RetryMode string

	// MultipartThreshold is the payload size above which uploads are
	// split into parts
	MultipartThreshold int64

	// PartSize is the part size for multipart uploads
	PartSize int64

	// Concurrency bounds concurrent part uploads
	Concurrency int

	// PresignTTL is the default expiry for presigned URLs when the
	// caller does not specify one
	PresignTTL time.Duration
}

// Option is a functional option for configuring the client.
type Option func(*ClientConfig)

// UploadOptionConfig holds per-upload configuration.
type UploadOptionConfig struct {
	ContentType string
	Metadata    map[string]string
	Tags        map[string]string
}

// UploadOption is a functional option for upload operations.
type UploadOption func(*UploadOptionConfig)

// UploadConfig is the resolved configuration passed to the internal uploader.
type UploadConfig struct {
	ContentType        string
	Metadata           map[string]string
	Tagging            string
	MultipartThreshold int64
	PartSize           int64
	Concurrency        int
}

// CopyOptionConfig holds per-copy configuration.
// When Metadata or Tags are set the copy replaces them on the destination
// instead of carrying over the source values.
type CopyOptionConfig struct {
	ContentType string
	Metadata    map[string]string
	Tags        map[string]string
}

// CopyOption is a functional option for copy operations.
type CopyOption func(*CopyOptionConfig)

// ListOptionConfig holds per-list configuration.
type ListOptionConfig struct {
	MaxKeys    int32
	Delimiter  string
	StartAfter string
}

// ListOption is a functional option for list operations.
type ListOption func(*ListOptionConfig)

// Object represents a stored object as returned by list operations.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
	StorageClass string
}

// ObjectMetadata holds the metadata of a stored object as returned by a
// head request. Metadata carries the user-defined entries; system fields
// are surfaced as struct members.
type ObjectMetadata struct {
	ContentType   string
	ContentLength int64
	LastModified  time.Time
	ETag          string
	Metadata      map[string]string
}

// ListResult contains one page of a list operation.
type ListResult struct {
	Objects               []Object
	IsTruncated           bool
	NextContinuationToken string
}
