// Package objstore provides the core object operations.
package objstore

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/meridian-data/lakestage/objstore/errors"
	"github.com/meridian-data/lakestage/objstore/internal/operations/upload"
	"github.com/meridian-data/lakestage/objstore/internal/validation"
	"github.com/meridian-data/lakestage/objstore/objtypes"
)

const (
	// DefaultContentType is used when content type detection fails
	DefaultContentType = "application/octet-stream"
)

// Head checks existence of an object and returns its metadata without
// fetching content. Absent keys return errors.ErrObjectNotFound, which
// callers treat as a normal "no existing object" outcome.
func (c *Client) Head(ctx context.Context, key string) (*objtypes.ObjectMetadata, error) {
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, errors.NewError("head", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	result, err := c.api.HeadObject(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NewError("head", errors.ErrObjectNotFound).
				WithBucket(c.bucket).
				WithKey(key)
		}
		return nil, errors.NewError("head", err).WithBucket(c.bucket).WithKey(key)
	}

	metadata := &objtypes.ObjectMetadata{
		ContentType:   aws.ToString(result.ContentType),
		ContentLength: aws.ToInt64(result.ContentLength),
		LastModified:  aws.ToTime(result.LastModified),
		ETag:          strings.Trim(aws.ToString(result.ETag), "\""),
	}
	if result.Metadata != nil {
		metadata.Metadata = make(map[string]string, len(result.Metadata))
		for k, v := range result.Metadata {
			metadata.Metadata[k] = v
		}
	}

	return metadata, nil
}

// Put uploads a byte payload to a key, setting metadata and tags together
// with the upload. Payloads above the multipart threshold are split into
// concurrently uploaded parts; the caller experiences a single blocking
// call that returns once all parts are acknowledged. Terminal failures
// (after the SDK retryer gives up) wrap errors.ErrUploadFailed.
func (c *Client) Put(ctx context.Context, key string, data []byte, opts ...objtypes.UploadOption) error {
	if err := validation.ValidateObjectKey(key); err != nil {
		return errors.NewError("put", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := &objtypes.UploadOptionConfig{
		ContentType: DefaultContentType,
		Metadata:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(config)
	}

	if config.ContentType == DefaultContentType {
		config.ContentType = detectContentType(key, data)
	}

	uploadConfig := &objtypes.UploadConfig{
		ContentType:        config.ContentType,
		Metadata:           config.Metadata,
		Tagging:            encodeTags(config.Tags),
		MultipartThreshold: c.cfg.MultipartThreshold,
		PartSize:           c.cfg.PartSize,
		Concurrency:        c.cfg.Concurrency,
	}

	uploader := upload.New(c.api)
	if err := uploader.Upload(ctx, c.bucket, key, data, uploadConfig); err != nil {
		return errors.NewError("put", fmt.Errorf("%w: %w", errors.ErrUploadFailed, err)).
			WithBucket(c.bucket).
			WithKey(key)
	}

	return nil
}

// Get downloads an entire object and returns it as a byte slice.
// Intended for objects that fit in memory, which is all this system writes.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, errors.NewError("get", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	result, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NewError("get", errors.ErrObjectNotFound).
				WithBucket(c.bucket).
				WithKey(key)
		}
		return nil, errors.NewError("get", err).WithBucket(c.bucket).WithKey(key)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errors.NewError("get", err).WithBucket(c.bucket).WithKey(key)
	}
	return data, nil
}

// Copy performs a server-side copy within the bucket; no bytes pass
// through the caller's process. When metadata or tag overrides are given
// the destination gets them via REPLACE directives instead of inheriting
// the source values. Failures wrap errors.ErrCopyFailed and leave the
// destination untouched.
func (c *Client) Copy(ctx context.Context, srcKey, dstKey string, opts ...objtypes.CopyOption) error {
	if err := validation.ValidateObjectKey(srcKey); err != nil {
		return errors.NewError("copy", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(srcKey).
			WithMessage(err.Error())
	}
	if err := validation.ValidateObjectKey(dstKey); err != nil {
		return errors.NewError("copy", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(dstKey).
			WithMessage(err.Error())
	}
	if srcKey == dstKey {
		return errors.NewError("copy", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(srcKey).
			WithMessage("cannot copy object to itself")
	}

	config := &objtypes.CopyOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	input := &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(c.bucket + "/" + url.PathEscape(srcKey)),
	}

	if config.Metadata != nil {
		input.Metadata = config.Metadata
		input.MetadataDirective = types.MetadataDirectiveReplace
		if config.ContentType != "" {
			input.ContentType = aws.String(config.ContentType)
		}
	}
	if config.Tags != nil {
		input.Tagging = aws.String(encodeTags(config.Tags))
		input.TaggingDirective = types.TaggingDirectiveReplace
	}

	_, err := c.api.CopyObject(ctx, input)
	if err != nil {
		return errors.NewError("copy", fmt.Errorf("%w: %w", errors.ErrCopyFailed, err)).
			WithBucket(c.bucket).
			WithKey(dstKey).
			WithMessage("failed to copy from " + srcKey)
	}

	return nil
}

// Delete removes a single object. The operation is idempotent: deleting
// a non-existent object doesn't return an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := validation.ValidateObjectKey(key); err != nil {
		return errors.NewError("delete", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.NewError("delete", err).WithBucket(c.bucket).WithKey(key)
	}

	return nil
}

// List returns one page of object keys under a prefix.
// Use WithMaxKeys to control page size (max 1000 per request).
func (c *Client) List(ctx context.Context, prefix string, opts ...objtypes.ListOption) (*objtypes.ListResult, error) {
	config := &objtypes.ListOptionConfig{
		MaxKeys: 1000,
	}
	for _, opt := range opts {
		opt(config)
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(config.MaxKeys),
	}
	if config.Delimiter != "" {
		input.Delimiter = aws.String(config.Delimiter)
	}
	if config.StartAfter != "" {
		input.StartAfter = aws.String(config.StartAfter)
	}

	result, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, errors.NewError("list", err).WithBucket(c.bucket)
	}

	listResult := &objtypes.ListResult{
		Objects:     make([]objtypes.Object, 0, len(result.Contents)),
		IsTruncated: aws.ToBool(result.IsTruncated),
	}
	if result.NextContinuationToken != nil {
		listResult.NextContinuationToken = aws.ToString(result.NextContinuationToken)
	}
	for _, obj := range result.Contents {
		listResult.Objects = append(listResult.Objects, objtypes.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         strings.Trim(aws.ToString(obj.ETag), "\""),
			StorageClass: string(obj.StorageClass),
		})
	}

	return listResult, nil
}

// ListAll streams all objects under a prefix through a channel, handling
// pagination internally. The channel is closed when all objects have been
// sent, the context is cancelled, or an error occurs. Enumeration always
// restarts from scratch; there is no resumable cursor across calls.
//
// Always consume the channel completely or cancel the context to avoid
// goroutine leaks.
func (c *Client) ListAll(ctx context.Context, prefix string) <-chan objtypes.Object {
	objectChan := make(chan objtypes.Object, 100)

	go func() {
		defer close(objectChan)

		var continuationToken *string
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			input := &s3.ListObjectsV2Input{
				Bucket:            aws.String(c.bucket),
				Prefix:            aws.String(prefix),
				MaxKeys:           aws.Int32(1000),
				ContinuationToken: continuationToken,
			}

			result, err := c.api.ListObjectsV2(ctx, input)
			if err != nil {
				return
			}

			for _, obj := range result.Contents {
				object := objtypes.Object{
					Key:          aws.ToString(obj.Key),
					Size:         aws.ToInt64(obj.Size),
					LastModified: aws.ToTime(obj.LastModified),
					ETag:         strings.Trim(aws.ToString(obj.ETag), "\""),
					StorageClass: string(obj.StorageClass),
				}
				select {
				case objectChan <- object:
				case <-ctx.Done():
					return
				}
			}

			if !aws.ToBool(result.IsTruncated) {
				break
			}
			continuationToken = result.NextContinuationToken
		}
	}()

	return objectChan
}

// PresignGet generates a time-limited, credential-free URL for a GET
// request against the key. A non-positive ttl falls back to the client's
// configured default.
func (c *Client) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := validation.ValidateObjectKey(key); err != nil {
		return "", errors.NewError("presignGet", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if ttl <= 0 {
		ttl = c.cfg.PresignTTL
	}

	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", errors.NewError("presignGet", err).WithBucket(c.bucket).WithKey(key)
	}

	return result.URL, nil
}

// PresignPut generates a time-limited, credential-free URL for a PUT
// request against the key. A non-positive ttl falls back to the client's
// configured default.
func (c *Client) PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := validation.ValidateObjectKey(key); err != nil {
		return "", errors.NewError("presignPut", errors.ErrInvalidInput).
			WithBucket(c.bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if ttl <= 0 {
		ttl = c.cfg.PresignTTL
	}

	result, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", errors.NewError("presignPut", err).WithBucket(c.bucket).WithKey(key)
	}

	return result.URL, nil
}

// encodeTags renders a tag map as the url-encoded string the Tagging
// fields expect. Encoding sorts keys, so output is deterministic.
func encodeTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range tags {
		values.Set(k, v)
	}
	return values.Encode()
}

// detectContentType sniffs the payload with mimetype, falling back to
// extension-based lookup on the key.
func detectContentType(key string, data []byte) string {
	if len(data) > 0 {
		if mt := mimetype.Detect(data); mt != nil && mt.String() != DefaultContentType {
			return mt.String()
		}
	}

	ext := strings.ToLower(filepath.Ext(key))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}

// isNotFound reports whether err indicates an absent object.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	if goerrors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if goerrors.As(err, &noSuchKey) {
		return true
	}
	// MinIO and some proxies surface plain 404s the SDK doesn't model
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "NoSuchKey")
}
