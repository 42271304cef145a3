// Package upload handles object upload operations.
//
// Payloads above the configured multipart threshold are split into parts
// uploaded concurrently; smaller payloads use a single PUT. Transient
// failures inside each call are retried by the SDK's configured retryer,
// so exhausting retries here is terminal for the caller.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/meridian-data/lakestage/objstore/errors"
	"github.com/meridian-data/lakestage/objstore/internal/s3api"
	"github.com/meridian-data/lakestage/objstore/objtypes"
)

const (
	// DefaultMultipartThreshold is the payload size above which uploads
	// switch to multipart.
	DefaultMultipartThreshold = 8 * 1024 * 1024

	// DefaultPartSize is the size of each uploaded part.
	DefaultPartSize = 8 * 1024 * 1024

	// DefaultConcurrency bounds concurrent part uploads.
	DefaultConcurrency = 8
)

// Uploader handles object uploads with automatic multipart detection.
type Uploader struct {
	s3Client s3api.S3API
}

// New creates a new Uploader instance.
func New(s3Client s3api.S3API) *Uploader {
	return &Uploader{
		s3Client: s3Client,
	}
}

// Upload uploads a byte payload, choosing between a single PUT and a
// multipart upload based on the configured threshold.
func (u *Uploader) Upload(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *objtypes.UploadConfig,
) error {
	threshold := config.MultipartThreshold
	if threshold <= 0 {
		threshold = DefaultMultipartThreshold
	}

	if int64(len(data)) >= threshold {
		return u.uploadMultipart(ctx, bucket, key, data, config)
	}
	return u.uploadSimple(ctx, bucket, key, data, config)
}

// uploadSimple performs a single PutObject call.
func (u *Uploader) uploadSimple(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *objtypes.UploadConfig,
) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(config.ContentType),
		ContentLength: aws.Int64(int64(len(data))),
	}

	if len(config.Metadata) > 0 {
		input.Metadata = config.Metadata
	}
	if config.Tagging != "" {
		input.Tagging = aws.String(config.Tagging)
	}

	_, err := u.s3Client.PutObject(ctx, input)
	if err != nil {
		return errors.NewError("uploadSimple", err).WithBucket(bucket).WithKey(key)
	}
	return nil
}

// uploadMultipart splits the payload into parts and uploads them
// concurrently, bounded by the configured concurrency. Any part failure
// aborts the whole upload so no partial object becomes visible.
func (u *Uploader) uploadMultipart(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *objtypes.UploadConfig,
) error {
	createInput := &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(config.ContentType),
	}
	if len(config.Metadata) > 0 {
		createInput.Metadata = config.Metadata
	}
	if config.Tagging != "" {
		createInput.Tagging = aws.String(config.Tagging)
	}

	createOutput, err := u.s3Client.CreateMultipartUpload(ctx, createInput)
	if err != nil {
		return errors.NewError("uploadMultipart", err).WithBucket(bucket).WithKey(key)
	}
	uploadID := aws.ToString(createOutput.UploadId)

	partSize := config.PartSize
	if partSize <= 0 {
		partSize = DefaultPartSize
	}
	numParts := calculateParts(int64(len(data)), partSize)

	parts, err := u.uploadParts(ctx, bucket, key, uploadID, data, partSize, numParts, config)
	if err != nil {
		u.abortMultipartUpload(ctx, bucket, key, uploadID)
		return err
	}

	completeInput := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: parts,
		},
	}

	_, err = u.s3Client.CompleteMultipartUpload(ctx, completeInput)
	if err != nil {
		u.abortMultipartUpload(ctx, bucket, key, uploadID)
		return errors.NewError("uploadMultipart", err).WithBucket(bucket).WithKey(key)
	}

	return nil
}

// uploadParts uploads all parts concurrently and returns them ordered by
// part number.
func (u *Uploader) uploadParts(
	ctx context.Context,
	bucket, key, uploadID string,
	data []byte,
	partSize int64,
	numParts int,
	config *objtypes.UploadConfig,
) ([]awstypes.CompletedPart, error) {
	type partResult struct {
		partNumber int32
		etag       string
		err        error
	}

	results := make(chan partResult, numParts)
	parts := make([]awstypes.CompletedPart, numParts)

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i := 0; i < numParts; i++ {
		wg.Add(1)
		go func(partNum int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			offset := int64(partNum) * partSize
			end := offset + partSize
			if end > int64(len(data)) {
				end = int64(len(data))
			}

			input := &s3.UploadPartInput{
				Bucket:     aws.String(bucket),
				Key:        aws.String(key),
				UploadId:   aws.String(uploadID),
				PartNumber: aws.Int32(int32(partNum + 1)),
				Body:       bytes.NewReader(data[offset:end]),
			}

			output, err := u.s3Client.UploadPart(ctx, input)
			if err != nil {
				results <- partResult{
					partNumber: int32(partNum + 1),
					err: errors.NewError("uploadPart", err).
						WithBucket(bucket).
						WithKey(key).
						WithMessage(fmt.Sprintf("failed to upload part %d", partNum+1)),
				}
				return
			}

			results <- partResult{
				partNumber: int32(partNum + 1),
				etag:       aws.ToString(output.ETag),
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for result := range results {
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
			}
			continue
		}
		parts[result.partNumber-1] = awstypes.CompletedPart{
			ETag:       aws.String(result.etag),
			PartNumber: aws.Int32(result.partNumber),
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return parts, nil
}

// calculateParts calculates the number of parts needed.
func calculateParts(size, partSize int64) int {
	if size == 0 {
		return 1
	}
	return int((size + partSize - 1) / partSize)
}

// abortMultipartUpload cleans up a failed multipart upload.
func (u *Uploader) abortMultipartUpload(ctx context.Context, bucket, key, uploadID string) {
	abortInput := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	}
	// Ignore errors during cleanup
	_, _ = u.s3Client.AbortMultipartUpload(ctx, abortInput)
}
