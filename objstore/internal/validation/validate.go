// Package validation provides centralized input validation logic.
//
// Inputs are validated before being sent to the backing store to prevent
// path traversal in keys and to fail fast on malformed bucket names.
package validation

import (
	"net"
	"strings"
	"unicode"

	"github.com/meridian-data/lakestage/objstore/errors"
)

// ValidateObjectKey validates that an object key is acceptable to S3.
// This includes preventing path traversal and control characters.
func ValidateObjectKey(key string) error {
	if key == "" {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot be empty")
	}

	if hasPathTraversal(key) {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot contain path traversal sequences")
	}

	// S3 supports keys up to 1024 bytes
	if len(key) > 1024 {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot exceed 1024 characters")
	}

	if hasControlCharacters(key) {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot contain control characters")
	}

	return nil
}

// ValidateBucketName validates that a bucket name is DNS-compliant
// according to AWS S3 rules.
func ValidateBucketName(bucket string) error {
	if len(bucket) < 3 || len(bucket) > 63 {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name must be between 3 and 63 characters")
	}

	for _, r := range bucket {
		if !unicode.IsLower(r) && !unicode.IsDigit(r) && r != '-' && r != '.' {
			return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
				WithBucket(bucket).
				WithMessage("bucket name may only contain lowercase letters, digits, hyphens, and dots")
		}
	}

	if !isAlphanumeric(rune(bucket[0])) || !isAlphanumeric(rune(bucket[len(bucket)-1])) {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name must begin and end with a letter or number")
	}

	if strings.Contains(bucket, "..") || strings.Contains(bucket, ".-") || strings.Contains(bucket, "-.") {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name cannot contain adjacent periods or dashes next to periods")
	}

	if net.ParseIP(bucket) != nil {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name must not be formatted as an IP address")
	}

	return nil
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLower(r) || unicode.IsDigit(r)
}

func hasPathTraversal(key string) bool {
	if key == ".." || strings.HasPrefix(key, "../") || strings.HasSuffix(key, "/..") {
		return true
	}
	return strings.Contains(key, "/../")
}

func hasControlCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
