// Package digest computes content digests used as idempotency tokens.
//
// Two payloads are considered "the same" iff their digests match,
// regardless of timestamps or other metadata, so the digest must cover
// the exact byte sequence written to storage.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// SHA256Bytes returns the lowercase hex SHA-256 digest of data.
func SHA256Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA256Stream returns the lowercase hex SHA-256 digest of everything
// readable from r.
func SHA256Stream(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
