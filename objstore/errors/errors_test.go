package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "bucket and key",
			err:  NewObjectError("put", "b", "k", ErrUploadFailed),
			want: "objstore.put b/k: objstore: upload failed",
		},
		{
			name: "bucket only",
			err:  NewError("list", ErrAccessDenied).WithBucket("b"),
			want: "objstore.list bucket b: objstore: access denied",
		},
		{
			name: "key only",
			err:  NewError("head", ErrObjectNotFound).WithKey("k"),
			want: "objstore.head object k: objstore: object not found",
		},
		{
			name: "bare operation",
			err:  NewError("client initialization", ErrInvalidBucketName),
			want: "objstore.client initialization: objstore: invalid bucket name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := NewObjectError("head", "b", "k", ErrObjectNotFound)

	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.True(t, IsObjectNotFound(err))

	// still detectable through further wrapping
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsObjectNotFound(wrapped))
}

func TestError_WithMessage(t *testing.T) {
	err := NewError("copy", ErrCopyFailed).WithMessage("failed to copy from src")

	assert.Contains(t, err.Error(), "failed to copy from src")
	assert.True(t, IsCopyFailed(err))
}

func TestIsHelpers_IgnoreUnrelatedErrors(t *testing.T) {
	plain := errors.New("boom")

	assert.False(t, IsObjectNotFound(plain))
	assert.False(t, IsInvalidInput(plain))
	assert.False(t, IsUploadFailed(plain))
	assert.False(t, IsCopyFailed(plain))
}
