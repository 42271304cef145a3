package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-data/lakestage/objstore/errors"
)

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "plain key", key: "curated/rides/date=2024-01-15/part-00000.csv.gz"},
		{name: "staging key", key: "staging/1700000000000-abc-part-00000.parquet"},
		{name: "partition equals sign allowed", key: "p/date=2024-01-15/f"},
		{name: "empty key", key: "", wantErr: true},
		{name: "bare dotdot", key: "..", wantErr: true},
		{name: "leading traversal", key: "../escape", wantErr: true},
		{name: "embedded traversal", key: "a/../b", wantErr: true},
		{name: "trailing traversal", key: "a/..", wantErr: true},
		{name: "dotdot in segment name is fine", key: "a/..b/c"},
		{name: "too long", key: strings.Repeat("k", 1025), wantErr: true},
		{name: "max length ok", key: strings.Repeat("k", 1024)},
		{name: "control character", key: "a\x00b", wantErr: true},
		{name: "newline", key: "a\nb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidObjectKey)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{name: "simple", bucket: "my-bucket"},
		{name: "with dots", bucket: "data.lake.prod"},
		{name: "digits", bucket: "bucket123"},
		{name: "minimum length", bucket: "abc"},
		{name: "too short", bucket: "ab", wantErr: true},
		{name: "too long", bucket: strings.Repeat("a", 64), wantErr: true},
		{name: "uppercase", bucket: "MyBucket", wantErr: true},
		{name: "underscore", bucket: "my_bucket", wantErr: true},
		{name: "leading hyphen", bucket: "-bucket", wantErr: true},
		{name: "trailing hyphen", bucket: "bucket-", wantErr: true},
		{name: "adjacent dots", bucket: "a..b", wantErr: true},
		{name: "dash next to dot", bucket: "a.-b", wantErr: true},
		{name: "ip address", bucket: "192.168.1.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
				return
			}
			assert.NoError(t, err)
		})
	}
}
