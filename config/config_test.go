package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendS3, s.StorageBackend)
	assert.Equal(t, "your-bucket", s.BucketName)
	assert.Empty(t, s.EndpointURL)
	assert.False(t, s.UsePathStyle)
	assert.Equal(t, 900, s.PresignDefaultExpires)
	assert.Equal(t, "rides", s.DatasetName)
	assert.Equal(t, "curated/", s.DefaultPrefix)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("BUCKET_NAME", "data-lake")
	t.Setenv("ENDPOINT_URL", "http://localhost:9000")
	t.Setenv("USE_PATH_STYLE", "true")
	t.Setenv("PRESIGN_DEFAULT_EXPIRES", "600")
	t.Setenv("DEFAULT_PREFIX", "raw/")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMinIO, s.StorageBackend)
	assert.Equal(t, "data-lake", s.BucketName)
	assert.Equal(t, "http://localhost:9000", s.EndpointURL)
	assert.True(t, s.UsePathStyle)
	assert.Equal(t, 600, s.PresignDefaultExpires)
	assert.Equal(t, "raw/", s.DefaultPrefix)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "gcs")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported storage backend")
}

func TestPresignTTL(t *testing.T) {
	s := Settings{PresignDefaultExpires: 900}
	assert.Equal(t, 15*time.Minute, s.PresignTTL())
}
