package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-data/lakestage/codec"
	"github.com/meridian-data/lakestage/dataset"
	"github.com/meridian-data/lakestage/objstore/errors"
	"github.com/meridian-data/lakestage/objstore/objtypes"
)

type fakeObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
	tags        map[string]string
}

// fakeStore is an in-memory Store that mimics the commit semantics the
// orchestrator relies on: Head surfaces metadata, Copy replaces
// attributes on the destination, Delete is idempotent.
type fakeStore struct {
	objects map[string]fakeObject

	headCalls   int
	putCalls    int
	copyCalls   int
	deleteCalls int

	failCopy   bool
	failDelete bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]fakeObject)}
}

func (f *fakeStore) Head(ctx context.Context, key string) (*objtypes.ObjectMetadata, error) {
	f.headCalls++
	obj, ok := f.objects[key]
	if !ok {
		return nil, errors.NewError("head", errors.ErrObjectNotFound).WithKey(key)
	}
	return &objtypes.ObjectMetadata{
		ContentType:   obj.contentType,
		ContentLength: int64(len(obj.data)),
		Metadata:      obj.metadata,
	}, nil
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, opts ...objtypes.UploadOption) error {
	f.putCalls++
	cfg := &objtypes.UploadOptionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	f.objects[key] = fakeObject{
		data:        append([]byte(nil), data...),
		contentType: cfg.ContentType,
		metadata:    cfg.Metadata,
		tags:        cfg.Tags,
	}
	return nil
}

func (f *fakeStore) Copy(ctx context.Context, srcKey, dstKey string, opts ...objtypes.CopyOption) error {
	f.copyCalls++
	if f.failCopy {
		return errors.NewError("copy", errors.ErrCopyFailed).WithKey(dstKey)
	}
	src, ok := f.objects[srcKey]
	if !ok {
		return errors.NewError("copy", errors.ErrObjectNotFound).WithKey(srcKey)
	}
	cfg := &objtypes.CopyOptionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	dst := fakeObject{
		data:        append([]byte(nil), src.data...),
		contentType: src.contentType,
		metadata:    src.metadata,
		tags:        src.tags,
	}
	if cfg.Metadata != nil {
		dst.metadata = cfg.Metadata
		if cfg.ContentType != "" {
			dst.contentType = cfg.ContentType
		}
	}
	if cfg.Tags != nil {
		dst.tags = cfg.Tags
	}
	f.objects[dstKey] = dst
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleteCalls++
	if f.failDelete {
		return fmt.Errorf("delete %s: backend unavailable", key)
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) stagingKeys() []string {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, "staging/") {
			keys = append(keys, k)
		}
	}
	return keys
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRequest(t *testing.T) Request {
	t.Helper()
	frame, err := dataset.GenerateRides(50, "2024-01-15")
	require.NoError(t, err)
	return Request{
		Dataset:         "rides",
		Frame:           frame,
		Date:            "2024-01-15",
		Format:          codec.FormatCSV,
		Compression:     codec.CompressionGzip,
		Prefix:          "curated/",
		EnvTag:          "dev",
		RequiredColumns: dataset.RequiredColumns("rides"),
	}
}

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestRun_WritesNewPartition(t *testing.T) {
	store := newFakeStore()
	ing := New(store, testLogger())

	res, err := ing.Run(context.Background(), testRequest(t))
	require.NoError(t, err)

	assert.Equal(t, StatusWritten, res.Status)
	assert.Equal(t, "curated/rides/date=2024-01-15/part-00000.csv.gz", res.Key)
	assert.Regexp(t, hexDigest, res.Digest)
	assert.Positive(t, res.Bytes)

	obj, ok := store.objects[res.Key]
	require.True(t, ok, "final object must exist")
	assert.Equal(t, "application/gzip", obj.contentType)
	assert.Equal(t, SchemaVersion, obj.metadata[MetaSchemaVersion])
	assert.Equal(t, res.Digest, obj.metadata[MetaContentSHA256])
	assert.Equal(t, "dev", obj.tags["env"])
	assert.Equal(t, "rides", obj.tags["dataset"])

	// staging object is cleaned up after promotion
	assert.Empty(t, store.stagingKeys())
}

func TestRun_SecondRunIsNoop(t *testing.T) {
	store := newFakeStore()
	ing := New(store, testLogger())

	first, err := ing.Run(context.Background(), testRequest(t))
	require.NoError(t, err)
	require.Equal(t, StatusWritten, first.Status)

	putsAfterFirst := store.putCalls
	copiesAfterFirst := store.copyCalls

	second, err := ing.Run(context.Background(), testRequest(t))
	require.NoError(t, err)

	assert.Equal(t, StatusUnchanged, second.Status)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.Digest, second.Digest)
	// no writes on the unchanged path
	assert.Equal(t, putsAfterFirst, store.putCalls)
	assert.Equal(t, copiesAfterFirst, store.copyCalls)
}

func TestRun_ChangedContentRewrites(t *testing.T) {
	store := newFakeStore()
	ing := New(store, testLogger())

	first, err := ing.Run(context.Background(), testRequest(t))
	require.NoError(t, err)

	req := testRequest(t)
	bigger, err := dataset.GenerateRides(80, "2024-01-15")
	require.NoError(t, err)
	req.Frame = bigger

	second, err := ing.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, StatusWritten, second.Status)
	assert.Equal(t, first.Key, second.Key)
	assert.NotEqual(t, first.Digest, second.Digest)
	assert.Equal(t, second.Digest, store.objects[second.Key].metadata[MetaContentSHA256])
}

func TestRun_PromotionFailureLeavesFinalUntouched(t *testing.T) {
	store := newFakeStore()
	store.failCopy = true
	ing := New(store, testLogger())

	_, err := ing.Run(context.Background(), testRequest(t))
	require.Error(t, err)
	assert.True(t, errors.IsCopyFailed(err))

	// final key was never written; the staging object is orphaned, which
	// is safe and cleaned up out of band
	_, ok := store.objects["curated/rides/date=2024-01-15/part-00000.csv.gz"]
	assert.False(t, ok)
	assert.NotEmpty(t, store.stagingKeys())
}

func TestRun_CleanupFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	store.failDelete = true
	ing := New(store, testLogger())

	res, err := ing.Run(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, res.Status)
	assert.Equal(t, 1, store.deleteCalls)
}

func TestRun_ParquetPartition(t *testing.T) {
	store := newFakeStore()
	ing := New(store, testLogger())

	req := testRequest(t)
	req.Format = codec.FormatParquet
	req.Compression = codec.CompressionNone

	res, err := ing.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "curated/rides/date=2024-01-15/part-00000.parquet", res.Key)
	assert.Equal(t, "application/vnd.apache.parquet", store.objects[res.Key].contentType)
}

func TestRun_InvalidFrame(t *testing.T) {
	store := newFakeStore()
	ing := New(store, testLogger())

	req := testRequest(t)
	req.Frame = &dataset.Frame{
		Name:    "rides",
		Columns: []dataset.Column{{Name: "ride_id", Ints: []int64{1}}},
	}

	_, err := ing.Run(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Zero(t, store.putCalls)
	assert.Zero(t, store.copyCalls)
}

func TestRun_SkipIsFastOnRestart(t *testing.T) {
	// A fresh process (new Ingestor) must still detect unchanged content
	// purely from stored metadata.
	store := newFakeStore()

	_, err := New(store, testLogger()).Run(context.Background(), testRequest(t))
	require.NoError(t, err)

	res, err := New(store, testLogger()).Run(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, res.Status)
}
