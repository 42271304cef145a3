// Package ingest orchestrates idempotent, atomic writes of dataset
// partitions to object storage.
//
// One call serializes a frame, hashes the bytes, and commits them under a
// partitioned key via a staging object and a server-side promotion copy.
// The content digest stored in object metadata is the idempotency token:
// a re-run with identical bytes is detected up front and skipped without
// any network write.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meridian-data/lakestage/codec"
	"github.com/meridian-data/lakestage/dataset"
	"github.com/meridian-data/lakestage/digest"
	"github.com/meridian-data/lakestage/objstore"
	"github.com/meridian-data/lakestage/objstore/errors"
	"github.com/meridian-data/lakestage/objstore/objtypes"
)

// Metadata keys stamped on every committed object.
const (
	MetaSchemaVersion = "schema_version"
	MetaContentSHA256 = "content_sha256"
)

// SchemaVersion is the current schema version written to object metadata.
const SchemaVersion = "1"

// Store is the narrow slice of the storage client the orchestrator needs.
// It is satisfied by *objstore.Client and by an in-memory fake in tests.
type Store interface {
	Head(ctx context.Context, key string) (*objtypes.ObjectMetadata, error)
	Put(ctx context.Context, key string, data []byte, opts ...objtypes.UploadOption) error
	Copy(ctx context.Context, srcKey, dstKey string, opts ...objtypes.CopyOption) error
	Delete(ctx context.Context, key string) error
}

// Status reports the outcome of an ingest run.
type Status string

// Ingest outcomes.
const (
	// StatusUnchanged means the destination already carried the same
	// content digest; no write was performed.
	StatusUnchanged Status = "unchanged"

	// StatusWritten means new content was staged and promoted.
	StatusWritten Status = "written"
)

// Request describes one partition write.
type Request struct {
	// Dataset is the logical dataset name (e.g. "rides")
	Dataset string

	// Frame is the tabular data to write
	Frame *dataset.Frame

	// Date is the ISO partition date (YYYY-MM-DD)
	Date string

	// Format selects the byte encoding
	Format codec.Format

	// Compression applies to delimited-text output only
	Compression codec.Compression

	// Prefix is the destination key prefix (e.g. "curated/")
	Prefix string

	// EnvTag is the value of the "env" object tag
	EnvTag string

	// RequiredColumns are validated before serialization; empty means
	// all frame columns are required to be present (trivially true)
	RequiredColumns []string
}

// Result reports what an ingest run did.
type Result struct {
	Status Status
	Key    string
	Digest string
	Bytes  int
}

// Ingestor performs idempotent, atomic partition writes.
//
// Concurrent runs for different keys are fully independent. Concurrent
// runs for the same key are not coordinated: both may pass the existence
// check and the last promotion wins, leaving one orphaned staging object.
// Callers needing single-writer semantics must add external coordination.
type Ingestor struct {
	store Store
	log   *slog.Logger
}

// New creates an Ingestor over the given store. A nil logger falls back
// to slog.Default().
func New(store Store, log *slog.Logger) *Ingestor {
	if log == nil {
		log = slog.Default()
	}
	return &Ingestor{store: store, log: log}
}

// Run performs one partition write:
// serialize, digest, skip when the destination already carries the same
// digest, otherwise stage, promote, and clean up.
//
// A failure while staging leaves the final key in its prior state. A
// failure during promotion leaves an orphaned staging object but never a
// partially written final key; the whole operation can be retried safely.
// A failed staging cleanup is logged, not returned.
func (ing *Ingestor) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Frame.Validate(req.RequiredColumns); err != nil {
		return nil, fmt.Errorf("validate frame: %w", err)
	}

	enc, err := codec.Encode(req.Frame, req.Format, req.Compression)
	if err != nil {
		return nil, fmt.Errorf("encode %s as %s: %w", req.Dataset, req.Format, err)
	}

	contentSHA := digest.SHA256Bytes(enc.Data)
	finalKey := PartitionKey(req.Prefix, req.Dataset, req.Date, 0, enc.Extension)

	unchanged, err := ing.matchesExisting(ctx, finalKey, contentSHA)
	if err != nil {
		return nil, err
	}
	if unchanged {
		ing.log.Info("ingest skipped, content unchanged",
			"key", finalKey, "sha256", contentSHA)
		return &Result{
			Status: StatusUnchanged,
			Key:    finalKey,
			Digest: contentSHA,
			Bytes:  len(enc.Data),
		}, nil
	}

	metadata := map[string]string{
		MetaSchemaVersion: SchemaVersion,
		MetaContentSHA256: contentSHA,
	}
	tags := map[string]string{
		"env":     req.EnvTag,
		"dataset": req.Dataset,
	}

	stagingKey := StagingKey(finalKey)
	err = ing.store.Put(ctx, stagingKey, enc.Data,
		objstore.WithContentType(enc.ContentType),
		objstore.WithMetadata(metadata),
		objstore.WithTags(tags),
	)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", stagingKey, err)
	}

	err = ing.store.Copy(ctx, stagingKey, finalKey,
		objstore.WithCopyContentType(enc.ContentType),
		objstore.WithMetadataOverride(metadata),
		objstore.WithTagsOverride(tags),
	)
	if err != nil {
		return nil, fmt.Errorf("promote %s to %s: %w", stagingKey, finalKey, err)
	}

	// Best effort: an orphaned staging object wastes space but cannot
	// corrupt the committed object.
	if err := ing.store.Delete(ctx, stagingKey); err != nil {
		ing.log.Warn("failed to delete staging object",
			"key", stagingKey, "error", err)
	}

	ing.log.Info("ingest written",
		"key", finalKey, "sha256", contentSHA, "bytes", len(enc.Data))

	return &Result{
		Status: StatusWritten,
		Key:    finalKey,
		Digest: contentSHA,
		Bytes:  len(enc.Data),
	}, nil
}

// matchesExisting reports whether the final key already exists with the
// given content digest. An absent key is the normal "needs write" case.
func (ing *Ingestor) matchesExisting(ctx context.Context, finalKey, contentSHA string) (bool, error) {
	meta, err := ing.store.Head(ctx, finalKey)
	if err != nil {
		if errors.IsObjectNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head %s: %w", finalKey, err)
	}
	return meta.Metadata[MetaContentSHA256] == contentSHA, nil
}
