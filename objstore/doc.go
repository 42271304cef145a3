// Package objstore provides a high-level client for S3-compatible object
// storage. It wraps AWS SDK v2 to expose the small operation surface the
// ingest pipeline needs: metadata lookup, uploads with metadata and tags,
// server-side copy, deletion, prefix listing, and presigned URLs.
//
// The client works against both native AWS S3 and self-hosted compatible
// backends (MinIO, LocalStack) via an endpoint override and path-style
// addressing. Transient network failures are handled by the SDK's
// configured retryer; exhausting the retry budget surfaces a terminal
// error to the caller.
//
// Example usage:
//
//	store, err := objstore.New(ctx,
//	    objstore.WithBucket("curated-data"),
//	    objstore.WithRegion("eu-west-1"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	err = store.Put(ctx, "curated/rides/date=2025-09-21/part-00000.csv.gz", data,
//	    objstore.WithContentType("text/csv"),
//	    objstore.WithMetadata(map[string]string{"schema_version": "1"}),
//	)
package objstore
