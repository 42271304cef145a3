package ingest

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// stagingPrefix is the namespace for ephemeral pre-promotion objects.
const stagingPrefix = "staging"

// PartitionKey constructs the final object key for one dataset partition:
// <prefix>/<dataset>/date=<YYYY-MM-DD>/part-<part>.<ext>.
func PartitionKey(prefix, dataset, day string, part int, ext string) string {
	return fmt.Sprintf("%s/%s/date=%s/part-%05d.%s",
		strings.TrimRight(prefix, "/"), dataset, day, part, ext)
}

// StagingKey derives an ephemeral key for the given final key. The key is
// unique per call so concurrent writers never contend on a staging object.
func StagingKey(finalKey string) string {
	return fmt.Sprintf("%s/%d-%s-%s",
		stagingPrefix,
		time.Now().UnixMilli(),
		uuid.NewString(),
		path.Base(finalKey))
}
