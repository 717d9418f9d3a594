package cold_archiving

import (
	"maps"
	"slices"
	"strings"

	"github.com/luneo7/go-rds-cold-archiving/internal/cold-archiving/types"
	rdsTypes "github.com/luneo7/go-rds-cold-archiving/internal/rds/types"
)

// Override tags are matched by substring so that prefixed keys such as
// arch:AutomatedBackupSecret are picked up.
const (
	secretTagMarker      = "AutomatedBackupSecret"
	bucketTagMarker      = "AutomatedDBDumpS3Bucket"
	dbNameTagMarker      = "DB_name"
	dynamoTableTagMarker = "DynamoDBtable"
	engineTagMarker      = "DbEngine"
)

// scanTags resolves the archive target of an instance. Keys are visited in
// sorted order, so when several keys carry the same marker the last one wins.
func (r *ColdArchiving) scanTags(instance *rdsTypes.Instance) types.ArchiveTarget {
	target := types.ArchiveTarget{
		Engine: instance.Engine,
	}

	for _, key := range slices.Sorted(maps.Keys(instance.Tags)) {
		value := instance.Tags[key]

		switch {
		case strings.Contains(key, secretTagMarker):
			target.Secret = &value
		case strings.Contains(key, bucketTagMarker):
			target.Bucket = &value
		case strings.Contains(key, dbNameTagMarker):
			target.DBNames = &value
		case strings.Contains(key, dynamoTableTagMarker):
			target.DynamoTable = &value
		case strings.Contains(key, engineTagMarker):
			target.Engine = &value
		}

		if key == r.conf.ArchivingTagKey && value == r.conf.ArchivingTagValue {
			target.Enabled = true
		}
	}

	return target
}

// missingTags lists the markers a job cannot be submitted without.
func missingTags(target *types.ArchiveTarget) []string {
	var missing []string

	if target.Secret == nil {
		missing = append(missing, secretTagMarker)
	}

	if target.Bucket == nil {
		missing = append(missing, bucketTagMarker)
	}

	if target.DBNames == nil {
		missing = append(missing, dbNameTagMarker)
	}

	if target.Engine == nil {
		missing = append(missing, engineTagMarker)
	}

	return missing
}
