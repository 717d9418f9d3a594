package cold_archiving

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/luneo7/go-rds-cold-archiving/internal/config"
	rdsTypes "github.com/luneo7/go-rds-cold-archiving/internal/rds/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newScanner() *ColdArchiving {
	return New(nil, nil, nil, nil, &config.Config{}, zap.NewNop())
}

func TestScanTagsSubstringOverrides(t *testing.T) {
	instance := &rdsTypes.Instance{
		Engine: aws.String("postgres"),
		Tags: rdsTypes.Tags{
			"arch:AutomatedBackupSecret":     "sec1",
			"prefix:AutomatedDBDumpS3Bucket": "bkt1",
			"arch:DB_name":                   "mydb,otherdb",
			"arch:DynamoDBtable":             "inventory",
			"arch:DbEngine":                  "aurora-postgresql",
			"AutomatedArchiving":             "Active",
		},
	}

	target := newScanner().scanTags(instance)
	require.True(t, target.Enabled)
	require.Equal(t, "sec1", *target.Secret)
	require.Equal(t, "bkt1", *target.Bucket)
	require.Equal(t, "mydb,otherdb", *target.DBNames)
	require.Equal(t, "inventory", *target.DynamoTable)
	require.Equal(t, "aurora-postgresql", *target.Engine)
	require.Empty(t, missingTags(&target))
}

func TestScanTagsEngineDefaultsToInstance(t *testing.T) {
	target := newScanner().scanTags(&rdsTypes.Instance{
		Engine: aws.String("mysql"),
		Tags:   rdsTypes.Tags{},
	})

	require.False(t, target.Enabled)
	require.Equal(t, "mysql", *target.Engine)
	require.Equal(t, []string{secretTagMarker, bucketTagMarker, dbNameTagMarker}, missingTags(&target))
}

func TestScanTagsArchivingFlagIsExact(t *testing.T) {
	tests := []struct {
		name    string
		tags    rdsTypes.Tags
		enabled bool
	}{
		{name: "exact", tags: rdsTypes.Tags{"AutomatedArchiving": "Active"}, enabled: true},
		{name: "prefixed key", tags: rdsTypes.Tags{"arch:AutomatedArchiving": "Active"}},
		{name: "inactive", tags: rdsTypes.Tags{"AutomatedArchiving": "Inactive"}},
		{name: "lower case value", tags: rdsTypes.Tags{"AutomatedArchiving": "active"}},
		{name: "value containing Active", tags: rdsTypes.Tags{"AutomatedArchiving": "NotActive"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newScanner().scanTags(&rdsTypes.Instance{Tags: tt.tags})
			require.Equal(t, tt.enabled, target.Enabled)
		})
	}
}

func TestScanTagsConfiguredArchivingKey(t *testing.T) {
	scanner := New(nil, nil, nil, nil, &config.Config{ArchivingTagKey: "arch:AutomatedArchiving"}, zap.NewNop())

	target := scanner.scanTags(&rdsTypes.Instance{Tags: rdsTypes.Tags{"arch:AutomatedArchiving": "Active"}})
	require.True(t, target.Enabled)

	target = scanner.scanTags(&rdsTypes.Instance{Tags: rdsTypes.Tags{"AutomatedArchiving": "Active"}})
	require.False(t, target.Enabled)
}

func TestScanTagsLastSortedKeyWins(t *testing.T) {
	target := newScanner().scanTags(&rdsTypes.Instance{Tags: rdsTypes.Tags{
		"a:AutomatedDBDumpS3Bucket": "first",
		"b:AutomatedDBDumpS3Bucket": "second",
	}})

	require.Equal(t, "second", *target.Bucket)
}
