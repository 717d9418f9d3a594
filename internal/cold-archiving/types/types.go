package types

import (
	rdsTypes "github.com/luneo7/go-rds-cold-archiving/internal/rds/types"
)

type EnvironmentName string

// Environment entries handed to the archiving job
const (
	DBNameEnv               EnvironmentName = "DB_NAME"
	SecretIDEnv             EnvironmentName = "SECRETID"
	BucketEnv               EnvironmentName = "BUCKET"
	PgsqlHostEnv            EnvironmentName = "PGSQL_HOST"
	BackupTargetEnv         EnvironmentName = "BACKUP_TARGET"
	DBEngineEnv             EnvironmentName = "DB_ENGINE"
	DBNamesEnv              EnvironmentName = "DB_NAMES"
	InventoryTableEnv       EnvironmentName = "INVENTORY_TABLE"
	ArchiveRetentionDaysEnv EnvironmentName = "ARCHIVE_RETENTION_DAYS"
)

func (e EnvironmentName) String() string {
	return string(e)
}

// Settings are read from the parameter store once per dispatch.
type Settings struct {
	InventoryTable string `json:"inventoryTable"`
	JobQueue       string `json:"jobQueue"`
	JobDefinition  string `json:"jobDefinition"`
}

// ArchiveTarget is what the tags of a single instance resolve to.
type ArchiveTarget struct {
	Secret  *string `json:"secret,omitempty"`
	Bucket  *string `json:"bucket,omitempty"`
	DBNames *string `json:"dbNames,omitempty"`
	// Read for completeness, the job does not receive it.
	DynamoTable *string `json:"dynamoTable,omitempty"`
	Engine      *string `json:"engine,omitempty"`
	Enabled     bool    `json:"enabled"`
}

type SubmittedJob struct {
	Instance string `json:"instance"`
	JobID    string `json:"jobId,omitempty"`
	JobName  string `json:"jobName"`
}

type Failure struct {
	Instance string `json:"instance,omitempty"`
	Error    string `json:"error"`
}

type Summary struct {
	RunID         string         `json:"runId"`
	RetentionDays string         `json:"retentionDays"`
	DryRun        bool           `json:"dryRun"`
	Settings      Settings       `json:"settings"`
	Scanned       int            `json:"scanned"`
	Submitted     []SubmittedJob `json:"submitted"`
	Skipped       []string       `json:"skipped"`
	Failures      []Failure      `json:"failures"`
}

type InstanceReport struct {
	rdsTypes.Instance
	Target  ArchiveTarget `json:"target"`
	Missing []string      `json:"missing,omitempty"`
}
