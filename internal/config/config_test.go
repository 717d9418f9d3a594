package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"INVENTORY_TABLE_PARAMETER", "JOB_QUEUE_PARAMETER", "JOB_DEFINITION_PARAMETER",
		"ARCHIVING_TAG_KEY", "ARCHIVING_TAG_VALUE", "JOB_NAME", "METRICS_NAMESPACE",
		"LOG_LEVEL", "DRY_RUN", "AWS_MAX_ATTEMPTS",
	} {
		t.Setenv(key, "")
	}

	c, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "ColdArchivingInventoryTable", c.InventoryTableParameter)
	require.Equal(t, "BatchJobQueueName", c.JobQueueParameter)
	require.Equal(t, "BatchJobDefinitionName", c.JobDefinitionParameter)
	require.Equal(t, "AutomatedArchiving", c.ArchivingTagKey)
	require.Equal(t, "Active", c.ArchivingTagValue)
	require.Equal(t, "cold_archiving_job", c.JobName)
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, 3, c.MaxAttempts)
	require.False(t, c.DryRun)
	require.Empty(t, c.MetricsNamespace)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ARCHIVING_TAG_KEY", "arch:AutomatedArchiving")
	t.Setenv("JOB_QUEUE_PARAMETER", "/archiving/queue")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("AWS_MAX_ATTEMPTS", "5")
	t.Setenv("METRICS_NAMESPACE", "ColdArchiving")

	c, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "arch:AutomatedArchiving", c.ArchivingTagKey)
	require.Equal(t, "/archiving/queue", c.JobQueueParameter)
	require.True(t, c.DryRun)
	require.Equal(t, 5, c.MaxAttempts)
	require.Equal(t, "ColdArchiving", c.MetricsNamespace)
}

func TestFromEnvInvalid(t *testing.T) {
	t.Setenv("DRY_RUN", "maybe")

	_, err := FromEnv()
	require.ErrorContains(t, err, "DRY_RUN")

	t.Setenv("DRY_RUN", "")
	t.Setenv("AWS_MAX_ATTEMPTS", "three")

	_, err = FromEnv()
	require.ErrorContains(t, err, "AWS_MAX_ATTEMPTS")
}

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	t.Setenv("AWS_PROFILE", "")

	c := &Config{
		Region:   "eu-west-1",
		Endpoint: "http://localhost:4566",
		Key:      "test",
		Secret:   "test",
	}
	c.InitDefault()

	cfg, err := c.LoadAWSConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, "eu-west-1", cfg.Region)
	require.Equal(t, "http://localhost:4566", *cfg.BaseEndpoint)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "test", creds.AccessKeyID)
}
