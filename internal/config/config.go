package config

import (
	"context"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/pkg/errors"
)

const (
	defaultInventoryTableParameter = "ColdArchivingInventoryTable"
	defaultJobQueueParameter       = "BatchJobQueueName"
	defaultJobDefinitionParameter  = "BatchJobDefinitionName"
	defaultArchivingTagKey         = "AutomatedArchiving"
	defaultArchivingTagValue       = "Active"
	defaultJobName                 = "cold_archiving_job"
	defaultLogLevel                = "info"
	defaultMaxAttempts             = 3
)

// Config holds the dispatcher settings. Zero values are replaced by
// InitDefault.
type Config struct {
	// SSM parameter names holding the inventory table, the job queue ARN and
	// the job definition ARN.
	InventoryTableParameter string
	JobQueueParameter       string
	JobDefinitionParameter  string

	// Tag key and value that enable archiving for an instance. Both are
	// compared exactly.
	ArchivingTagKey   string
	ArchivingTagValue string

	JobName string

	// When set, jobs are resolved and logged but never submitted.
	DryRun bool

	// CloudWatch namespace for dispatch metrics, empty disables publishing.
	MetricsNamespace string

	LogLevel string

	// aws
	Profile      string
	Region       string
	Endpoint     string
	Key          string
	Secret       string
	SessionToken string
	MaxAttempts  int
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (*Config, error) {
	c := &Config{
		InventoryTableParameter: os.Getenv("INVENTORY_TABLE_PARAMETER"),
		JobQueueParameter:       os.Getenv("JOB_QUEUE_PARAMETER"),
		JobDefinitionParameter:  os.Getenv("JOB_DEFINITION_PARAMETER"),
		ArchivingTagKey:         os.Getenv("ARCHIVING_TAG_KEY"),
		ArchivingTagValue:       os.Getenv("ARCHIVING_TAG_VALUE"),
		JobName:                 os.Getenv("JOB_NAME"),
		MetricsNamespace:        os.Getenv("METRICS_NAMESPACE"),
		LogLevel:                os.Getenv("LOG_LEVEL"),
	}

	if str := os.Getenv("DRY_RUN"); str != "" {
		dryRun, err := strconv.ParseBool(str)
		if err != nil {
			return nil, errors.Wrap(err, "DRY_RUN")
		}
		c.DryRun = dryRun
	}

	if str := os.Getenv("AWS_MAX_ATTEMPTS"); str != "" {
		maxAttempts, err := strconv.Atoi(str)
		if err != nil {
			return nil, errors.Wrap(err, "AWS_MAX_ATTEMPTS")
		}
		c.MaxAttempts = maxAttempts
	}

	c.InitDefault()

	return c, nil
}

func (c *Config) InitDefault() {
	if c.InventoryTableParameter == "" {
		c.InventoryTableParameter = defaultInventoryTableParameter
	}

	if c.JobQueueParameter == "" {
		c.JobQueueParameter = defaultJobQueueParameter
	}

	if c.JobDefinitionParameter == "" {
		c.JobDefinitionParameter = defaultJobDefinitionParameter
	}

	if c.ArchivingTagKey == "" {
		c.ArchivingTagKey = defaultArchivingTagKey
	}

	if c.ArchivingTagValue == "" {
		c.ArchivingTagValue = defaultArchivingTagValue
	}

	if c.JobName == "" {
		c.JobName = defaultJobName
	}

	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}

	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
}

// LoadAWSConfig resolves the shared AWS configuration, honouring the profile,
// region, endpoint and static credential overrides.
func (c *Config) LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	optFns := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRetryMaxAttempts(c.MaxAttempts),
	}

	if c.Profile != "" {
		optFns = append(optFns, awsConfig.WithSharedConfigProfile(c.Profile))
	}

	if c.Region != "" {
		optFns = append(optFns, awsConfig.WithRegion(c.Region))
	}

	if c.Endpoint != "" {
		optFns = append(optFns, awsConfig.WithBaseEndpoint(c.Endpoint))
	}

	if c.Key != "" && c.Secret != "" {
		optFns = append(optFns, awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.Key, c.Secret, c.SessionToken)))
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "load aws config")
	}

	return cfg, nil
}
