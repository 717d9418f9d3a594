package cold_archiving

import (
	"context"
	"iter"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"
	"github.com/aws/smithy-go/ptr"
	"github.com/google/uuid"
	"github.com/luneo7/go-rds-cold-archiving/internal/batch"
	batchTypes "github.com/luneo7/go-rds-cold-archiving/internal/batch/types"
	"github.com/luneo7/go-rds-cold-archiving/internal/cold-archiving/types"
	"github.com/luneo7/go-rds-cold-archiving/internal/config"
	"github.com/luneo7/go-rds-cold-archiving/internal/cw"
	cwTypes "github.com/luneo7/go-rds-cold-archiving/internal/cw/types"
	"github.com/luneo7/go-rds-cold-archiving/internal/rds"
	rdsTypes "github.com/luneo7/go-rds-cold-archiving/internal/rds/types"
	"github.com/luneo7/go-rds-cold-archiving/internal/ssm"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type ParameterStore interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

type InstanceSource interface {
	Instances(ctx context.Context) iter.Seq2[rdsTypes.Instance, error]
	GetTags(ctx context.Context, dbInstanceArn *string) (rdsTypes.Tags, error)
}

type JobSubmitter interface {
	SubmitJob(ctx context.Context, job batchTypes.Job) (*batchTypes.SubmittedJob, error)
}

type MetricsPublisher interface {
	PutMetrics(ctx context.Context, metrics *cwTypes.Metrics) error
}

type ColdArchiving struct {
	parameters ParameterStore
	instances  InstanceSource
	jobs       JobSubmitter
	metrics    MetricsPublisher
	conf       *config.Config
	log        *zap.Logger
}

// NewColdArchiving wires the dispatcher to the AWS services described by
// awsConfig. Metrics are only published when a namespace is configured.
func NewColdArchiving(awsConfig *aws.Config, conf *config.Config, log *zap.Logger) *ColdArchiving {
	var metrics MetricsPublisher
	if conf.MetricsNamespace != "" {
		metrics = cw.NewCloudWatch(awsConfig, conf.MetricsNamespace)
	}

	return New(ssm.NewSSM(awsConfig), rds.NewRDS(awsConfig), batch.NewBatch(awsConfig), metrics, conf, log)
}

// New builds a dispatcher from its collaborators. metrics may be nil.
func New(parameters ParameterStore, instances InstanceSource, jobs JobSubmitter, metrics MetricsPublisher, conf *config.Config, log *zap.Logger) *ColdArchiving {
	conf.InitDefault()

	return &ColdArchiving{
		parameters: parameters,
		instances:  instances,
		jobs:       jobs,
		metrics:    metrics,
		conf:       conf,
		log:        log,
	}
}

// HandleRequest is the Lambda entrypoint.
func (r *ColdArchiving) HandleRequest(ctx context.Context, event Event) (*types.Summary, error) {
	return r.Dispatch(ctx, event.RetentionDays)
}

// Dispatch submits one archiving job for every instance tagged for archiving.
// Settings failures abort the run before any instance is looked at. Failures
// on a single instance are recorded and the remaining instances are still
// processed; they are returned together once the listing is exhausted.
func (r *ColdArchiving) Dispatch(ctx context.Context, retentionDays RetentionDays) (*types.Summary, error) {
	if err := (Event{RetentionDays: retentionDays}).Validate(); err != nil {
		return nil, err
	}

	id := runID(ctx)
	log := r.log.With(zap.String("run_id", id))

	settings, err := r.loadSettings(ctx, log)
	if err != nil {
		log.Error("unable to load settings", zap.Error(err))
		return nil, err
	}

	log.Info("dispatching cold archiving jobs",
		zap.String("job_queue", settings.JobQueue),
		zap.String("job_definition", settings.JobDefinition),
		zap.String("inventory_table", settings.InventoryTable),
		zap.String("retention_days", retentionDays.String()),
		zap.Bool("dry_run", r.conf.DryRun),
	)

	summary := &types.Summary{
		RunID:         id,
		RetentionDays: retentionDays.String(),
		DryRun:        r.conf.DryRun,
		Settings:      *settings,
		Submitted:     make([]types.SubmittedJob, 0),
		Skipped:       make([]string, 0),
		Failures:      make([]types.Failure, 0),
	}

	var errs error

	for instance, err := range r.instances.Instances(ctx) {
		if err != nil {
			err = r.upstreamError(log, "", err)
			summary.Failures = append(summary.Failures, types.Failure{Error: err.Error()})
			errs = multierr.Append(errs, err)
			break
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			err = &DispatchError{Kind: ErrUpstreamService, Err: ctxErr}
			summary.Failures = append(summary.Failures, types.Failure{Error: err.Error()})
			errs = multierr.Append(errs, err)
			break
		}

		summary.Scanned++

		err = r.dispatchInstance(ctx, log, settings, retentionDays, &instance, summary)
		if err != nil {
			instanceID := aws.ToString(instance.DBInstanceIdentifier)
			log.Error("instance failed", zap.String("instance", instanceID), zap.Error(err))
			summary.Failures = append(summary.Failures, types.Failure{Instance: instanceID, Error: err.Error()})
			errs = multierr.Append(errs, err)
		}
	}

	r.publishMetrics(ctx, log, summary)

	log.Info("cold archiving dispatch finished",
		zap.Int("scanned", summary.Scanned),
		zap.Int("submitted", len(summary.Submitted)),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int("failures", len(summary.Failures)),
	)

	return summary, errs
}

// Inspect resolves the archive target of every instance without submitting
// anything.
func (r *ColdArchiving) Inspect(ctx context.Context) ([]types.InstanceReport, error) {
	reports := make([]types.InstanceReport, 0)

	for instance, err := range r.instances.Instances(ctx) {
		if err != nil {
			return nil, r.upstreamError(r.log, "", err)
		}

		tags, err := r.instances.GetTags(ctx, instance.DBInstanceArn)
		if err != nil {
			return nil, r.upstreamError(r.log, aws.ToString(instance.DBInstanceIdentifier), err)
		}
		instance.Tags = tags

		target := r.scanTags(&instance)
		report := types.InstanceReport{
			Instance: instance,
			Target:   target,
		}

		if target.Enabled {
			report.Missing = missingTags(&target)
		}

		reports = append(reports, report)
	}

	return reports, nil
}

func (r *ColdArchiving) dispatchInstance(ctx context.Context, log *zap.Logger, settings *types.Settings, retentionDays RetentionDays, instance *rdsTypes.Instance, summary *types.Summary) error {
	id := aws.ToString(instance.DBInstanceIdentifier)
	log = log.With(zap.String("instance", id))

	tags, err := r.instances.GetTags(ctx, instance.DBInstanceArn)
	if err != nil {
		return r.upstreamError(log, id, err)
	}
	instance.Tags = tags

	target := r.scanTags(instance)

	if !target.Enabled {
		log.Debug("archiving not enabled, skipping")
		summary.Skipped = append(summary.Skipped, id)
		return nil
	}

	if missing := missingTags(&target); len(missing) > 0 {
		return &DispatchError{
			Kind:     ErrInstanceTagIncomplete,
			Instance: id,
			Err:      errors.Errorf("missing tags: %s", strings.Join(missing, ", ")),
		}
	}

	if instance.EndpointAddress == nil {
		return &DispatchError{
			Kind:     ErrInstanceEndpointMissing,
			Instance: id,
			Err:      errors.New("instance has no endpoint address yet"),
		}
	}

	job := r.newJob(settings, retentionDays, instance, &target)

	if r.conf.DryRun {
		log.Info("dry run, job not submitted", zap.String("job_name", job.Name), zap.Any("environment", job.Environment))
		summary.Submitted = append(summary.Submitted, types.SubmittedJob{Instance: id, JobName: job.Name})
		return nil
	}

	submitted, err := r.jobs.SubmitJob(ctx, job)
	if err != nil {
		return r.upstreamError(log, id, err)
	}

	log.Info("archiving job submitted", zap.String("job_id", aws.ToString(submitted.JobID)))
	summary.Submitted = append(summary.Submitted, types.SubmittedJob{
		Instance: id,
		JobID:    aws.ToString(submitted.JobID),
		JobName:  job.Name,
	})

	return nil
}

// newJob builds the job for an instance. PGSQL_HOST carries the instance ARN
// and BACKUP_TARGET the endpoint address; the archiving job relies on both.
func (r *ColdArchiving) newJob(settings *types.Settings, retentionDays RetentionDays, instance *rdsTypes.Instance, target *types.ArchiveTarget) batchTypes.Job {
	env := func(name types.EnvironmentName, value string) batchTypes.EnvironmentEntry {
		return batchTypes.EnvironmentEntry{Name: name.String(), Value: value}
	}

	return batchTypes.Job{
		Definition: settings.JobDefinition,
		Queue:      settings.JobQueue,
		Name:       r.conf.JobName,
		Environment: []batchTypes.EnvironmentEntry{
			env(types.DBNameEnv, aws.ToString(instance.DBInstanceIdentifier)),
			env(types.SecretIDEnv, *target.Secret),
			env(types.BucketEnv, *target.Bucket),
			env(types.PgsqlHostEnv, aws.ToString(instance.DBInstanceArn)),
			env(types.BackupTargetEnv, *instance.EndpointAddress),
			env(types.DBEngineEnv, *target.Engine),
			env(types.DBNamesEnv, *target.DBNames),
			env(types.InventoryTableEnv, settings.InventoryTable),
			env(types.ArchiveRetentionDaysEnv, retentionDays.String()),
		},
	}
}

func (r *ColdArchiving) loadSettings(ctx context.Context, log *zap.Logger) (*types.Settings, error) {
	inventoryTable, err := r.getParameter(ctx, log, r.conf.InventoryTableParameter)
	if err != nil {
		return nil, err
	}

	rawQueue, err := r.getParameter(ctx, log, r.conf.JobQueueParameter)
	if err != nil {
		return nil, err
	}

	rawDefinition, err := r.getParameter(ctx, log, r.conf.JobDefinitionParameter)
	if err != nil {
		return nil, err
	}

	queue, err := queueName(rawQueue)
	if err != nil {
		return nil, &DispatchError{Kind: ErrConfigurationMalformed, Err: errors.Wrap(err, r.conf.JobQueueParameter)}
	}

	definition, err := jobDefinitionName(rawDefinition)
	if err != nil {
		return nil, &DispatchError{Kind: ErrConfigurationMalformed, Err: errors.Wrap(err, r.conf.JobDefinitionParameter)}
	}

	return &types.Settings{
		InventoryTable: inventoryTable,
		JobQueue:       queue,
		JobDefinition:  definition,
	}, nil
}

func (r *ColdArchiving) getParameter(ctx context.Context, log *zap.Logger, name string) (string, error) {
	value, err := r.parameters.GetParameter(ctx, name)
	if err != nil {
		if errors.Is(err, ssm.ErrParameterNotFound) {
			return "", &DispatchError{Kind: ErrConfigurationMissing, Err: err}
		}
		return "", r.upstreamError(log, "", err)
	}

	return value, nil
}

func (r *ColdArchiving) publishMetrics(ctx context.Context, log *zap.Logger, summary *types.Summary) {
	if r.metrics == nil {
		return
	}

	err := r.metrics.PutMetrics(ctx, &cwTypes.Metrics{
		DispatchMetrics: map[cwTypes.DispatchMetricName]cwTypes.Metric{
			cwTypes.InstancesScanned: {Value: ptr.Float64(float64(summary.Scanned))},
			cwTypes.JobsSubmitted:    {Value: ptr.Float64(float64(len(summary.Submitted)))},
			cwTypes.InstancesSkipped: {Value: ptr.Float64(float64(len(summary.Skipped)))},
			cwTypes.InstanceFailures: {Value: ptr.Float64(float64(len(summary.Failures)))},
		},
	})

	if err != nil {
		log.Warn("unable to publish dispatch metrics", zap.Error(err))
	}
}

func (r *ColdArchiving) upstreamError(log *zap.Logger, instance string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		log.Debug("aws api error",
			zap.String("instance", instance),
			zap.String("error_code", apiErr.ErrorCode()),
			zap.String("error_fault", apiErr.ErrorFault().String()),
		)
	}

	return &DispatchError{Kind: ErrUpstreamService, Instance: instance, Err: err}
}

func runID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}

	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}

	return uuid.NewString()
}

type runIDKey struct{}

// WithRunID pins the run id used in logs and the summary.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}
